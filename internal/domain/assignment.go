package domain

import "sort"

// Aggregation selects how an Assignment's per-subset values combine into
// belief and plausibility degrees.
type Aggregation int

const (
	// AggregateSum treats values as additive mass (Dempster–Shafer).
	AggregateSum Aggregation = iota
	// AggregateMax treats values as max-min support grades (topological
	// evidential support).
	AggregateMax
)

// Assignment maps focal subsets of a space to non-negative values. It is the
// output of a combination run and the sole input to belief/plausibility
// computation. Assignments are immutable once built.
type Assignment struct {
	space  *WorldSpace
	mode   Aggregation
	values map[Proposition]float64
}

// NewAssignment copies values into a fresh Assignment, dropping zero
// entries. The empty set never carries a value: conflict mass is either
// redistributed (ds_int) or left missing (ds_min, sd_min).
func NewAssignment(space *WorldSpace, mode Aggregation, values map[Proposition]float64) *Assignment {
	kept := make(map[Proposition]float64, len(values))
	for p, v := range values {
		if p.IsEmpty() || v == 0 {
			continue
		}
		kept[p] = v
	}
	return &Assignment{space: space, mode: mode, values: kept}
}

// Space returns the world space the assignment is defined over.
func (a *Assignment) Space() *WorldSpace {
	return a.space
}

// Mode returns the aggregation semantics of the values.
func (a *Assignment) Mode() Aggregation {
	return a.mode
}

// Value returns the mass or grade assigned to p, zero when p is not focal.
func (a *Assignment) Value(p Proposition) float64 {
	return a.values[p]
}

// Focal returns the subsets carrying non-zero value, in ascending bitset
// order for determinism.
func (a *Assignment) Focal() []Proposition {
	out := make([]Proposition, 0, len(a.values))
	for p := range a.values {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TotalMass returns the sum of all assigned values. For a normalized DS
// assignment this is 1. Unnormalized assignments carry no unit-sum
// constraint: conflict stays missing, so the total can fall below 1, and
// max-min grades are not masses, so it can also exceed 1.
func (a *Assignment) TotalMass() float64 {
	total := 0.0
	for _, v := range a.values {
		total += v
	}
	return total
}

// BeliefPlausibility is the (Bel, Pl) pair for one queried proposition.
// Bel ≤ Pl always holds.
type BeliefPlausibility struct {
	Belief       float64 `json:"belief"`
	Plausibility float64 `json:"plausibility"`
}
