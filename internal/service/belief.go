package service

import (
	"fmt"
	"sort"

	"github.com/credal-io/credal/internal/domain"
)

// Belief returns the degree of belief in p under the assignment: the total
// (additive mode) or best (max-min mode) value of focal sets that entail p.
// The empty proposition always has belief 0.
func Belief(a *domain.Assignment, p domain.Proposition) float64 {
	degree := 0.0
	for _, f := range a.Focal() {
		if !f.SubsetOf(p) {
			continue
		}
		v := a.Value(f)
		switch a.Mode() {
		case domain.AggregateMax:
			if v > degree {
				degree = v
			}
		default:
			degree += v
		}
	}
	return degree
}

// Plausibility returns the degree to which p is not ruled out: the total or
// best value of focal sets compatible with p.
func Plausibility(a *domain.Assignment, p domain.Proposition) float64 {
	degree := 0.0
	for _, f := range a.Focal() {
		if !f.Intersects(p) {
			continue
		}
		v := a.Value(f)
		switch a.Mode() {
		case domain.AggregateMax:
			if v > degree {
				degree = v
			}
		default:
			degree += v
		}
	}
	return degree
}

// BeliefTable is the materialized (Bel, Pl) mapping over every subset of the
// space. Building it walks the power set once; repeated queries never rerun
// the combination step.
type BeliefTable struct {
	space   *domain.WorldSpace
	entries map[domain.Proposition]domain.BeliefPlausibility
}

// NewBeliefTable derives the full belief/plausibility table from a combined
// assignment.
func NewBeliefTable(a *domain.Assignment) *BeliefTable {
	space := a.Space()
	entries := make(map[domain.Proposition]domain.BeliefPlausibility, 1<<uint(space.Size()))

	it := space.Subsets()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		entries[p] = domain.BeliefPlausibility{
			Belief:       Belief(a, p),
			Plausibility: Plausibility(a, p),
		}
	}

	return &BeliefTable{space: space, entries: entries}
}

// Space returns the world space the table is defined over.
func (t *BeliefTable) Space() *domain.WorldSpace {
	return t.space
}

// Get returns the (Bel, Pl) pair for p. Fails with ErrInvalidProposition
// when p is not a subset of the space.
func (t *BeliefTable) Get(p domain.Proposition) (domain.BeliefPlausibility, error) {
	if !p.SubsetOf(t.space.Full()) {
		return domain.BeliefPlausibility{}, fmt.Errorf("%w: %b", domain.ErrInvalidProposition, p)
	}
	return t.entries[p], nil
}

// Query returns the (Bel, Pl) pair for the proposition named by worlds.
func (t *BeliefTable) Query(worlds ...domain.World) (domain.BeliefPlausibility, error) {
	p, err := t.space.Proposition(worlds...)
	if err != nil {
		return domain.BeliefPlausibility{}, err
	}
	return t.entries[p], nil
}

// RankedEntry is one row of the ranked non-zero-belief listing.
type RankedEntry struct {
	Worlds       []domain.World `json:"worlds"`
	Belief       float64        `json:"belief"`
	Plausibility float64        `json:"plausibility"`
}

// Ranked lists the propositions with non-zero belief, ordered by increasing
// cardinality and, within a cardinality level, by decreasing belief. Ties
// break on the canonical subset order so output is stable.
func (t *BeliefTable) Ranked() []RankedEntry {
	type row struct {
		p  domain.Proposition
		bp domain.BeliefPlausibility
	}
	rows := make([]row, 0, len(t.entries))
	for p, bp := range t.entries {
		if bp.Belief == 0 {
			continue
		}
		rows = append(rows, row{p: p, bp: bp})
	}

	sort.Slice(rows, func(i, j int) bool {
		ci, cj := rows[i].p.Cardinality(), rows[j].p.Cardinality()
		if ci != cj {
			return ci < cj
		}
		if rows[i].bp.Belief != rows[j].bp.Belief {
			return rows[i].bp.Belief > rows[j].bp.Belief
		}
		return rows[i].p < rows[j].p
	})

	out := make([]RankedEntry, len(rows))
	for i, r := range rows {
		out[i] = RankedEntry{
			Worlds:       t.space.Decode(r.p),
			Belief:       r.bp.Belief,
			Plausibility: r.bp.Plausibility,
		}
	}
	return out
}
