package service

import (
	"fmt"

	"github.com/credal-io/credal/internal/domain"
)

// MassAssignment folds one source's pieces into an additive mass assignment.
// Pieces sharing a focal set accumulate.
func MassAssignment(space *domain.WorldSpace, pieces []domain.EvidencePiece) *domain.Assignment {
	masses := make(map[domain.Proposition]float64, len(pieces))
	for _, piece := range pieces {
		masses[piece.Focal] += piece.Strength
	}
	return domain.NewAssignment(space, domain.AggregateSum, masses)
}

// CombineDempster merges two mass assignments with Dempster's rule of
// combination: pairwise products allocated to intersections, conflict mass
// discarded and the remainder renormalized. The operation is commutative and
// associative, so folding any number of sources in any order yields the same
// mass function.
//
// Fails with ErrTotalConflict when the conflict mass K reaches 1 within the
// given tolerance: the sources are logically incompatible and no combination
// exists.
func CombineDempster(m1, m2 *domain.Assignment, tolerance float64) (*domain.Assignment, error) {
	if tolerance <= 0 {
		tolerance = domain.MassTolerance
	}

	combined := make(map[domain.Proposition]float64)
	conflict := 0.0
	for _, f1 := range m1.Focal() {
		w1 := m1.Value(f1)
		for _, f2 := range m2.Focal() {
			w := w1 * m2.Value(f2)
			c := f1.Intersect(f2)
			if c.IsEmpty() {
				conflict += w
			} else {
				combined[c] += w
			}
		}
	}

	norm := 1 - conflict
	if norm <= tolerance {
		return nil, fmt.Errorf("%w: conflict mass %g", domain.ErrTotalConflict, conflict)
	}
	for p := range combined {
		combined[p] /= norm
	}

	return domain.NewAssignment(m1.Space(), domain.AggregateSum, combined), nil
}

// CombineMin merges two mass assignments with the unnormalized minimum rule:
// a pair contributes min(m1(F1), m2(F2)) to its intersection, and each
// non-empty intersection keeps the best contribution (max-min composition).
// Conflict is not redistributed; fully conflicting sources simply leave an
// empty assignment, so the total mass may be sub-unit and never errors.
func CombineMin(m1, m2 *domain.Assignment) *domain.Assignment {
	combined := make(map[domain.Proposition]float64)
	for _, f1 := range m1.Focal() {
		w1 := m1.Value(f1)
		for _, f2 := range m2.Focal() {
			c := f1.Intersect(f2)
			if c.IsEmpty() {
				continue
			}
			w := w1
			if w2 := m2.Value(f2); w2 < w {
				w = w2
			}
			if w > combined[c] {
				combined[c] = w
			}
		}
	}
	return domain.NewAssignment(m1.Space(), domain.AggregateSum, combined)
}
