package service

import "github.com/credal-io/credal/internal/domain"

// SupportAssignment computes the max-min evidential support grades used by
// the sd_min reasoner. Every sub-collection of the evidence basis whose
// intersection is non-empty and dense in the evidential topology (it meets
// every focal set of the basis, the strong-denseness criterion) contributes
// the minimum strength of its members to that intersection; each
// intersection keeps the best contribution.
//
// A basis with no dense non-empty intersection, such as two disjoint pieces
// held with certainty, yields an empty assignment: belief degenerates to
// zero everywhere instead of raising an error.
//
// Sub-collections are enumerated iteratively over a bitmask index, so cost
// is O(2^|E|) times the intersection work; callers bound |E| via the
// reasoner's evidence guard.
func SupportAssignment(body *domain.EvidenceBody) *domain.Assignment {
	pieces := body.Pieces()
	space := body.Space()

	grades := make(map[domain.Proposition]float64)
	for mask := uint64(1); mask < uint64(1)<<uint(len(pieces)); mask++ {
		inter := space.Full()
		minStrength := 1.0
		for i := range pieces {
			if mask&(1<<uint(i)) == 0 {
				continue
			}
			inter = inter.Intersect(pieces[i].Focal)
			if pieces[i].Strength < minStrength {
				minStrength = pieces[i].Strength
			}
		}
		if inter.IsEmpty() || !denseIn(inter, pieces) {
			continue
		}
		if minStrength > grades[inter] {
			grades[inter] = minStrength
		}
	}

	return domain.NewAssignment(space, domain.AggregateMax, grades)
}

// denseIn reports whether p meets every focal set of the basis. Checking the
// basic opens suffices: any open of the generated topology is a union of
// finite intersections of them.
func denseIn(p domain.Proposition, pieces []domain.EvidencePiece) bool {
	for _, piece := range pieces {
		if !p.Intersects(piece.Focal) {
			return false
		}
	}
	return true
}
