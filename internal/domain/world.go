package domain

import (
	"fmt"
	"math/bits"
	"sort"
)

// World is a single possible state of affairs.
type World string

// MaxWorldBits is the hard cap on world-space size. Propositions are uint64
// bitsets over the space's world ordering, so anything above this cannot be
// represented regardless of the configured guard.
const MaxWorldBits = 62

// WorldSpace is the finite universe of possible worlds. Worlds are deduped
// and sorted at construction so that subset enumeration and focal-set keys
// are deterministic for a given input, whatever its order.
type WorldSpace struct {
	worlds []World
	index  map[World]int
}

// NewWorldSpace builds a space from the given worlds. It returns
// ErrInvalidDomain when no worlds are supplied and ErrSpaceTooLarge when the
// deduped space exceeds MaxWorldBits.
func NewWorldSpace(worlds []World) (*WorldSpace, error) {
	if len(worlds) == 0 {
		return nil, ErrInvalidDomain
	}

	index := make(map[World]int, len(worlds))
	uniq := make([]World, 0, len(worlds))
	for _, w := range worlds {
		if _, seen := index[w]; seen {
			continue
		}
		index[w] = 0
		uniq = append(uniq, w)
	}
	if len(uniq) > MaxWorldBits {
		return nil, fmt.Errorf("%w: %d worlds, representable maximum is %d", ErrSpaceTooLarge, len(uniq), MaxWorldBits)
	}

	sort.Slice(uniq, func(i, j int) bool { return uniq[i] < uniq[j] })
	for i, w := range uniq {
		index[w] = i
	}

	return &WorldSpace{worlds: uniq, index: index}, nil
}

// Size returns |S|.
func (s *WorldSpace) Size() int {
	return len(s.worlds)
}

// Worlds returns the worlds in their canonical (sorted) order.
func (s *WorldSpace) Worlds() []World {
	out := make([]World, len(s.worlds))
	copy(out, s.worlds)
	return out
}

// Contains reports whether w is a member of the space.
func (s *WorldSpace) Contains(w World) bool {
	_, ok := s.index[w]
	return ok
}

// Full returns the proposition covering the entire space.
func (s *WorldSpace) Full() Proposition {
	return Proposition(1)<<uint(len(s.worlds)) - 1
}

// Proposition encodes the given worlds as a subset of the space. Unknown
// worlds make the result undefined, so they fail with ErrInvalidProposition.
// The empty proposition is valid here; it is only focal sets that must be
// non-empty (see FocalSet).
func (s *WorldSpace) Proposition(worlds ...World) (Proposition, error) {
	var p Proposition
	for _, w := range worlds {
		i, ok := s.index[w]
		if !ok {
			return 0, fmt.Errorf("%w: unknown world %q", ErrInvalidProposition, w)
		}
		p |= 1 << uint(i)
	}
	return p, nil
}

// FocalSet encodes the given worlds as an evidence focal set: a non-empty
// subset of the space. Fails with ErrInvalidFocalSet otherwise.
func (s *WorldSpace) FocalSet(worlds ...World) (Proposition, error) {
	if len(worlds) == 0 {
		return 0, fmt.Errorf("%w: empty focal set", ErrInvalidFocalSet)
	}
	var p Proposition
	for _, w := range worlds {
		i, ok := s.index[w]
		if !ok {
			return 0, fmt.Errorf("%w: unknown world %q", ErrInvalidFocalSet, w)
		}
		p |= 1 << uint(i)
	}
	return p, nil
}

// Decode returns the worlds of p in canonical order.
func (s *WorldSpace) Decode(p Proposition) []World {
	out := make([]World, 0, p.Cardinality())
	for i, w := range s.worlds {
		if p&(1<<uint(i)) != 0 {
			out = append(out, w)
		}
	}
	return out
}

// Subsets returns a lazy, restartable iterator over all 2^|S| subsets of the
// space. Each subset is produced exactly once, in ascending bitset order.
func (s *WorldSpace) Subsets() *SubsetIterator {
	return &SubsetIterator{limit: uint64(s.Full()) + 1}
}

// Proposition is a subset of a WorldSpace, encoded as a bitset over the
// space's canonical world ordering. Propositions from different spaces must
// not be mixed.
type Proposition uint64

func (p Proposition) IsEmpty() bool {
	return p == 0
}

// Intersect returns p ∩ q.
func (p Proposition) Intersect(q Proposition) Proposition {
	return p & q
}

// SubsetOf reports whether p ⊆ q.
func (p Proposition) SubsetOf(q Proposition) bool {
	return p&^q == 0
}

// Intersects reports whether p ∩ q is non-empty.
func (p Proposition) Intersects(q Proposition) bool {
	return p&q != 0
}

// Cardinality returns |p|.
func (p Proposition) Cardinality() int {
	return bits.OnesCount64(uint64(p))
}

// SubsetIterator walks the power set of a space without recursion.
type SubsetIterator struct {
	next  uint64
	limit uint64
}

// Next returns the next subset, or false when the enumeration is exhausted.
func (it *SubsetIterator) Next() (Proposition, bool) {
	if it.next >= it.limit {
		return 0, false
	}
	p := Proposition(it.next)
	it.next++
	return p, true
}

// Reset restarts the enumeration from the empty set.
func (it *SubsetIterator) Reset() {
	it.next = 0
}
