package service

import (
	"errors"
	"testing"

	"github.com/credal-io/credal/internal/domain"
)

func TestBeliefPlausibility(t *testing.T) {
	s := testSpace(t, "a", "b", "c")
	a := focal(t, s, "a")
	ab := focal(t, s, "a", "b")

	m := mass(s, map[domain.Proposition]float64{ab: 0.6, s.Full(): 0.4})

	t.Run("belief of empty set is zero", func(t *testing.T) {
		if got := Belief(m, 0); got != 0 {
			t.Errorf("Bel(∅) = %g, want 0", got)
		}
		if got := Plausibility(m, 0); got != 0 {
			t.Errorf("Pl(∅) = %g, want 0", got)
		}
	})

	t.Run("belief sums entailing mass", func(t *testing.T) {
		if got := Belief(m, ab); !floatEq(got, 0.6) {
			t.Errorf("Bel(ab) = %g, want 0.6", got)
		}
		if got := Belief(m, a); got != 0 {
			t.Errorf("Bel(a) = %g, want 0", got)
		}
		if got := Belief(m, s.Full()); !floatEq(got, 1) {
			t.Errorf("Bel(S) = %g, want 1", got)
		}
	})

	t.Run("plausibility sums compatible mass", func(t *testing.T) {
		// Both focal sets meet {a}: Pl(a) = 1 = 1 − Bel({b,c}).
		if got := Plausibility(m, a); !floatEq(got, 1) {
			t.Errorf("Pl(a) = %g, want 1", got)
		}
	})

	t.Run("max mode takes the best grade", func(t *testing.T) {
		g := domain.NewAssignment(s, domain.AggregateMax, map[domain.Proposition]float64{
			a:  0.5,
			ab: 0.8,
		})
		if got := Belief(g, ab); got != 0.8 {
			t.Errorf("Bel(ab) = %g, want 0.8", got)
		}
		if got := Belief(g, a); got != 0.5 {
			t.Errorf("Bel(a) = %g, want 0.5", got)
		}
		if got := Plausibility(g, a); got != 0.8 {
			t.Errorf("Pl(a) = %g, want 0.8", got)
		}
	})
}

func TestBeliefTableProperties(t *testing.T) {
	s := testSpace(t, "a", "b", "c")
	a := focal(t, s, "a")
	ab := focal(t, s, "a", "b")
	bc := focal(t, s, "b", "c")

	assignments := map[string]*domain.Assignment{
		"additive": mass(s, map[domain.Proposition]float64{a: 0.2, ab: 0.3, bc: 0.1, s.Full(): 0.4}),
		"max-min": domain.NewAssignment(s, domain.AggregateMax, map[domain.Proposition]float64{
			a: 0.5, ab: 0.8, s.Full(): 1,
		}),
	}

	for name, m := range assignments {
		t.Run(name, func(t *testing.T) {
			table := NewBeliefTable(m)

			outer := s.Subsets()
			for p, ok := outer.Next(); ok; p, ok = outer.Next() {
				bp, err := table.Get(p)
				if err != nil {
					t.Fatal(err)
				}

				// Bel ≤ Pl everywhere.
				if bp.Belief > bp.Plausibility+1e-12 {
					t.Errorf("Bel(%v) = %g exceeds Pl = %g", s.Decode(p), bp.Belief, bp.Plausibility)
				}

				// Monotonicity over every superset.
				inner := s.Subsets()
				for q, ok := inner.Next(); ok; q, ok = inner.Next() {
					if !p.SubsetOf(q) {
						continue
					}
					qbp, err := table.Get(q)
					if err != nil {
						t.Fatal(err)
					}
					if bp.Belief > qbp.Belief+1e-12 {
						t.Errorf("Bel not monotone: Bel(%v)=%g > Bel(%v)=%g",
							s.Decode(p), bp.Belief, s.Decode(q), qbp.Belief)
					}
					if bp.Plausibility > qbp.Plausibility+1e-12 {
						t.Errorf("Pl not monotone: Pl(%v)=%g > Pl(%v)=%g",
							s.Decode(p), bp.Plausibility, s.Decode(q), qbp.Plausibility)
					}
				}
			}
		})
	}
}

func TestBeliefTableDuality(t *testing.T) {
	s := testSpace(t, "a", "b", "c")
	a := focal(t, s, "a")
	ab := focal(t, s, "a", "b")

	// Normalized DS assignment: Pl(A) = 1 − Bel(S\A) for every A.
	table := NewBeliefTable(mass(s, map[domain.Proposition]float64{
		a: 0.2, ab: 0.4, s.Full(): 0.4,
	}))

	it := s.Subsets()
	for p, ok := it.Next(); ok; p, ok = it.Next() {
		complement := s.Full() &^ p
		bp, err := table.Get(p)
		if err != nil {
			t.Fatal(err)
		}
		cbp, err := table.Get(complement)
		if err != nil {
			t.Fatal(err)
		}
		if !floatEq(bp.Plausibility, 1-cbp.Belief) {
			t.Errorf("duality broken at %v: Pl = %g, 1−Bel(complement) = %g",
				s.Decode(p), bp.Plausibility, 1-cbp.Belief)
		}
	}
}

func TestBeliefTableQuery(t *testing.T) {
	s := testSpace(t, "a", "b")
	ab := s.Full()
	table := NewBeliefTable(mass(s, map[domain.Proposition]float64{ab: 1}))

	t.Run("unknown world fails", func(t *testing.T) {
		_, err := table.Query("a", "z")
		if !errors.Is(err, domain.ErrInvalidProposition) {
			t.Fatalf("expected ErrInvalidProposition, got %v", err)
		}
	})

	t.Run("out-of-space proposition fails", func(t *testing.T) {
		_, err := table.Get(domain.Proposition(1) << uint(s.Size()))
		if !errors.Is(err, domain.ErrInvalidProposition) {
			t.Fatalf("expected ErrInvalidProposition, got %v", err)
		}
	})

	t.Run("repeated queries are stable", func(t *testing.T) {
		first, err := table.Query("a")
		if err != nil {
			t.Fatal(err)
		}
		second, err := table.Query("a")
		if err != nil {
			t.Fatal(err)
		}
		if first != second {
			t.Errorf("query not stable: %+v vs %+v", first, second)
		}
	})
}

func TestBeliefTableRanked(t *testing.T) {
	s := testSpace(t, "a", "b", "c")
	a := focal(t, s, "a")
	ab := focal(t, s, "a", "b")
	ac := focal(t, s, "a", "c")

	table := NewBeliefTable(mass(s, map[domain.Proposition]float64{
		a: 0.1, ab: 0.3, ac: 0.2, s.Full(): 0.4,
	}))

	ranked := table.Ranked()
	if len(ranked) == 0 {
		t.Fatal("expected ranked entries")
	}

	for i := 1; i < len(ranked); i++ {
		prev, cur := ranked[i-1], ranked[i]
		if len(prev.Worlds) > len(cur.Worlds) {
			t.Errorf("cardinality not ascending at %d: %v before %v", i, prev.Worlds, cur.Worlds)
		}
		if len(prev.Worlds) == len(cur.Worlds) && prev.Belief < cur.Belief {
			t.Errorf("belief not descending within cardinality at %d", i)
		}
	}

	// Zero-belief propositions are omitted.
	for _, entry := range ranked {
		if entry.Belief == 0 {
			t.Errorf("ranked listing contains zero-belief entry %v", entry.Worlds)
		}
	}

	// First entry is the smallest believed set: {a}.
	if len(ranked[0].Worlds) != 1 || ranked[0].Worlds[0] != "a" {
		t.Errorf("first ranked entry = %v, want [a]", ranked[0].Worlds)
	}
}
