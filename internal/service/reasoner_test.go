package service

import (
	"testing"

	"github.com/credal-io/credal/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func strength(v float64) *float64 {
	return &v
}

func newTestReasoner() *ReasonerService {
	return NewReasonerService(zap.NewNop())
}

func TestParseModel(t *testing.T) {
	for _, name := range []string{"ds_int", "ds_min", "sd_min"} {
		m, err := ParseModel(name)
		require.NoError(t, err)
		assert.Equal(t, Model(name), m)
	}

	_, err := ParseModel("bayes")
	assert.ErrorIs(t, err, ErrUnknownModel)
}

func TestDSIntBeliefModel(t *testing.T) {
	svc := newTestReasoner()

	s := testSpace(t, "a", "b", "c")
	ab := focal(t, s, "a", "b")

	body, err := domain.NewMassEvidence(s, domain.MassTolerance, []domain.EvidencePiece{
		{Focal: ab, Strength: 0.6},
		{Focal: s.Full(), Strength: 0.4},
	})
	require.NoError(t, err)

	table, err := svc.DSIntBeliefModel(body)
	require.NoError(t, err)

	bp, err := table.Query("a", "b")
	require.NoError(t, err)
	assert.InDelta(t, 0.6, bp.Belief, 1e-9)

	bp, err = table.Query("a")
	require.NoError(t, err)
	assert.Zero(t, bp.Belief)
	assert.InDelta(t, 1.0, bp.Plausibility, 1e-9, "both focal sets meet {a}")

	bp, err = table.Query("a", "b", "c")
	require.NoError(t, err)
	assert.InDelta(t, 1.0, bp.Belief, 1e-9)
	assert.InDelta(t, 1.0, bp.Plausibility, 1e-9)
}

func TestDSIntTotalConflict(t *testing.T) {
	svc := newTestReasoner()

	s := testSpace(t, "a", "b")
	pa := focal(t, s, "a")
	pb := focal(t, s, "b")

	body, err := domain.NewMassEvidence(s, domain.MassTolerance,
		[]domain.EvidencePiece{{Focal: pa, Strength: 1}},
		[]domain.EvidencePiece{{Focal: pb, Strength: 1}},
	)
	require.NoError(t, err)

	_, err = svc.DSIntBeliefModel(body)
	assert.ErrorIs(t, err, domain.ErrTotalConflict)

	// The same evidence under ds_min degenerates instead of failing.
	table, err := svc.DSMinBeliefModel(body)
	require.NoError(t, err)
	bp, err := table.Query("a", "b")
	require.NoError(t, err)
	assert.Zero(t, bp.Belief, "total conflict leaves Bel(S) = 0")
}

func TestSDMinTotalConflict(t *testing.T) {
	svc := newTestReasoner()

	s := testSpace(t, "a", "b")
	pa := focal(t, s, "a")
	pb := focal(t, s, "b")

	body, err := domain.NewBasisEvidence(s, []domain.EvidencePiece{
		{Focal: pa, Strength: 1},
		{Focal: pb, Strength: 1},
	})
	require.NoError(t, err)

	table, err := svc.SDMinBeliefModel(body)
	require.NoError(t, err)

	bp, err := table.Query("a", "b")
	require.NoError(t, err)
	assert.Zero(t, bp.Belief, "total conflict leaves Bel(S) = 0")
}

func TestVacuousEvidence(t *testing.T) {
	svc := newTestReasoner()
	s := testSpace(t, "a", "b", "c")

	massBody, err := domain.NewMassEvidence(s, domain.MassTolerance,
		[]domain.EvidencePiece{{Focal: s.Full(), Strength: 1}})
	require.NoError(t, err)

	basisBody, err := domain.NewBasisEvidence(s,
		[]domain.EvidencePiece{{Focal: s.Full(), Strength: 1}})
	require.NoError(t, err)

	tables := map[string]func() (*BeliefTable, error){
		"ds_int": func() (*BeliefTable, error) { return svc.DSIntBeliefModel(massBody) },
		"ds_min": func() (*BeliefTable, error) { return svc.DSMinBeliefModel(massBody) },
		"sd_min": func() (*BeliefTable, error) { return svc.SDMinBeliefModel(basisBody) },
	}

	for name, run := range tables {
		t.Run(name, func(t *testing.T) {
			table, err := run()
			require.NoError(t, err)

			it := s.Subsets()
			for p, ok := it.Next(); ok; p, ok = it.Next() {
				bp, err := table.Get(p)
				require.NoError(t, err)
				if p == s.Full() {
					assert.InDelta(t, 1.0, bp.Belief, 1e-9, "Bel(S) must be 1")
				} else {
					assert.Zero(t, bp.Belief, "Bel must vanish on proper subsets")
				}
			}
		})
	}
}

func TestMultiSourceOrderIndependence(t *testing.T) {
	svc := newTestReasoner()

	s := testSpace(t, "a", "b", "c")
	a := focal(t, s, "a")
	ab := focal(t, s, "a", "b")
	bc := focal(t, s, "b", "c")

	src1 := []domain.EvidencePiece{{Focal: ab, Strength: 0.7}, {Focal: s.Full(), Strength: 0.3}}
	src2 := []domain.EvidencePiece{{Focal: bc, Strength: 0.5}, {Focal: s.Full(), Strength: 0.5}}
	src3 := []domain.EvidencePiece{{Focal: a, Strength: 0.4}, {Focal: s.Full(), Strength: 0.6}}

	orders := [][][]domain.EvidencePiece{
		{src1, src2, src3},
		{src3, src1, src2},
		{src2, src3, src1},
	}

	var reference *BeliefTable
	for _, sources := range orders {
		body, err := domain.NewMassEvidence(s, domain.MassTolerance, sources...)
		require.NoError(t, err)

		table, err := svc.DSIntBeliefModel(body)
		require.NoError(t, err)

		if reference == nil {
			reference = table
			continue
		}

		it := s.Subsets()
		for p, ok := it.Next(); ok; p, ok = it.Next() {
			want, err := reference.Get(p)
			require.NoError(t, err)
			got, err := table.Get(p)
			require.NoError(t, err)
			assert.InDelta(t, want.Belief, got.Belief, 1e-9)
			assert.InDelta(t, want.Plausibility, got.Plausibility, 1e-9)
		}
	}
}

func TestReasonerGuards(t *testing.T) {
	svc := newTestReasoner()
	svc.MaxWorlds = 2
	svc.MaxPieces = 2

	t.Run("space guard", func(t *testing.T) {
		s := testSpace(t, "a", "b", "c")
		body, err := domain.NewMassEvidence(s, domain.MassTolerance,
			[]domain.EvidencePiece{{Focal: s.Full(), Strength: 1}})
		require.NoError(t, err)

		_, err = svc.DSIntBeliefModel(body)
		assert.ErrorIs(t, err, domain.ErrSpaceTooLarge)
	})

	t.Run("evidence guard", func(t *testing.T) {
		s := testSpace(t, "a", "b")
		full := s.Full()
		body, err := domain.NewBasisEvidence(s, []domain.EvidencePiece{
			{Focal: full, Strength: 1},
			{Focal: full, Strength: 1},
			{Focal: full, Strength: 1},
		})
		require.NoError(t, err)

		_, err = svc.SDMinBeliefModel(body)
		assert.ErrorIs(t, err, domain.ErrEvidenceTooLarge)
	})

	t.Run("profile mismatch", func(t *testing.T) {
		s := testSpace(t, "a", "b")
		body, err := domain.NewBasisEvidence(s, []domain.EvidencePiece{{Focal: s.Full(), Strength: 1}})
		require.NoError(t, err)

		_, err = svc.DSIntBeliefModel(body)
		assert.ErrorIs(t, err, ErrWrongProfile)
		_, err = svc.DSMinBeliefModel(body)
		assert.ErrorIs(t, err, ErrWrongProfile)

		massBody, err := domain.NewMassEvidence(s, domain.MassTolerance,
			[]domain.EvidencePiece{{Focal: s.Full(), Strength: 1}})
		require.NoError(t, err)
		_, err = svc.SDMinBeliefModel(massBody)
		assert.ErrorIs(t, err, ErrWrongProfile)
	})
}

func TestEvaluateScenario(t *testing.T) {
	svc := newTestReasoner()

	// The five-world research scenario: degraded/stable × plus/minus/other.
	sc := &domain.Scenario{
		Name:   "paper",
		Worlds: []string{"dp", "sp", "dm", "sm", "do"},
		Sources: [][]domain.PieceInput{{
			{Worlds: []string{"dp", "dm", "do"}, Strength: strength(0.9)},
			{Worlds: []string{"sp", "sm"}, Strength: strength(0.1)},
		}},
		Basis: []domain.PieceInput{
			{Worlds: []string{"dp", "dm", "do"}},
			{Worlds: []string{"dm", "sm"}, Strength: strength(0.5)},
		},
	}

	t.Run("ds_int", func(t *testing.T) {
		table, err := svc.EvaluateScenario(ModelDSInt, sc)
		require.NoError(t, err)

		bp, err := table.Query("dp", "dm", "do")
		require.NoError(t, err)
		assert.InDelta(t, 0.9, bp.Belief, 1e-9)

		ranked := table.Ranked()
		require.NotEmpty(t, ranked)
	})

	t.Run("sd_min defaults missing strengths to 1", func(t *testing.T) {
		table, err := svc.EvaluateScenario(ModelSDMin, sc)
		require.NoError(t, err)

		// dm is the dense meet of the two basis pieces, graded by the
		// weakest member.
		bp, err := table.Query("dm")
		require.NoError(t, err)
		assert.InDelta(t, 0.5, bp.Belief, 1e-9)

		bp, err = table.Query("dp", "dm", "do")
		require.NoError(t, err)
		assert.InDelta(t, 1.0, bp.Belief, 1e-9)
	})

	t.Run("mass source without strength fails", func(t *testing.T) {
		bad := &domain.Scenario{
			Worlds:  []string{"a", "b"},
			Sources: [][]domain.PieceInput{{{Worlds: []string{"a"}}}},
		}
		_, err := svc.EvaluateScenario(ModelDSInt, bad)
		assert.ErrorIs(t, err, domain.ErrMalformedMassFunction)
	})

	t.Run("unknown model fails", func(t *testing.T) {
		_, err := svc.EvaluateScenario(Model("bayes"), sc)
		assert.ErrorIs(t, err, ErrUnknownModel)
	})
}
