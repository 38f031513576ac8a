package service

import (
	"errors"
	"fmt"

	"github.com/credal-io/credal/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrUnknownModel = errors.New("unknown reasoner model")
	ErrWrongProfile = errors.New("evidence profile does not match reasoner")
)

// Model names one of the three reasoners.
type Model string

const (
	ModelDSInt Model = "ds_int"
	ModelDSMin Model = "ds_min"
	ModelSDMin Model = "sd_min"
)

// ParseModel maps a wire name to a Model.
func ParseModel(s string) (Model, error) {
	switch Model(s) {
	case ModelDSInt, ModelDSMin, ModelSDMin:
		return Model(s), nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, s)
	}
}

const (
	// DefaultMaxWorlds bounds |S|: the belief table materializes 2^|S|
	// entries per call.
	DefaultMaxWorlds = 16
	// DefaultMaxPieces bounds |E| for sd_min's 2^|E| sub-collection walk.
	DefaultMaxPieces = 16
)

// ReasonerService exposes the three belief models. Each call is pure and
// deterministic: inputs are never mutated and no state survives the call.
type ReasonerService struct {
	logger *zap.Logger

	MaxWorlds     int
	MaxPieces     int
	MassTolerance float64
}

func NewReasonerService(logger *zap.Logger) *ReasonerService {
	return &ReasonerService{
		logger:        logger,
		MaxWorlds:     DefaultMaxWorlds,
		MaxPieces:     DefaultMaxPieces,
		MassTolerance: domain.MassTolerance,
	}
}

// DSIntBeliefModel combines a mass-profile evidence body with Dempster's
// rule (product weights, intersection allocation, conflict renormalized) and
// returns the materialized belief table. Sources fold pairwise; the rule's
// associativity and commutativity make the order irrelevant. Fails with
// ErrTotalConflict when the sources are logically incompatible.
func (s *ReasonerService) DSIntBeliefModel(body *domain.EvidenceBody) (*BeliefTable, error) {
	if err := s.guard(body, domain.ProfileMass); err != nil {
		return nil, err
	}

	combined := MassAssignment(body.Space(), body.Sources()[0])
	for _, src := range body.Sources()[1:] {
		next, err := CombineDempster(combined, MassAssignment(body.Space(), src), s.MassTolerance)
		if err != nil {
			return nil, err
		}
		combined = next
	}

	s.logger.Debug("combined evidence",
		zap.String("model", string(ModelDSInt)),
		zap.Int("worlds", body.Space().Size()),
		zap.Int("sources", body.SourceCount()),
		zap.Float64("total_mass", combined.TotalMass()))

	return NewBeliefTable(combined), nil
}

// DSMinBeliefModel combines a mass-profile evidence body with the
// unnormalized minimum rule. Total conflict is not an error here: it shows
// up as missing mass, down to Bel(S) = 0.
func (s *ReasonerService) DSMinBeliefModel(body *domain.EvidenceBody) (*BeliefTable, error) {
	if err := s.guard(body, domain.ProfileMass); err != nil {
		return nil, err
	}

	combined := MassAssignment(body.Space(), body.Sources()[0])
	for _, src := range body.Sources()[1:] {
		combined = CombineMin(combined, MassAssignment(body.Space(), src))
	}

	s.logger.Debug("combined evidence",
		zap.String("model", string(ModelDSMin)),
		zap.Int("worlds", body.Space().Size()),
		zap.Int("sources", body.SourceCount()),
		zap.Float64("total_mass", combined.TotalMass()))

	return NewBeliefTable(combined), nil
}

// SDMinBeliefModel derives the topological evidential-support table from a
// basis-profile evidence body. Fails with ErrEvidenceTooLarge when the basis
// exceeds the configured piece guard.
func (s *ReasonerService) SDMinBeliefModel(body *domain.EvidenceBody) (*BeliefTable, error) {
	if err := s.guard(body, domain.ProfileBasis); err != nil {
		return nil, err
	}

	support := SupportAssignment(body)

	s.logger.Debug("computed evidential support",
		zap.String("model", string(ModelSDMin)),
		zap.Int("worlds", body.Space().Size()),
		zap.Int("pieces", len(body.Pieces())),
		zap.Int("supported_sets", len(support.Focal())))

	return NewBeliefTable(support), nil
}

func (s *ReasonerService) guard(body *domain.EvidenceBody, want domain.Profile) error {
	if body.Profile() != want {
		return fmt.Errorf("%w: need %s profile, got %s", ErrWrongProfile, want, body.Profile())
	}
	if n := body.Space().Size(); n > s.MaxWorlds {
		return fmt.Errorf("%w: %d worlds, configured maximum is %d", domain.ErrSpaceTooLarge, n, s.MaxWorlds)
	}
	if n := len(body.Pieces()); n > s.MaxPieces {
		return fmt.Errorf("%w: %d pieces, configured maximum is %d", domain.ErrEvidenceTooLarge, n, s.MaxPieces)
	}
	return nil
}

// EvaluateScenario assembles a scenario's stored inputs and runs the named
// model over them. Belief values are recomputed on every call; nothing is
// cached between evaluations.
func (s *ReasonerService) EvaluateScenario(model Model, sc *domain.Scenario) (*BeliefTable, error) {
	space, err := BuildSpace(sc.Worlds)
	if err != nil {
		return nil, err
	}

	switch model {
	case ModelDSInt, ModelDSMin:
		body, err := BuildMassEvidence(space, s.MassTolerance, sc.Sources)
		if err != nil {
			return nil, err
		}
		if model == ModelDSInt {
			return s.DSIntBeliefModel(body)
		}
		return s.DSMinBeliefModel(body)
	case ModelSDMin:
		body, err := BuildBasisEvidence(space, sc.Basis)
		if err != nil {
			return nil, err
		}
		return s.SDMinBeliefModel(body)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
}

// BuildSpace converts wire-form world names into a WorldSpace.
func BuildSpace(worlds []string) (*domain.WorldSpace, error) {
	converted := make([]domain.World, len(worlds))
	for i, w := range worlds {
		converted[i] = domain.World(w)
	}
	return domain.NewWorldSpace(converted)
}

// BuildMassEvidence converts wire-form sources into a mass-profile evidence
// body. Every piece must carry an explicit strength.
func BuildMassEvidence(space *domain.WorldSpace, tolerance float64, sources [][]domain.PieceInput) (*domain.EvidenceBody, error) {
	converted := make([][]domain.EvidencePiece, len(sources))
	for si, src := range sources {
		pieces := make([]domain.EvidencePiece, len(src))
		for pi, in := range src {
			focal, err := focalFromInput(space, in)
			if err != nil {
				return nil, err
			}
			if in.Strength == nil {
				return nil, fmt.Errorf("%w: source %d piece %d has no strength", domain.ErrMalformedMassFunction, si, pi)
			}
			pieces[pi] = domain.EvidencePiece{Focal: focal, Strength: *in.Strength}
		}
		converted[si] = pieces
	}
	return domain.NewMassEvidence(space, tolerance, converted...)
}

// BuildBasisEvidence converts wire-form basis pieces into a basis-profile
// evidence body. Missing strengths default to 1 (boolean evidence).
func BuildBasisEvidence(space *domain.WorldSpace, basis []domain.PieceInput) (*domain.EvidenceBody, error) {
	pieces := make([]domain.EvidencePiece, len(basis))
	for i, in := range basis {
		focal, err := focalFromInput(space, in)
		if err != nil {
			return nil, err
		}
		strength := domain.DefaultBasisStrength
		if in.Strength != nil {
			strength = *in.Strength
		}
		pieces[i] = domain.EvidencePiece{Focal: focal, Strength: strength}
	}
	return domain.NewBasisEvidence(space, pieces)
}

func focalFromInput(space *domain.WorldSpace, in domain.PieceInput) (domain.Proposition, error) {
	worlds := make([]domain.World, len(in.Worlds))
	for i, w := range in.Worlds {
		worlds[i] = domain.World(w)
	}
	return space.FocalSet(worlds...)
}
