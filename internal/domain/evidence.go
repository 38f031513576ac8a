package domain

import (
	"fmt"
	"math"
)

const (
	// MassTolerance bounds the sum-to-one check on mass-profile sources.
	// Exact float equality would make validation platform-dependent.
	MassTolerance = 1e-9

	// DefaultBasisStrength is assumed for basis pieces with no explicit
	// strength (the boolean evidence model).
	DefaultBasisStrength = 1.0
)

// Profile selects the validation rules an EvidenceBody was built under.
type Profile int

const (
	// ProfileMass requires each source's strengths to sum to 1; used by the
	// ds_int and ds_min reasoners.
	ProfileMass Profile = iota
	// ProfileBasis treats the pieces as an evidence basis with no summation
	// constraint; used by the sd_min reasoner.
	ProfileBasis
)

func (p Profile) String() string {
	switch p {
	case ProfileMass:
		return "mass"
	case ProfileBasis:
		return "basis"
	default:
		return "unknown"
	}
}

// EvidencePiece is one unit of evidence: a focal set and the strength with
// which it is supported. For mass-profile pieces the strength is a belief
// mass; for basis-profile pieces it is a confidence grade.
type EvidencePiece struct {
	Focal    Proposition
	Strength float64
}

// EvidenceBody holds the validated evidence for one reasoner call. It is
// immutable after construction: accessors copy, and combination never writes
// back into it.
type EvidenceBody struct {
	space   *WorldSpace
	profile Profile
	sources [][]EvidencePiece
}

// NewMassEvidence validates sources against the mass profile: every focal
// set non-empty and within the space, every strength in [0,1], and each
// source summing to 1 within the given tolerance (use MassTolerance unless
// configured otherwise).
func NewMassEvidence(space *WorldSpace, tolerance float64, sources ...[]EvidencePiece) (*EvidenceBody, error) {
	if len(sources) == 0 {
		return nil, fmt.Errorf("%w: no sources", ErrMalformedMassFunction)
	}
	if tolerance <= 0 {
		tolerance = MassTolerance
	}

	copied := make([][]EvidencePiece, len(sources))
	for si, src := range sources {
		if len(src) == 0 {
			return nil, fmt.Errorf("%w: source %d has no pieces", ErrMalformedMassFunction, si)
		}
		total := 0.0
		for _, piece := range src {
			if err := validatePiece(space, piece); err != nil {
				return nil, err
			}
			total += piece.Strength
		}
		if math.Abs(total-1) > tolerance {
			return nil, fmt.Errorf("%w: source %d sums to %g", ErrMalformedMassFunction, si, total)
		}
		copied[si] = append([]EvidencePiece(nil), src...)
	}

	return &EvidenceBody{space: space, profile: ProfileMass, sources: copied}, nil
}

// NewBasisEvidence validates pieces against the basis profile: focal sets
// non-empty and within the space, strengths in [0,1], no summation
// constraint.
func NewBasisEvidence(space *WorldSpace, pieces []EvidencePiece) (*EvidenceBody, error) {
	if len(pieces) == 0 {
		return nil, fmt.Errorf("%w: empty evidence basis", ErrInvalidFocalSet)
	}
	for _, piece := range pieces {
		if err := validatePiece(space, piece); err != nil {
			return nil, err
		}
	}

	copied := append([]EvidencePiece(nil), pieces...)
	return &EvidenceBody{space: space, profile: ProfileBasis, sources: [][]EvidencePiece{copied}}, nil
}

func validatePiece(space *WorldSpace, piece EvidencePiece) error {
	if piece.Focal.IsEmpty() {
		return fmt.Errorf("%w: empty focal set", ErrInvalidFocalSet)
	}
	if !piece.Focal.SubsetOf(space.Full()) {
		return fmt.Errorf("%w: focal set %b outside space", ErrInvalidFocalSet, piece.Focal)
	}
	if piece.Strength < 0 || piece.Strength > 1 {
		return fmt.Errorf("%w: got %g", ErrInvalidStrength, piece.Strength)
	}
	return nil
}

// Space returns the world space the evidence was validated against.
func (e *EvidenceBody) Space() *WorldSpace {
	return e.space
}

// Profile returns the validation profile the body was built under.
func (e *EvidenceBody) Profile() Profile {
	return e.profile
}

// SourceCount returns the number of evidentiary sources.
func (e *EvidenceBody) SourceCount() int {
	return len(e.sources)
}

// Sources returns a copy of the per-source pieces.
func (e *EvidenceBody) Sources() [][]EvidencePiece {
	out := make([][]EvidencePiece, len(e.sources))
	for i, src := range e.sources {
		out[i] = append([]EvidencePiece(nil), src...)
	}
	return out
}

// Pieces returns a copy of all pieces across sources. For a basis-profile
// body this is the evidence basis itself.
func (e *EvidenceBody) Pieces() []EvidencePiece {
	var out []EvidencePiece
	for _, src := range e.sources {
		out = append(out, src...)
	}
	return out
}
