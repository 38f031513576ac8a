package domain

import "errors"

// Validation errors shared by every reasoner. Handlers and callers match
// these with errors.Is; constructors wrap them with context via %w.
var (
	ErrInvalidDomain         = errors.New("world space is empty")
	ErrInvalidFocalSet       = errors.New("focal set is empty or not a subset of the world space")
	ErrInvalidProposition    = errors.New("proposition is not a subset of the world space")
	ErrMalformedMassFunction = errors.New("source strengths do not sum to 1")
	ErrTotalConflict         = errors.New("total conflict between combined sources")
	ErrInvalidStrength       = errors.New("strength must be in [0,1]")

	// Size guards. The reasoners are exact and exponential; these keep the
	// power-set and sub-collection walks bounded.
	ErrSpaceTooLarge    = errors.New("world space exceeds configured maximum")
	ErrEvidenceTooLarge = errors.New("evidence body exceeds configured maximum")
)
