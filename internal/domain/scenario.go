package domain

import (
	"time"

	"github.com/google/uuid"
)

// PieceInput is the wire/storage form of one evidence piece: worlds by name
// and an optional strength. Strength is required for mass-profile sources
// and defaults to DefaultBasisStrength for basis pieces.
type PieceInput struct {
	Worlds   []string `json:"worlds"`
	Strength *float64 `json:"strength,omitempty"`
}

// Scenario is a named, stored reasoning input: a world space plus the
// evidence to combine over it. Only inputs are stored; belief and
// plausibility values are recomputed on every evaluation.
type Scenario struct {
	ID        uuid.UUID      `json:"id"`
	Name      string         `json:"name"`
	Worlds    []string       `json:"worlds"`
	Sources   [][]PieceInput `json:"sources,omitempty"`
	Basis     []PieceInput   `json:"basis,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
