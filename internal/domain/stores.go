package domain

import (
	"context"

	"github.com/google/uuid"
)

type ScenarioStore interface {
	Create(ctx context.Context, sc *Scenario) error
	GetByID(ctx context.Context, id uuid.UUID) (*Scenario, error)
	List(ctx context.Context) ([]Scenario, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
