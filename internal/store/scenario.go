package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/credal-io/credal/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ScenarioStore persists named reasoning scenarios: the world space and the
// evidence to combine over it. Belief values are never stored; every
// evaluation recomputes from these inputs.
type ScenarioStore struct {
	db *pgxpool.Pool
}

func NewScenarioStore(db *pgxpool.Pool) *ScenarioStore {
	return &ScenarioStore{db: db}
}

func (s *ScenarioStore) Create(ctx context.Context, sc *domain.Scenario) error {
	sources, err := json.Marshal(sc.Sources)
	if err != nil {
		return fmt.Errorf("marshal sources: %w", err)
	}
	basis, err := json.Marshal(sc.Basis)
	if err != nil {
		return fmt.Errorf("marshal basis: %w", err)
	}

	return s.db.QueryRow(ctx,
		`INSERT INTO scenarios (name, worlds, sources, basis)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at, updated_at`,
		sc.Name, sc.Worlds, sources, basis,
	).Scan(&sc.ID, &sc.CreatedAt, &sc.UpdatedAt)
}

func (s *ScenarioStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Scenario, error) {
	sc := &domain.Scenario{}
	var sources, basis []byte

	err := s.db.QueryRow(ctx,
		`SELECT id, name, worlds, sources, basis, created_at, updated_at
		 FROM scenarios WHERE id = $1`,
		id,
	).Scan(&sc.ID, &sc.Name, &sc.Worlds, &sources, &basis, &sc.CreatedAt, &sc.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := unmarshalEvidence(sc, sources, basis); err != nil {
		return nil, err
	}
	return sc, nil
}

func (s *ScenarioStore) List(ctx context.Context) ([]domain.Scenario, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, worlds, sources, basis, created_at, updated_at
		 FROM scenarios ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Scenario
	for rows.Next() {
		var sc domain.Scenario
		var sources, basis []byte
		if err := rows.Scan(&sc.ID, &sc.Name, &sc.Worlds, &sources, &basis, &sc.CreatedAt, &sc.UpdatedAt); err != nil {
			return nil, err
		}
		if err := unmarshalEvidence(&sc, sources, basis); err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	return out, rows.Err()
}

func (s *ScenarioStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM scenarios WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func unmarshalEvidence(sc *domain.Scenario, sources, basis []byte) error {
	if len(sources) > 0 {
		if err := json.Unmarshal(sources, &sc.Sources); err != nil {
			return fmt.Errorf("unmarshal sources: %w", err)
		}
	}
	if len(basis) > 0 {
		if err := json.Unmarshal(basis, &sc.Basis); err != nil {
			return fmt.Errorf("unmarshal basis: %w", err)
		}
	}
	return nil
}
