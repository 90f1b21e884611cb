package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/turnkeeper/turnkeeper/internal/domain"
)

type TeamRepo struct {
	pool *pgxpool.Pool
}

func NewTeamRepo(pool *pgxpool.Pool) *TeamRepo {
	return &TeamRepo{pool: pool}
}

func (r *TeamRepo) Create(ctx context.Context, t *domain.Team) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO teams (id, tenant_id, name, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.TenantID, t.Name, t.Status, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("teamRepo.Create: %w", err)
	}

	return nil
}

func (r *TeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	var t domain.Team

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, status, created_at, updated_at
		 FROM teams WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.TenantID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("teamRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("teamRepo.GetByID: %w", err)
	}

	return &t, nil
}

func (r *TeamRepo) Update(ctx context.Context, t *domain.Team) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE teams SET name = $1, status = $2, updated_at = now()
		 WHERE id = $3`,
		t.Name, t.Status, t.ID,
	)
	if err != nil {
		return fmt.Errorf("teamRepo.Update: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("teamRepo.Update: %w", domain.ErrNotFound)
	}

	return nil
}

func (r *TeamRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, status, created_at, updated_at
		 FROM teams WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("teamRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	var teams []*domain.Team
	for rows.Next() {
		var t domain.Team

		err = rows.Scan(&t.ID, &t.TenantID, &t.Name, &t.Status, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("teamRepo.ListByTenant: scan: %w", err)
		}

		teams = append(teams, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("teamRepo.ListByTenant: rows: %w", err)
	}

	return teams, nil
}
