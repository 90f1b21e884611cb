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

type WorkgroupRepo struct {
	pool *pgxpool.Pool
}

func NewWorkgroupRepo(pool *pgxpool.Pool) *WorkgroupRepo {
	return &WorkgroupRepo{pool: pool}
}

func (r *WorkgroupRepo) Create(ctx context.Context, w *domain.Workgroup) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO workgroups (id, tenant_id, name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		w.ID, w.TenantID, w.Name, w.CreatedAt, w.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("workgroupRepo.Create: %w", err)
	}

	return nil
}

func (r *WorkgroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workgroup, error) {
	var w domain.Workgroup

	err := r.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at
		 FROM workgroups WHERE id = $1`,
		id,
	).Scan(&w.ID, &w.TenantID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("workgroupRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("workgroupRepo.GetByID: %w", err)
	}

	return &w, nil
}

func (r *WorkgroupRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Workgroup, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at
		 FROM workgroups WHERE tenant_id = $1 ORDER BY created_at`,
		tenantID,
	)
	if err != nil {
		return nil, fmt.Errorf("workgroupRepo.ListByTenant: %w", err)
	}
	defer rows.Close()

	return scanWorkgroups(rows)
}

func (r *WorkgroupRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Workgroup, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, tenant_id, name, created_at, updated_at
		 FROM workgroups WHERE id = ANY($1) ORDER BY created_at`,
		ids,
	)
	if err != nil {
		return nil, fmt.Errorf("workgroupRepo.ListByIDs: %w", err)
	}
	defer rows.Close()

	return scanWorkgroups(rows)
}

func scanWorkgroups(rows pgx.Rows) ([]*domain.Workgroup, error) {
	var workgroups []*domain.Workgroup
	for rows.Next() {
		var w domain.Workgroup

		err := rows.Scan(&w.ID, &w.TenantID, &w.Name, &w.CreatedAt, &w.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("workgroupRepo: scan: %w", err)
		}

		workgroups = append(workgroups, &w)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("workgroupRepo: rows: %w", err)
	}

	return workgroups, nil
}
