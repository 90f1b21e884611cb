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

type ExecutorLinkRepo struct {
	pool *pgxpool.Pool
}

func NewExecutorLinkRepo(pool *pgxpool.Pool) *ExecutorLinkRepo {
	return &ExecutorLinkRepo{pool: pool}
}

func (r *ExecutorLinkRepo) Create(ctx context.Context, l *domain.ExecutorLink) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO executor_links (id, workgroup_id, team_id, created_by, created_at, revoked_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.WorkgroupID, l.TeamID, l.CreatedBy, l.CreatedAt, l.RevokedAt,
	)
	if isUniqueViolation(err) {
		// One unrevoked link per (workgroup, team), enforced by a partial
		// unique index on revoked_at IS NULL.
		return fmt.Errorf("executorLinkRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("executorLinkRepo.Create: %w", err)
	}

	return nil
}

func (r *ExecutorLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExecutorLink, error) {
	var l domain.ExecutorLink

	err := r.pool.QueryRow(ctx,
		`SELECT id, workgroup_id, team_id, created_by, created_at, revoked_at
		 FROM executor_links WHERE id = $1`,
		id,
	).Scan(&l.ID, &l.WorkgroupID, &l.TeamID, &l.CreatedBy, &l.CreatedAt, &l.RevokedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("executorLinkRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("executorLinkRepo.GetByID: %w", err)
	}

	return &l, nil
}

func (r *ExecutorLinkRepo) ListActiveByTeams(ctx context.Context, teamIDs []uuid.UUID) ([]*domain.ExecutorLink, error) {
	if len(teamIDs) == 0 {
		return nil, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, workgroup_id, team_id, created_by, created_at, revoked_at
		 FROM executor_links
		 WHERE team_id = ANY($1) AND revoked_at IS NULL`,
		teamIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("executorLinkRepo.ListActiveByTeams: %w", err)
	}
	defer rows.Close()

	return scanExecutorLinks(rows)
}

func (r *ExecutorLinkRepo) ListByWorkgroup(ctx context.Context, workgroupID uuid.UUID) ([]*domain.ExecutorLink, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, workgroup_id, team_id, created_by, created_at, revoked_at
		 FROM executor_links WHERE workgroup_id = $1 ORDER BY created_at`,
		workgroupID,
	)
	if err != nil {
		return nil, fmt.Errorf("executorLinkRepo.ListByWorkgroup: %w", err)
	}
	defer rows.Close()

	return scanExecutorLinks(rows)
}

// Revoke stamps the link; revoking an already revoked link is a no-op.
func (r *ExecutorLinkRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE executor_links SET revoked_at = now()
		 WHERE id = $1 AND revoked_at IS NULL`,
		id,
	)
	if err != nil {
		return fmt.Errorf("executorLinkRepo.Revoke: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Distinguish missing from already revoked.
		_, err = r.GetByID(ctx, id)
		if err != nil {
			return fmt.Errorf("executorLinkRepo.Revoke: %w", domain.ErrNotFound)
		}
	}

	return nil
}

func scanExecutorLinks(rows pgx.Rows) ([]*domain.ExecutorLink, error) {
	var links []*domain.ExecutorLink
	for rows.Next() {
		var l domain.ExecutorLink

		err := rows.Scan(&l.ID, &l.WorkgroupID, &l.TeamID, &l.CreatedBy, &l.CreatedAt, &l.RevokedAt)
		if err != nil {
			return nil, fmt.Errorf("executorLinkRepo: scan: %w", err)
		}

		links = append(links, &l)
	}
	err := rows.Err()
	if err != nil {
		return nil, fmt.Errorf("executorLinkRepo: rows: %w", err)
	}

	return links, nil
}
