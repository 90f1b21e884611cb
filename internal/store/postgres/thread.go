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

type ThreadRepo struct {
	pool *pgxpool.Pool
}

func NewThreadRepo(pool *pgxpool.Pool) *ThreadRepo {
	return &ThreadRepo{pool: pool}
}

// Create persists the thread and its initial roster in one transaction so a
// thread can never exist without participants.
func (r *ThreadRepo) Create(ctx context.Context, t *domain.Thread, participants []*domain.ThreadParticipant) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("threadRepo.Create: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`INSERT INTO threads (id, type, subject, last_activity_at, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		t.ID, t.Type, t.Subject, t.LastActivityAt, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("threadRepo.Create: %w", err)
	}

	for _, p := range participants {
		_, err = tx.Exec(ctx,
			`INSERT INTO thread_participants (id, thread_id, user_id, role, status, created_at, updated_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.ThreadID, p.UserID, p.Role, p.Status, p.CreatedAt, p.UpdatedAt,
		)
		if err != nil {
			return fmt.Errorf("threadRepo.Create: participant: %w", err)
		}
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("threadRepo.Create: commit: %w", err)
	}

	return nil
}

func (r *ThreadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Thread, error) {
	var t domain.Thread

	err := r.pool.QueryRow(ctx,
		`SELECT id, type, subject, last_activity_at, created_at, updated_at
		 FROM threads WHERE id = $1`,
		id,
	).Scan(&t.ID, &t.Type, &t.Subject, &t.LastActivityAt, &t.CreatedAt, &t.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("threadRepo.GetByID: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("threadRepo.GetByID: %w", err)
	}

	return &t, nil
}

// ListByParticipant is the only thread listing query. It joins through the
// roster so visibility is participant-keyed by construction; there is no
// tenant- or workgroup-scoped variant to diverge from it. Results are capped
// at 500 rows, the standard ceiling for unpaginated list queries in this
// package; ordering by last activity keeps the truncation to the oldest,
// least relevant threads.
func (r *ThreadRepo) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]*domain.Thread, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT t.id, t.type, t.subject, t.last_activity_at, t.created_at, t.updated_at
		 FROM threads t
		 JOIN thread_participants tp ON tp.thread_id = t.id
		 WHERE tp.user_id = $1 AND tp.status = 'active'
		 ORDER BY t.last_activity_at DESC
		 LIMIT 500`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("threadRepo.ListByParticipant: %w", err)
	}
	defer rows.Close()

	var threads []*domain.Thread
	for rows.Next() {
		var t domain.Thread

		err = rows.Scan(&t.ID, &t.Type, &t.Subject, &t.LastActivityAt, &t.CreatedAt, &t.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("threadRepo.ListByParticipant: scan: %w", err)
		}

		threads = append(threads, &t)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("threadRepo.ListByParticipant: rows: %w", err)
	}

	return threads, nil
}

func (r *ThreadRepo) TouchActivity(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE threads SET last_activity_at = now(), updated_at = now()
		 WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("threadRepo.TouchActivity: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("threadRepo.TouchActivity: %w", domain.ErrNotFound)
	}

	return nil
}
