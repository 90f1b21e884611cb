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

type ParticipantRepo struct {
	pool *pgxpool.Pool
}

func NewParticipantRepo(pool *pgxpool.Pool) *ParticipantRepo {
	return &ParticipantRepo{pool: pool}
}

func (r *ParticipantRepo) Get(ctx context.Context, threadID, userID uuid.UUID) (*domain.ThreadParticipant, error) {
	var p domain.ThreadParticipant

	err := r.pool.QueryRow(ctx,
		`SELECT id, thread_id, user_id, role, status, created_at, updated_at
		 FROM thread_participants WHERE thread_id = $1 AND user_id = $2`,
		threadID, userID,
	).Scan(&p.ID, &p.ThreadID, &p.UserID, &p.Role, &p.Status, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("participantRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("participantRepo.Get: %w", err)
	}

	return &p, nil
}

func (r *ParticipantRepo) ListByThread(ctx context.Context, threadID uuid.UUID) ([]*domain.ThreadParticipant, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, thread_id, user_id, role, status, created_at, updated_at
		 FROM thread_participants WHERE thread_id = $1 ORDER BY created_at`,
		threadID,
	)
	if err != nil {
		return nil, fmt.Errorf("participantRepo.ListByThread: %w", err)
	}
	defer rows.Close()

	var participants []*domain.ThreadParticipant
	for rows.Next() {
		var p domain.ThreadParticipant

		err = rows.Scan(&p.ID, &p.ThreadID, &p.UserID, &p.Role, &p.Status, &p.CreatedAt, &p.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("participantRepo.ListByThread: scan: %w", err)
		}

		participants = append(participants, &p)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("participantRepo.ListByThread: rows: %w", err)
	}

	return participants, nil
}

// Activate creates the participant row or reactivates a removed one. The
// unique (thread_id, user_id) index makes duplicate rows impossible; the
// guarded ON CONFLICT update turns an add against an already active row into
// a no-op so the call is idempotent.
func (r *ParticipantRepo) Activate(ctx context.Context, threadID, userID uuid.UUID, role domain.ParticipantRole) (bool, error) {
	tag, err := r.pool.Exec(ctx,
		`INSERT INTO thread_participants (id, thread_id, user_id, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, 'active', now(), now())
		 ON CONFLICT (thread_id, user_id) DO UPDATE
		 SET status = 'active', role = EXCLUDED.role, updated_at = now()
		 WHERE thread_participants.status = 'removed'`,
		uuid.New(), threadID, userID, role,
	)
	if err != nil {
		return false, fmt.Errorf("participantRepo.Activate: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// Deactivate soft-removes an active participant. It runs in a transaction
// that locks the thread's active owner/admin rows, so the invariant check and
// the status flip are atomic: two concurrent removals cannot both observe a
// spare admin and together leave the thread with none.
func (r *ParticipantRepo) Deactivate(ctx context.Context, threadID, userID uuid.UUID) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("participantRepo.Deactivate: begin: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var role domain.ParticipantRole
	err = tx.QueryRow(ctx,
		`SELECT role FROM thread_participants
		 WHERE thread_id = $1 AND user_id = $2 AND status = 'active'
		 FOR UPDATE`,
		threadID, userID,
	).Scan(&role)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("participantRepo.Deactivate: %w", domain.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("participantRepo.Deactivate: %w", err)
	}

	if role == domain.ParticipantRoleOwner || role == domain.ParticipantRoleAdmin {
		rows, lockErr := tx.Query(ctx,
			`SELECT user_id FROM thread_participants
			 WHERE thread_id = $1 AND user_id <> $2 AND status = 'active' AND role IN ('owner', 'admin')
			 FOR UPDATE`,
			threadID, userID,
		)
		if lockErr != nil {
			return fmt.Errorf("participantRepo.Deactivate: lock admins: %w", lockErr)
		}

		remaining := 0
		for rows.Next() {
			var id uuid.UUID
			if scanErr := rows.Scan(&id); scanErr != nil {
				rows.Close()
				return fmt.Errorf("participantRepo.Deactivate: scan: %w", scanErr)
			}
			remaining++
		}
		rows.Close()
		if rowsErr := rows.Err(); rowsErr != nil {
			return fmt.Errorf("participantRepo.Deactivate: rows: %w", rowsErr)
		}

		if remaining == 0 {
			return fmt.Errorf("participantRepo.Deactivate: %w", domain.ErrInvariantViolation)
		}
	}

	_, err = tx.Exec(ctx,
		`UPDATE thread_participants SET status = 'removed', updated_at = now()
		 WHERE thread_id = $1 AND user_id = $2`,
		threadID, userID,
	)
	if err != nil {
		return fmt.Errorf("participantRepo.Deactivate: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("participantRepo.Deactivate: commit: %w", err)
	}

	return nil
}
