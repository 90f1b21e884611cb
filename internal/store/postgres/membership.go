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

type MembershipRepo struct {
	pool *pgxpool.Pool
}

func NewMembershipRepo(pool *pgxpool.Pool) *MembershipRepo {
	return &MembershipRepo{pool: pool}
}

func (r *MembershipRepo) Create(ctx context.Context, m *domain.Membership) error {
	_, err := r.pool.Exec(ctx,
		`INSERT INTO memberships (id, user_id, team_id, role, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		m.ID, m.UserID, m.TeamID, m.Role, m.Status, m.CreatedAt, m.UpdatedAt,
	)
	if isUniqueViolation(err) {
		// One membership row per (user, team).
		return fmt.Errorf("membershipRepo.Create: %w", domain.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("membershipRepo.Create: %w", err)
	}

	return nil
}

func (r *MembershipRepo) Get(ctx context.Context, userID, teamID uuid.UUID) (*domain.Membership, error) {
	var m domain.Membership

	err := r.pool.QueryRow(ctx,
		`SELECT id, user_id, team_id, role, status, created_at, updated_at
		 FROM memberships WHERE user_id = $1 AND team_id = $2`,
		userID, teamID,
	).Scan(&m.ID, &m.UserID, &m.TeamID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("membershipRepo.Get: %w", domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.Get: %w", err)
	}

	return &m, nil
}

func (r *MembershipRepo) UpdateStatus(ctx context.Context, userID, teamID uuid.UUID, status domain.MembershipStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE memberships SET status = $1, updated_at = now()
		 WHERE user_id = $2 AND team_id = $3`,
		status, userID, teamID,
	)
	if err != nil {
		return fmt.Errorf("membershipRepo.UpdateStatus: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("membershipRepo.UpdateStatus: %w", domain.ErrNotFound)
	}

	return nil
}

// ListActiveByUser joins teams so each row carries the owning tenant and the
// team's own lifecycle status. Only status=active memberships are returned.
func (r *MembershipRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT m.team_id, t.tenant_id, t.status, m.role
		 FROM memberships m
		 JOIN teams t ON t.id = m.team_id
		 WHERE m.user_id = $1 AND m.status = 'active'`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListActiveByUser: %w", err)
	}
	defer rows.Close()

	var infos []*domain.MembershipInfo
	for rows.Next() {
		var info domain.MembershipInfo

		err = rows.Scan(&info.TeamID, &info.TenantID, &info.TeamStatus, &info.Role)
		if err != nil {
			return nil, fmt.Errorf("membershipRepo.ListActiveByUser: scan: %w", err)
		}

		infos = append(infos, &info)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListActiveByUser: rows: %w", err)
	}

	return infos, nil
}

func (r *MembershipRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Membership, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, user_id, team_id, role, status, created_at, updated_at
		 FROM memberships WHERE team_id = $1 ORDER BY created_at`,
		teamID,
	)
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListByTeam: %w", err)
	}
	defer rows.Close()

	var memberships []*domain.Membership
	for rows.Next() {
		var m domain.Membership

		err = rows.Scan(&m.ID, &m.UserID, &m.TeamID, &m.Role, &m.Status, &m.CreatedAt, &m.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("membershipRepo.ListByTeam: scan: %w", err)
		}

		memberships = append(memberships, &m)
	}
	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("membershipRepo.ListByTeam: rows: %w", err)
	}

	return memberships, nil
}
