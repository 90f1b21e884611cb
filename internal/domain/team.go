package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "active"
	TeamStatusArchived TeamStatus = "archived"
)

// Team is a named group owned by exactly one tenant.
type Team struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	Status    TeamStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MembershipRole string

const (
	MembershipRoleLeader MembershipRole = "leader"
	MembershipRoleMember MembershipRole = "member"
)

type MembershipStatus string

const (
	MembershipStatusActive   MembershipStatus = "active"
	MembershipStatusInactive MembershipStatus = "inactive"
	MembershipStatusPending  MembershipStatus = "pending"
)

// Membership joins a user to a team. Only status=active confers permissions.
// Memberships are never hard-deleted; departure transitions them to inactive
// so history survives for audit.
type Membership struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TeamID    uuid.UUID
	Role      MembershipRole
	Status    MembershipStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MembershipInfo is the joined view the Membership Directory hands out: one
// row per active membership, carrying the owning tenant and lifecycle status
// of the team so callers never have to re-join.
type MembershipInfo struct {
	TeamID     uuid.UUID
	TenantID   uuid.UUID // tenant that owns the team, not the user's home tenant
	TeamStatus TeamStatus
	Role       MembershipRole
}

type TeamRepository interface {
	Create(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id uuid.UUID) (*Team, error)
	Update(ctx context.Context, t *Team) error
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Team, error)
}

type MembershipRepository interface {
	Create(ctx context.Context, m *Membership) error
	Get(ctx context.Context, userID, teamID uuid.UUID) (*Membership, error)
	// UpdateStatus transitions an existing membership; it never deletes.
	UpdateStatus(ctx context.Context, userID, teamID uuid.UUID, status MembershipStatus) error
	// ListActiveByUser returns the joined view for every status=active
	// membership of the user, across all tenants.
	ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*MembershipInfo, error)
	ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*Membership, error)
}
