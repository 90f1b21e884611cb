package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type ThreadType string

const (
	// ThreadTypeDirect has exactly two historical participants, fixed at
	// creation. Roster mutations are rejected.
	ThreadTypeDirect ThreadType = "direct"
	// ThreadTypeGroup has a mutable roster.
	ThreadTypeGroup ThreadType = "group"
)

// Thread is a conversation container. It is not owned by any tenant:
// visibility is decided solely by the participant roster.
type Thread struct {
	ID             uuid.UUID
	Type           ThreadType
	Subject        string
	LastActivityAt time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type ParticipantRole string

const (
	ParticipantRoleOwner  ParticipantRole = "owner"
	ParticipantRoleAdmin  ParticipantRole = "admin"
	ParticipantRoleMember ParticipantRole = "member"
)

type ParticipantStatus string

const (
	ParticipantStatusActive  ParticipantStatus = "active"
	ParticipantStatusRemoved ParticipantStatus = "removed"
)

// ThreadParticipant joins a user to a thread. Removal flips the status, never
// deletes the row, so re-adds reactivate and message attribution survives.
// At most one row exists per (thread, user) pair.
type ThreadParticipant struct {
	ID        uuid.UUID
	ThreadID  uuid.UUID
	UserID    uuid.UUID
	Role      ParticipantRole
	Status    ParticipantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Active reports whether the participant row confers visibility.
func (p *ThreadParticipant) Active() bool {
	return p != nil && p.Status == ParticipantStatusActive
}

// CanManageRoster reports whether the participant's role allows roster
// mutation of the thread.
func (p *ThreadParticipant) CanManageRoster() bool {
	return p.Active() && (p.Role == ParticipantRoleOwner || p.Role == ParticipantRoleAdmin)
}

type ThreadRepository interface {
	// Create persists the thread and its initial roster in one transaction.
	Create(ctx context.Context, t *Thread, participants []*ThreadParticipant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Thread, error)
	// ListByParticipant returns threads where the user holds an active
	// participant row, ordered by most recent activity first. This is the
	// only thread listing path; there is deliberately no tenant- or
	// workgroup-keyed query.
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]*Thread, error)
	TouchActivity(ctx context.Context, id uuid.UUID) error
}

type ThreadParticipantRepository interface {
	Get(ctx context.Context, threadID, userID uuid.UUID) (*ThreadParticipant, error)
	ListByThread(ctx context.Context, threadID uuid.UUID) ([]*ThreadParticipant, error)
	// Activate creates the participant row, or reactivates a removed one.
	// If an active row already exists it is a no-op. Returns true when a row
	// was created or reactivated.
	Activate(ctx context.Context, threadID, userID uuid.UUID, role ParticipantRole) (bool, error)
	// Deactivate soft-removes an active participant. The active-administrator
	// invariant is re-checked atomically with the status flip: the call fails
	// with ErrInvariantViolation if it would leave the thread without an
	// active owner/admin, and ErrNotFound if the target is not active.
	Deactivate(ctx context.Context, threadID, userID uuid.UUID) error
}
