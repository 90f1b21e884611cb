package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ExecutorLink binds a host tenant's workgroup to a service tenant's team.
// It is the only sanctioned channel through which a service-tenant team gains
// visibility into host-tenant resources. Links are created and revoked by
// host-tenant administrators; revocation is a timestamp, not a delete.
type ExecutorLink struct {
	ID          uuid.UUID
	WorkgroupID uuid.UUID
	TeamID      uuid.UUID // executor team, must belong to a service tenant
	CreatedBy   uuid.UUID
	CreatedAt   time.Time
	RevokedAt   *time.Time
}

// Revoked reports whether the link has been revoked.
func (l *ExecutorLink) Revoked() bool {
	return l.RevokedAt != nil
}

type ExecutorLinkRepository interface {
	Create(ctx context.Context, l *ExecutorLink) error
	GetByID(ctx context.Context, id uuid.UUID) (*ExecutorLink, error)
	// ListActiveByTeams returns unrevoked links whose executor team is in
	// teamIDs. An empty teamIDs slice yields an empty result.
	ListActiveByTeams(ctx context.Context, teamIDs []uuid.UUID) ([]*ExecutorLink, error)
	ListByWorkgroup(ctx context.Context, workgroupID uuid.UUID) ([]*ExecutorLink, error)
	Revoke(ctx context.Context, id uuid.UUID) error
}
