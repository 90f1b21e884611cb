package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Workgroup is a host tenant's resource group (a set of properties managed
// together). It is the host-side end of an executor link.
type Workgroup struct {
	ID        uuid.UUID
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type WorkgroupRepository interface {
	Create(ctx context.Context, w *Workgroup) error
	GetByID(ctx context.Context, id uuid.UUID) (*Workgroup, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*Workgroup, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*Workgroup, error)
}
