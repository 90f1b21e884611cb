package domain

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TenantKind is the derived classification of a tenant. It is never stored;
// it is computed from the tenant record alone so the two representations
// cannot drift.
type TenantKind string

const (
	// TenantKindService marks tenants that operate cleaning/service teams.
	TenantKindService TenantKind = "service"
	// TenantKindHost marks tenants that own properties and workgroups.
	TenantKindHost TenantKind = "host"
)

// Naming convention that marks a service-provider tenant. Both signals are
// exact, case-sensitive prefix matches.
const (
	ServiceSlugPrefix = "services-"
	ServiceNameLabel  = "Services"
)

type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

type Tenant struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	Status    TenantStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Kind classifies the tenant as service-provider or host. The check is pure:
// slug prefix first, then display-name label, either match accepts. A nil or
// empty tenant classifies as host, the stricter default.
func (t *Tenant) Kind() TenantKind {
	if t == nil {
		return TenantKindHost
	}
	if strings.HasPrefix(t.Slug, ServiceSlugPrefix) {
		return TenantKindService
	}
	if strings.HasPrefix(t.Name, ServiceNameLabel) {
		return TenantKindService
	}
	return TenantKindHost
}

// IsService reports whether the tenant classifies as a service provider.
func (t *Tenant) IsService() bool {
	return t.Kind() == TenantKindService
}

type TenantRepository interface {
	Create(ctx context.Context, t *Tenant) error
	GetByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	GetBySlug(ctx context.Context, slug string) (*Tenant, error)
	Update(ctx context.Context, t *Tenant) error
	List(ctx context.Context) ([]*Tenant, error)
}
