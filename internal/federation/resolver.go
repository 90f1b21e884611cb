// Package federation maps cross-tenant executor links to the host-side
// resources a service-tenant user may act on. An executor link is the only
// bridge across the tenant boundary; everything else stays isolated.
package federation

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/directory"
	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// ScopeSource yields a user's reduced membership scope. *directory.Service
// satisfies this interface.
type ScopeSource interface {
	Scope(ctx context.Context, userID uuid.UUID) (directory.Scope, error)
}

// Resolver answers federation questions: which tenants may serve as
// executors, and which host workgroups a given user's teams execute for.
type Resolver struct {
	tenants domain.TenantRepository
	links   domain.ExecutorLinkRepository
	scopes  ScopeSource
}

func NewResolver(tenants domain.TenantRepository, links domain.ExecutorLinkRepository, scopes ScopeSource) *Resolver {
	return &Resolver{tenants: tenants, links: links, scopes: scopes}
}

// AuthorizeServiceTenantAccess guards operations that must only ever run
// against service-provider tenants. It fails with domain.ErrNotFound when the
// tenant does not exist and domain.ErrTenantNotEligible when it exists but
// classifies as host.
func (r *Resolver) AuthorizeServiceTenantAccess(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	tenant, err := r.tenants.GetByID(ctx, tenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("federation.AuthorizeServiceTenantAccess: %w", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("federation.AuthorizeServiceTenantAccess: %w", err)
	}

	if !tenant.IsService() {
		return nil, fmt.Errorf("federation.AuthorizeServiceTenantAccess: tenant %s: %w", tenant.Slug, domain.ErrTenantNotEligible)
	}

	return tenant, nil
}

// ResolveExecutorScope returns the set of host workgroup IDs the user's teams
// hold executor links for. Only teams in the scope's ActiveTeamIDs contribute:
// an archived team keeps its historical membership rows but never grants
// execution scope. A user with no active memberships resolves to an empty set,
// which callers must treat as no access.
func (r *Resolver) ResolveExecutorScope(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	scope, err := r.scopes.Scope(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("federation.ResolveExecutorScope: %w", err)
	}

	if len(scope.ActiveTeamIDs) == 0 {
		return nil, nil
	}

	links, err := r.links.ListActiveByTeams(ctx, scope.ActiveTeamIDs)
	if err != nil {
		return nil, fmt.Errorf("federation.ResolveExecutorScope: %w", err)
	}

	seen := make(map[uuid.UUID]struct{}, len(links))
	var workgroupIDs []uuid.UUID
	for _, link := range links {
		if _, ok := seen[link.WorkgroupID]; ok {
			continue
		}
		seen[link.WorkgroupID] = struct{}{}
		workgroupIDs = append(workgroupIDs, link.WorkgroupID)
	}

	return workgroupIDs, nil
}

// CanAccessWorkgroup reports whether the user's executor scope covers the
// workgroup.
func (r *Resolver) CanAccessWorkgroup(ctx context.Context, userID, workgroupID uuid.UUID) (bool, error) {
	workgroupIDs, err := r.ResolveExecutorScope(ctx, userID)
	if err != nil {
		return false, fmt.Errorf("federation.CanAccessWorkgroup: %w", err)
	}

	for _, id := range workgroupIDs {
		if id == workgroupID {
			return true, nil
		}
	}
	return false, nil
}
