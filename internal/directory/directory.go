// Package directory resolves a user's active group memberships across all
// tenants. The reduced scope it produces is the authorization basis for every
// downstream cross-tenant check.
package directory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// Scope is the deduplicated view of a user's active memberships. It is keyed
// by the owning tenant of each team, not the user's home tenant: cross-tenant
// access is granted through team membership, never through tenant equality.
type Scope struct {
	// AllTeamIDs covers every team with an active membership, including
	// archived teams (historical visibility).
	AllTeamIDs []uuid.UUID
	// ActiveTeamIDs covers only teams whose own status is active. Execution
	// scope is derived from this set alone.
	ActiveTeamIDs []uuid.UUID
	// TenantIDs are the owning tenants of all teams in AllTeamIDs.
	TenantIDs []uuid.UUID
}

// Empty reports whether the scope grants nothing. Callers must treat an empty
// scope as no access, never as wildcard access.
func (s Scope) Empty() bool {
	return len(s.AllTeamIDs) == 0
}

// ScopeCache is an optional evict-safe cache for resolved scopes. Evicting an
// entry at any time is always correct; it only costs a recomputation.
type ScopeCache interface {
	GetScope(ctx context.Context, userID uuid.UUID) (Scope, bool)
	SetScope(ctx context.Context, userID uuid.UUID, scope Scope)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// Service is the Membership Directory. It is read-only: membership mutations
// go through the administration surface, which invalidates the cache.
type Service struct {
	memberships domain.MembershipRepository
	cache       ScopeCache // may be nil
}

func NewService(memberships domain.MembershipRepository, cache ScopeCache) *Service {
	return &Service{memberships: memberships, cache: cache}
}

// ActiveMemberships returns the joined view of every status=active membership
// the user holds, across all tenants. An unknown user yields an empty slice,
// not an error: absence of access is the safe default.
func (s *Service) ActiveMemberships(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error) {
	infos, err := s.memberships.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("directory.ActiveMemberships: %w", err)
	}
	return infos, nil
}

// Scope reduces the user's active memberships to the deduplicated
// authorization scope.
func (s *Service) Scope(ctx context.Context, userID uuid.UUID) (Scope, error) {
	if s.cache != nil {
		if scope, ok := s.cache.GetScope(ctx, userID); ok {
			return scope, nil
		}
	}

	infos, err := s.memberships.ListActiveByUser(ctx, userID)
	if err != nil {
		return Scope{}, fmt.Errorf("directory.Scope: %w", err)
	}

	scope := reduce(infos)

	if s.cache != nil {
		s.cache.SetScope(ctx, userID, scope)
	}

	return scope, nil
}

// Invalidate drops any cached scope for the user. Called after membership
// mutations so the next authorization read observes them.
func (s *Service) Invalidate(ctx context.Context, userID uuid.UUID) {
	if s.cache == nil {
		return
	}
	s.cache.Invalidate(ctx, userID)
	log.Debug().Str("user_id", userID.String()).Msg("directory: scope invalidated")
}

func reduce(infos []*domain.MembershipInfo) Scope {
	var scope Scope
	seenTeams := make(map[uuid.UUID]struct{}, len(infos))
	seenTenants := make(map[uuid.UUID]struct{}, len(infos))

	for _, info := range infos {
		if _, ok := seenTeams[info.TeamID]; !ok {
			seenTeams[info.TeamID] = struct{}{}
			scope.AllTeamIDs = append(scope.AllTeamIDs, info.TeamID)
			if info.TeamStatus == domain.TeamStatusActive {
				scope.ActiveTeamIDs = append(scope.ActiveTeamIDs, info.TeamID)
			}
		}
		if _, ok := seenTenants[info.TenantID]; !ok {
			seenTenants[info.TenantID] = struct{}{}
			scope.TenantIDs = append(scope.TenantIDs, info.TenantID)
		}
	}

	return scope
}
