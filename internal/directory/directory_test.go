package directory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnkeeper/turnkeeper/internal/directory"
	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// mockMembershipRepo is a configurable mock implementing domain.MembershipRepository.
type mockMembershipRepo struct {
	listActiveInfos []*domain.MembershipInfo
	listActiveErr   error
	listActiveCalls int
}

func (m *mockMembershipRepo) Create(context.Context, *domain.Membership) error { return nil }

func (m *mockMembershipRepo) Get(context.Context, uuid.UUID, uuid.UUID) (*domain.Membership, error) {
	return nil, domain.ErrNotFound
}

func (m *mockMembershipRepo) UpdateStatus(context.Context, uuid.UUID, uuid.UUID, domain.MembershipStatus) error {
	return nil
}

func (m *mockMembershipRepo) ListActiveByUser(context.Context, uuid.UUID) ([]*domain.MembershipInfo, error) {
	m.listActiveCalls++
	return m.listActiveInfos, m.listActiveErr
}

func (m *mockMembershipRepo) ListByTeam(context.Context, uuid.UUID) ([]*domain.Membership, error) {
	return nil, nil
}

// mapCache is an in-memory ScopeCache for tests.
type mapCache struct {
	scopes map[uuid.UUID]directory.Scope
}

func newMapCache() *mapCache {
	return &mapCache{scopes: make(map[uuid.UUID]directory.Scope)}
}

func (c *mapCache) GetScope(_ context.Context, userID uuid.UUID) (directory.Scope, bool) {
	s, ok := c.scopes[userID]
	return s, ok
}

func (c *mapCache) SetScope(_ context.Context, userID uuid.UUID, scope directory.Scope) {
	c.scopes[userID] = scope
}

func (c *mapCache) Invalidate(_ context.Context, userID uuid.UUID) {
	delete(c.scopes, userID)
}

func TestScope(t *testing.T) {
	t.Parallel()

	t.Run("reduces memberships to deduplicated sets", func(t *testing.T) {
		t.Parallel()

		teamA := uuid.New()
		teamB := uuid.New()
		teamC := uuid.New()
		tenantX := uuid.New()
		tenantY := uuid.New()

		repo := &mockMembershipRepo{
			listActiveInfos: []*domain.MembershipInfo{
				{TeamID: teamA, TenantID: tenantX, TeamStatus: domain.TeamStatusActive, Role: domain.MembershipRoleLeader},
				{TeamID: teamB, TenantID: tenantX, TeamStatus: domain.TeamStatusArchived, Role: domain.MembershipRoleMember},
				{TeamID: teamC, TenantID: tenantY, TeamStatus: domain.TeamStatusActive, Role: domain.MembershipRoleMember},
				// Duplicate row for teamA must not double-count.
				{TeamID: teamA, TenantID: tenantX, TeamStatus: domain.TeamStatusActive, Role: domain.MembershipRoleMember},
			},
		}
		svc := directory.NewService(repo, nil)

		scope, err := svc.Scope(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.ElementsMatch(t, []uuid.UUID{teamA, teamB, teamC}, scope.AllTeamIDs)
		assert.ElementsMatch(t, []uuid.UUID{teamA, teamC}, scope.ActiveTeamIDs, "archived team must not be in active set")
		assert.ElementsMatch(t, []uuid.UUID{tenantX, tenantY}, scope.TenantIDs)
		assert.False(t, scope.Empty())
	})

	t.Run("unknown user yields empty scope not error", func(t *testing.T) {
		t.Parallel()

		svc := directory.NewService(&mockMembershipRepo{}, nil)

		scope, err := svc.Scope(context.Background(), uuid.New())

		require.NoError(t, err)
		assert.True(t, scope.Empty())
		assert.Empty(t, scope.AllTeamIDs)
		assert.Empty(t, scope.ActiveTeamIDs)
		assert.Empty(t, scope.TenantIDs)
	})

	t.Run("repository error is wrapped", func(t *testing.T) {
		t.Parallel()

		dbErr := errors.New("connection reset")
		svc := directory.NewService(&mockMembershipRepo{listActiveErr: dbErr}, nil)

		_, err := svc.Scope(context.Background(), uuid.New())

		require.Error(t, err)
		assert.ErrorIs(t, err, dbErr)
	})
}

func TestScope_Cache(t *testing.T) {
	t.Parallel()

	teamA := uuid.New()
	tenantX := uuid.New()
	userID := uuid.New()

	repo := &mockMembershipRepo{
		listActiveInfos: []*domain.MembershipInfo{
			{TeamID: teamA, TenantID: tenantX, TeamStatus: domain.TeamStatusActive, Role: domain.MembershipRoleMember},
		},
	}
	cache := newMapCache()
	svc := directory.NewService(repo, cache)

	ctx := context.Background()

	// First call populates the cache.
	first, err := svc.Scope(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listActiveCalls)

	// Second call is served from the cache.
	second, err := svc.Scope(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 1, repo.listActiveCalls, "cached scope must not hit the repository")
	assert.Equal(t, first, second)

	// Invalidation forces a recomputation.
	svc.Invalidate(ctx, userID)
	_, err = svc.Scope(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.listActiveCalls)
}

func TestActiveMemberships(t *testing.T) {
	t.Parallel()

	teamA := uuid.New()
	repo := &mockMembershipRepo{
		listActiveInfos: []*domain.MembershipInfo{
			{TeamID: teamA, TenantID: uuid.New(), TeamStatus: domain.TeamStatusActive, Role: domain.MembershipRoleLeader},
		},
	}
	svc := directory.NewService(repo, nil)

	infos, err := svc.ActiveMemberships(context.Background(), uuid.New())

	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, teamA, infos[0].TeamID)
	assert.Equal(t, domain.MembershipRoleLeader, infos[0].Role)
}
