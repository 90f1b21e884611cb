package v1_test

import (
	"context"

	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/domain"
	"github.com/turnkeeper/turnkeeper/internal/messaging"
	"github.com/turnkeeper/turnkeeper/internal/server/middleware"
)

// ---------------------------------------------------------------------------
// Context helpers — inject tenant/user/role into context for DoCtx
// ---------------------------------------------------------------------------

func tenantCtx(tenantID uuid.UUID) context.Context {
	ctx := context.Background()
	ctx = context.WithValue(ctx, middleware.ContextKeyTenantID, tenantID)
	return ctx
}

func userCtx(tenantID, userID uuid.UUID, role string) context.Context {
	ctx := tenantCtx(tenantID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserID, userID)
	ctx = context.WithValue(ctx, middleware.ContextKeyUserRole, role)
	return ctx
}

func adminCtx(tenantID uuid.UUID) context.Context {
	return userCtx(tenantID, uuid.New(), domain.RoleAdmin)
}

// ---------------------------------------------------------------------------
// Mock DataStore
// ---------------------------------------------------------------------------

type mockDataStore struct {
	tenants       domain.TenantRepository
	users         domain.UserRepository
	teams         domain.TeamRepository
	memberships   domain.MembershipRepository
	workgroups    domain.WorkgroupRepository
	executorLinks domain.ExecutorLinkRepository
	threads       domain.ThreadRepository
	participants  domain.ThreadParticipantRepository
}

func (m *mockDataStore) Tenants() domain.TenantRepository                 { return m.tenants }
func (m *mockDataStore) Users() domain.UserRepository                     { return m.users }
func (m *mockDataStore) Teams() domain.TeamRepository                     { return m.teams }
func (m *mockDataStore) Memberships() domain.MembershipRepository         { return m.memberships }
func (m *mockDataStore) Workgroups() domain.WorkgroupRepository           { return m.workgroups }
func (m *mockDataStore) ExecutorLinks() domain.ExecutorLinkRepository     { return m.executorLinks }
func (m *mockDataStore) Threads() domain.ThreadRepository                 { return m.threads }
func (m *mockDataStore) Participants() domain.ThreadParticipantRepository { return m.participants }

// ---------------------------------------------------------------------------
// Mock TenantRepository
// ---------------------------------------------------------------------------

type mockTenantRepo struct {
	createFunc    func(ctx context.Context, t *domain.Tenant) error
	getByIDFunc   func(ctx context.Context, id uuid.UUID) (*domain.Tenant, error)
	getBySlugFunc func(ctx context.Context, slug string) (*domain.Tenant, error)
	updateFunc    func(ctx context.Context, t *domain.Tenant) error
	listFunc      func(ctx context.Context) ([]*domain.Tenant, error)
}

func (m *mockTenantRepo) Create(ctx context.Context, t *domain.Tenant) error {
	return m.createFunc(ctx, t)
}

func (m *mockTenantRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Tenant, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTenantRepo) GetBySlug(ctx context.Context, slug string) (*domain.Tenant, error) {
	return m.getBySlugFunc(ctx, slug)
}

func (m *mockTenantRepo) Update(ctx context.Context, t *domain.Tenant) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTenantRepo) List(ctx context.Context) ([]*domain.Tenant, error) {
	return m.listFunc(ctx)
}

// ---------------------------------------------------------------------------
// Mock UserRepository
// ---------------------------------------------------------------------------

type mockUserRepo struct {
	createFunc     func(ctx context.Context, u *domain.User) error
	getByIDFunc    func(ctx context.Context, id uuid.UUID) (*domain.User, error)
	getByEmailFunc func(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error)
	updateFunc     func(ctx context.Context, u *domain.User) error
	listFunc       func(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error)
}

func (m *mockUserRepo) Create(ctx context.Context, u *domain.User) error {
	return m.createFunc(ctx, u)
}

func (m *mockUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*domain.User, error) {
	return m.getByEmailFunc(ctx, tenantID, email)
}

func (m *mockUserRepo) Update(ctx context.Context, u *domain.User) error {
	return m.updateFunc(ctx, u)
}

func (m *mockUserRepo) List(ctx context.Context, tenantID uuid.UUID) ([]*domain.User, error) {
	return m.listFunc(ctx, tenantID)
}

// ---------------------------------------------------------------------------
// Mock TeamRepository
// ---------------------------------------------------------------------------

type mockTeamRepo struct {
	createFunc       func(ctx context.Context, t *domain.Team) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Team, error)
	updateFunc       func(ctx context.Context, t *domain.Team) error
	listByTenantFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Team, error)
}

func (m *mockTeamRepo) Create(ctx context.Context, t *domain.Team) error {
	return m.createFunc(ctx, t)
}

func (m *mockTeamRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Team, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockTeamRepo) Update(ctx context.Context, t *domain.Team) error {
	return m.updateFunc(ctx, t)
}

func (m *mockTeamRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Team, error) {
	return m.listByTenantFunc(ctx, tenantID)
}

// ---------------------------------------------------------------------------
// Mock MembershipRepository
// ---------------------------------------------------------------------------

type mockMembershipRepo struct {
	createFunc           func(ctx context.Context, m *domain.Membership) error
	getFunc              func(ctx context.Context, userID, teamID uuid.UUID) (*domain.Membership, error)
	updateStatusFunc     func(ctx context.Context, userID, teamID uuid.UUID, status domain.MembershipStatus) error
	listActiveByUserFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error)
	listByTeamFunc       func(ctx context.Context, teamID uuid.UUID) ([]*domain.Membership, error)
}

func (m *mockMembershipRepo) Create(ctx context.Context, mem *domain.Membership) error {
	return m.createFunc(ctx, mem)
}

func (m *mockMembershipRepo) Get(ctx context.Context, userID, teamID uuid.UUID) (*domain.Membership, error) {
	return m.getFunc(ctx, userID, teamID)
}

func (m *mockMembershipRepo) UpdateStatus(ctx context.Context, userID, teamID uuid.UUID, status domain.MembershipStatus) error {
	return m.updateStatusFunc(ctx, userID, teamID, status)
}

func (m *mockMembershipRepo) ListActiveByUser(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error) {
	return m.listActiveByUserFunc(ctx, userID)
}

func (m *mockMembershipRepo) ListByTeam(ctx context.Context, teamID uuid.UUID) ([]*domain.Membership, error) {
	return m.listByTeamFunc(ctx, teamID)
}

// ---------------------------------------------------------------------------
// Mock WorkgroupRepository
// ---------------------------------------------------------------------------

type mockWorkgroupRepo struct {
	createFunc       func(ctx context.Context, w *domain.Workgroup) error
	getByIDFunc      func(ctx context.Context, id uuid.UUID) (*domain.Workgroup, error)
	listByTenantFunc func(ctx context.Context, tenantID uuid.UUID) ([]*domain.Workgroup, error)
	listByIDsFunc    func(ctx context.Context, ids []uuid.UUID) ([]*domain.Workgroup, error)
}

func (m *mockWorkgroupRepo) Create(ctx context.Context, w *domain.Workgroup) error {
	return m.createFunc(ctx, w)
}

func (m *mockWorkgroupRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Workgroup, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockWorkgroupRepo) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]*domain.Workgroup, error) {
	return m.listByTenantFunc(ctx, tenantID)
}

func (m *mockWorkgroupRepo) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Workgroup, error) {
	return m.listByIDsFunc(ctx, ids)
}

// ---------------------------------------------------------------------------
// Mock ExecutorLinkRepository
// ---------------------------------------------------------------------------

type mockExecutorLinkRepo struct {
	createFunc            func(ctx context.Context, l *domain.ExecutorLink) error
	getByIDFunc           func(ctx context.Context, id uuid.UUID) (*domain.ExecutorLink, error)
	listActiveByTeamsFunc func(ctx context.Context, teamIDs []uuid.UUID) ([]*domain.ExecutorLink, error)
	listByWorkgroupFunc   func(ctx context.Context, workgroupID uuid.UUID) ([]*domain.ExecutorLink, error)
	revokeFunc            func(ctx context.Context, id uuid.UUID) error
}

func (m *mockExecutorLinkRepo) Create(ctx context.Context, l *domain.ExecutorLink) error {
	return m.createFunc(ctx, l)
}

func (m *mockExecutorLinkRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.ExecutorLink, error) {
	return m.getByIDFunc(ctx, id)
}

func (m *mockExecutorLinkRepo) ListActiveByTeams(ctx context.Context, teamIDs []uuid.UUID) ([]*domain.ExecutorLink, error) {
	return m.listActiveByTeamsFunc(ctx, teamIDs)
}

func (m *mockExecutorLinkRepo) ListByWorkgroup(ctx context.Context, workgroupID uuid.UUID) ([]*domain.ExecutorLink, error) {
	return m.listByWorkgroupFunc(ctx, workgroupID)
}

func (m *mockExecutorLinkRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	return m.revokeFunc(ctx, id)
}

// ---------------------------------------------------------------------------
// Mock AuthService
// ---------------------------------------------------------------------------

type mockAuthService struct {
	registerFunc     func(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error)
	loginFunc        func(ctx context.Context, tenantID uuid.UUID, email, password string) (string, string, error)
	refreshTokenFunc func(ctx context.Context, refreshToken string) (string, error)
}

func (m *mockAuthService) Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error) {
	return m.registerFunc(ctx, tenantID, email, password, name, role)
}

func (m *mockAuthService) Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error) {
	return m.loginFunc(ctx, tenantID, email, password)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, refreshToken string) (string, error) {
	return m.refreshTokenFunc(ctx, refreshToken)
}

// ---------------------------------------------------------------------------
// Mock DirectoryService
// ---------------------------------------------------------------------------

type mockDirectoryService struct {
	activeMembershipsFunc func(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error)
	invalidated           []uuid.UUID
}

func (m *mockDirectoryService) ActiveMemberships(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error) {
	return m.activeMembershipsFunc(ctx, userID)
}

func (m *mockDirectoryService) Invalidate(_ context.Context, userID uuid.UUID) {
	m.invalidated = append(m.invalidated, userID)
}

// ---------------------------------------------------------------------------
// Mock FederationService
// ---------------------------------------------------------------------------

type mockFederationService struct {
	authorizeFunc    func(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	resolveScopeFunc func(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	canAccessFunc    func(ctx context.Context, userID, workgroupID uuid.UUID) (bool, error)
}

func (m *mockFederationService) AuthorizeServiceTenantAccess(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error) {
	return m.authorizeFunc(ctx, tenantID)
}

func (m *mockFederationService) ResolveExecutorScope(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error) {
	return m.resolveScopeFunc(ctx, userID)
}

func (m *mockFederationService) CanAccessWorkgroup(ctx context.Context, userID, workgroupID uuid.UUID) (bool, error) {
	return m.canAccessFunc(ctx, userID, workgroupID)
}

// ---------------------------------------------------------------------------
// Mock MessagingService
// ---------------------------------------------------------------------------

type mockMessagingService struct {
	createThreadFunc       func(ctx context.Context, creatorID uuid.UUID, threadType domain.ThreadType, subject string, memberIDs []uuid.UUID) (*domain.Thread, error)
	listThreadsFunc        func(ctx context.Context, userID uuid.UUID) ([]*domain.Thread, error)
	getThreadFunc          func(ctx context.Context, userID, threadID uuid.UUID) (*domain.Thread, error)
	listParticipantsFunc   func(ctx context.Context, userID, threadID uuid.UUID) ([]*domain.ThreadParticipant, error)
	canManageFunc          func(ctx context.Context, actingUserID, threadID uuid.UUID) (*messaging.ManageContext, error)
	addParticipantFunc     func(ctx context.Context, mctx *messaging.ManageContext, targetUserID uuid.UUID) error
	removeParticipantFunc  func(ctx context.Context, mctx *messaging.ManageContext, targetUserID uuid.UUID) error
}

func (m *mockMessagingService) CreateThread(ctx context.Context, creatorID uuid.UUID, threadType domain.ThreadType, subject string, memberIDs []uuid.UUID) (*domain.Thread, error) {
	return m.createThreadFunc(ctx, creatorID, threadType, subject, memberIDs)
}

func (m *mockMessagingService) ListThreadsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Thread, error) {
	return m.listThreadsFunc(ctx, userID)
}

func (m *mockMessagingService) GetThread(ctx context.Context, userID, threadID uuid.UUID) (*domain.Thread, error) {
	return m.getThreadFunc(ctx, userID, threadID)
}

func (m *mockMessagingService) ListParticipants(ctx context.Context, userID, threadID uuid.UUID) ([]*domain.ThreadParticipant, error) {
	return m.listParticipantsFunc(ctx, userID, threadID)
}

func (m *mockMessagingService) CanManageThreadMembers(ctx context.Context, actingUserID, threadID uuid.UUID) (*messaging.ManageContext, error) {
	return m.canManageFunc(ctx, actingUserID, threadID)
}

func (m *mockMessagingService) AddParticipant(ctx context.Context, mctx *messaging.ManageContext, targetUserID uuid.UUID) error {
	return m.addParticipantFunc(ctx, mctx, targetUserID)
}

func (m *mockMessagingService) RemoveParticipant(ctx context.Context, mctx *messaging.ManageContext, targetUserID uuid.UUID) error {
	return m.removeParticipantFunc(ctx, mctx, targetUserID)
}
