package v1

import (
	"context"

	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/domain"
	"github.com/turnkeeper/turnkeeper/internal/messaging"
)

// DataStore abstracts the repository accessor pattern for handler testing.
// *postgres.Store satisfies this interface.
type DataStore interface {
	Tenants() domain.TenantRepository
	Users() domain.UserRepository
	Teams() domain.TeamRepository
	Memberships() domain.MembershipRepository
	Workgroups() domain.WorkgroupRepository
	ExecutorLinks() domain.ExecutorLinkRepository
	Threads() domain.ThreadRepository
	Participants() domain.ThreadParticipantRepository
}

// AuthService abstracts authentication operations for handler testing.
// *auth.Service satisfies this interface.
type AuthService interface {
	Register(ctx context.Context, tenantID uuid.UUID, email, password, name, role string) (*domain.User, error)
	Login(ctx context.Context, tenantID uuid.UUID, email, password string) (accessToken, refreshToken string, err error)
	RefreshToken(ctx context.Context, refreshToken string) (string, error)
}

// DirectoryService abstracts the membership directory for handler testing.
// *directory.Service satisfies this interface.
type DirectoryService interface {
	ActiveMemberships(ctx context.Context, userID uuid.UUID) ([]*domain.MembershipInfo, error)
	Invalidate(ctx context.Context, userID uuid.UUID)
}

// FederationService abstracts cross-tenant resolution for handler testing.
// *federation.Resolver satisfies this interface.
type FederationService interface {
	AuthorizeServiceTenantAccess(ctx context.Context, tenantID uuid.UUID) (*domain.Tenant, error)
	ResolveExecutorScope(ctx context.Context, userID uuid.UUID) ([]uuid.UUID, error)
	CanAccessWorkgroup(ctx context.Context, userID, workgroupID uuid.UUID) (bool, error)
}

// MessagingService abstracts thread access and roster operations for handler
// testing. *messaging.Service satisfies this interface.
type MessagingService interface {
	CreateThread(ctx context.Context, creatorID uuid.UUID, threadType domain.ThreadType, subject string, memberIDs []uuid.UUID) (*domain.Thread, error)
	ListThreadsForUser(ctx context.Context, userID uuid.UUID) ([]*domain.Thread, error)
	GetThread(ctx context.Context, userID, threadID uuid.UUID) (*domain.Thread, error)
	ListParticipants(ctx context.Context, userID, threadID uuid.UUID) ([]*domain.ThreadParticipant, error)
	CanManageThreadMembers(ctx context.Context, actingUserID, threadID uuid.UUID) (*messaging.ManageContext, error)
	AddParticipant(ctx context.Context, mctx *messaging.ManageContext, targetUserID uuid.UUID) error
	RemoveParticipant(ctx context.Context, mctx *messaging.ManageContext, targetUserID uuid.UUID) error
}
