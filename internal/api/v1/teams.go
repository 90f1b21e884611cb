package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/turnkeeper/turnkeeper/internal/domain"
	"github.com/turnkeeper/turnkeeper/internal/server/middleware"
)

type CreateTeamInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Team name"`
	}
}

type CreateTeamOutput struct {
	Body *domain.Team
}

type ListTeamsInput struct{}

type ListTeamsOutput struct {
	Body []*domain.Team
}

type ArchiveTeamInput struct {
	ID uuid.UUID `path:"id" doc:"Team ID"`
}

type ArchiveTeamOutput struct {
	Body *domain.Team
}

type GrantMembershipInput struct {
	ID   uuid.UUID `path:"id" doc:"Team ID"`
	Body struct {
		UserID uuid.UUID `json:"user_id" doc:"User to enroll"`
		Role   string    `json:"role,omitempty" enum:"leader,member" doc:"Membership role; defaults to 'member'"`
	}
}

type GrantMembershipOutput struct {
	Body *domain.Membership
}

type UpdateMembershipInput struct {
	ID     uuid.UUID `path:"id" doc:"Team ID"`
	UserID uuid.UUID `path:"userID" doc:"Member user ID"`
	Body   struct {
		Status string `json:"status" enum:"active,inactive,pending" doc:"New membership status"`
	}
}

type ListTeamMembersInput struct {
	ID uuid.UUID `path:"id" doc:"Team ID"`
}

type ListTeamMembersOutput struct {
	Body []*domain.Membership
}

type ListMyMembershipsInput struct{}

type ListMyMembershipsOutput struct {
	Body []*domain.MembershipInfo
}

// teamInTenant loads the team and hides it when it belongs to another tenant.
func teamInTenant(ctx context.Context, store DataStore, teamID, tenantID uuid.UUID) (*domain.Team, error) {
	team, err := store.Teams().GetByID(ctx, teamID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("team not found")
		}
		return nil, huma.Error500InternalServerError("failed to get team", err)
	}
	if team.TenantID != tenantID {
		return nil, huma.Error404NotFound("team not found")
	}
	return team, nil
}

func RegisterTeamRoutes(api huma.API, store DataStore, dir DirectoryService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-team",
		Method:      http.MethodPost,
		Path:        "/teams",
		Summary:     "Create a team in the current tenant",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, input *CreateTeamInput) (*CreateTeamOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		now := time.Now()
		team := &domain.Team{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      input.Body.Name,
			Status:    domain.TeamStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Teams().Create(ctx, team); err != nil {
			return nil, huma.Error500InternalServerError("failed to create team", err)
		}

		return &CreateTeamOutput{Body: team}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-teams",
		Method:      http.MethodGet,
		Path:        "/teams",
		Summary:     "List teams in the current tenant",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, _ *ListTeamsInput) (*ListTeamsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		teams, err := store.Teams().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list teams", err)
		}

		return &ListTeamsOutput{Body: teams}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "archive-team",
		Method:      http.MethodPost,
		Path:        "/teams/{id}/archive",
		Summary:     "Archive a team",
		Description: "Archiving suspends the permissions the team's memberships confer without touching the membership rows.",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, input *ArchiveTeamInput) (*ArchiveTeamOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		team, err := teamInTenant(ctx, store, input.ID, tenantID)
		if err != nil {
			return nil, err
		}

		team.Status = domain.TeamStatusArchived
		team.UpdatedAt = time.Now()
		if err := store.Teams().Update(ctx, team); err != nil {
			return nil, huma.Error500InternalServerError("failed to archive team", err)
		}

		// Cached scopes of every member now overstate their reach.
		members, err := store.Memberships().ListByTeam(ctx, team.ID)
		if err != nil {
			// Stale scopes persist until the cache TTL expires.
			log.Warn().Err(err).
				Str("team_id", team.ID.String()).
				Msg("api: cannot enumerate members for scope invalidation")
		}
		for _, m := range members {
			dir.Invalidate(ctx, m.UserID)
		}

		return &ArchiveTeamOutput{Body: team}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "grant-membership",
		Method:      http.MethodPost,
		Path:        "/teams/{id}/members",
		Summary:     "Enroll a user in a team",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, input *GrantMembershipInput) (*GrantMembershipOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if _, err := teamInTenant(ctx, store, input.ID, tenantID); err != nil {
			return nil, err
		}

		if _, err := store.Users().GetByID(ctx, input.Body.UserID); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("user not found")
			}
			return nil, huma.Error500InternalServerError("failed to look up user", err)
		}

		role := domain.MembershipRole(input.Body.Role)
		if role == "" {
			role = domain.MembershipRoleMember
		}

		now := time.Now()
		m := &domain.Membership{
			ID:        uuid.New(),
			UserID:    input.Body.UserID,
			TeamID:    input.ID,
			Role:      role,
			Status:    domain.MembershipStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Memberships().Create(ctx, m); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("user is already a member of this team")
			}
			return nil, huma.Error500InternalServerError("failed to create membership", err)
		}

		dir.Invalidate(ctx, input.Body.UserID)

		return &GrantMembershipOutput{Body: m}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-membership",
		Method:      http.MethodPatch,
		Path:        "/teams/{id}/members/{userID}",
		Summary:     "Change a membership's lifecycle status",
		Description: "Departure is a status transition to 'inactive'; membership rows are never deleted.",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, input *UpdateMembershipInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if _, err := teamInTenant(ctx, store, input.ID, tenantID); err != nil {
			return nil, err
		}

		status := domain.MembershipStatus(input.Body.Status)
		if err := store.Memberships().UpdateStatus(ctx, input.UserID, input.ID, status); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("membership not found")
			}
			return nil, huma.Error500InternalServerError("failed to update membership", err)
		}

		dir.Invalidate(ctx, input.UserID)

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-team-members",
		Method:      http.MethodGet,
		Path:        "/teams/{id}/members",
		Summary:     "List a team's memberships",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, input *ListTeamMembersInput) (*ListTeamMembersOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if _, err := teamInTenant(ctx, store, input.ID, tenantID); err != nil {
			return nil, err
		}

		members, err := store.Memberships().ListByTeam(ctx, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list members", err)
		}

		return &ListTeamMembersOutput{Body: members}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-my-memberships",
		Method:      http.MethodGet,
		Path:        "/me/memberships",
		Summary:     "List the caller's active memberships across all tenants",
		Tags:        []string{"Teams"},
	}, func(ctx context.Context, _ *ListMyMembershipsInput) (*ListMyMembershipsOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		infos, err := dir.ActiveMemberships(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list memberships", err)
		}

		return &ListMyMembershipsOutput{Body: infos}, nil
	})
}
