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

type CreateExecutorLinkInput struct {
	Body struct {
		WorkgroupID uuid.UUID `json:"workgroup_id" doc:"Host workgroup to expose"`
		TeamID      uuid.UUID `json:"team_id" doc:"Executor team; must belong to a service tenant"`
	}
}

type CreateExecutorLinkOutput struct {
	Body *domain.ExecutorLink
}

type RevokeExecutorLinkInput struct {
	ID uuid.UUID `path:"id" doc:"Executor link ID"`
}

type ListExecutorLinksInput struct {
	WorkgroupID uuid.UUID `path:"id" doc:"Workgroup ID"`
}

type ListExecutorLinksOutput struct {
	Body []*domain.ExecutorLink
}

type ExecutorScopeOutput struct {
	Body struct {
		WorkgroupIDs []uuid.UUID         `json:"workgroup_ids"`
		Workgroups   []*domain.Workgroup `json:"workgroups"`
	}
}

// linkedWorkgroupInTenant loads the workgroup end of a link operation and
// hides it from other tenants.
func linkedWorkgroupInTenant(ctx context.Context, store DataStore, workgroupID, tenantID uuid.UUID) (*domain.Workgroup, error) {
	wg, err := store.Workgroups().GetByID(ctx, workgroupID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, huma.Error404NotFound("workgroup not found")
		}
		return nil, huma.Error500InternalServerError("failed to get workgroup", err)
	}
	if wg.TenantID != tenantID {
		return nil, huma.Error404NotFound("workgroup not found")
	}
	return wg, nil
}

func RegisterExecutorLinkRoutes(api huma.API, store DataStore, fed FederationService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-executor-link",
		Method:      http.MethodPost,
		Path:        "/executor-links",
		Summary:     "Link a host workgroup to a service tenant's team",
		Description: "Only host-tenant owners and admins may create links. The executor team's tenant must classify as a service provider.",
		Tags:        []string{"Federation"},
	}, func(ctx context.Context, input *CreateExecutorLinkInput) (*CreateExecutorLinkOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || (role != domain.RoleOwner && role != domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		if _, err := linkedWorkgroupInTenant(ctx, store, input.Body.WorkgroupID, tenantID); err != nil {
			return nil, err
		}

		team, err := store.Teams().GetByID(ctx, input.Body.TeamID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("team not found")
			}
			return nil, huma.Error500InternalServerError("failed to get team", err)
		}

		if _, err := fed.AuthorizeServiceTenantAccess(ctx, team.TenantID); err != nil {
			if errors.Is(err, domain.ErrTenantNotEligible) {
				return nil, huma.Error422UnprocessableEntity("team's tenant is not a service provider")
			}
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("team's tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to authorize service tenant", err)
		}

		link := &domain.ExecutorLink{
			ID:          uuid.New(),
			WorkgroupID: input.Body.WorkgroupID,
			TeamID:      input.Body.TeamID,
			CreatedBy:   userID,
			CreatedAt:   time.Now(),
		}

		if err := store.ExecutorLinks().Create(ctx, link); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("link already exists")
			}
			return nil, huma.Error500InternalServerError("failed to create link", err)
		}

		log.Info().
			Str("link_id", link.ID.String()).
			Str("workgroup_id", link.WorkgroupID.String()).
			Str("team_id", link.TeamID.String()).
			Msg("executor link created")

		return &CreateExecutorLinkOutput{Body: link}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "revoke-executor-link",
		Method:      http.MethodDelete,
		Path:        "/executor-links/{id}",
		Summary:     "Revoke an executor link",
		Description: "Revocation is a timestamp; the link row survives for audit.",
		Tags:        []string{"Federation"},
	}, func(ctx context.Context, input *RevokeExecutorLinkInput) (*struct{}, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || (role != domain.RoleOwner && role != domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		link, err := store.ExecutorLinks().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("link not found")
			}
			return nil, huma.Error500InternalServerError("failed to get link", err)
		}

		if _, err := linkedWorkgroupInTenant(ctx, store, link.WorkgroupID, tenantID); err != nil {
			return nil, err
		}

		if err := store.ExecutorLinks().Revoke(ctx, input.ID); err != nil {
			return nil, huma.Error500InternalServerError("failed to revoke link", err)
		}

		log.Info().Str("link_id", input.ID.String()).Msg("executor link revoked")

		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-executor-links",
		Method:      http.MethodGet,
		Path:        "/workgroups/{id}/executor-links",
		Summary:     "List executor links of a workgroup",
		Tags:        []string{"Federation"},
	}, func(ctx context.Context, input *ListExecutorLinksInput) (*ListExecutorLinksOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		if _, err := linkedWorkgroupInTenant(ctx, store, input.WorkgroupID, tenantID); err != nil {
			return nil, err
		}

		links, err := store.ExecutorLinks().ListByWorkgroup(ctx, input.WorkgroupID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list links", err)
		}

		return &ListExecutorLinksOutput{Body: links}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "resolve-executor-scope",
		Method:      http.MethodGet,
		Path:        "/me/executor-scope",
		Summary:     "Resolve the caller's executor scope",
		Description: "Returns the host workgroups reachable through the caller's active team memberships and their unrevoked executor links.",
		Tags:        []string{"Federation"},
	}, func(ctx context.Context, _ *struct{}) (*ExecutorScopeOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		ids, err := fed.ResolveExecutorScope(ctx, userID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to resolve scope", err)
		}

		out := &ExecutorScopeOutput{}
		out.Body.WorkgroupIDs = ids
		if len(ids) > 0 {
			workgroups, err := store.Workgroups().ListByIDs(ctx, ids)
			if err != nil {
				return nil, huma.Error500InternalServerError("failed to load workgroups", err)
			}
			out.Body.Workgroups = workgroups
		}
		return out, nil
	})
}
