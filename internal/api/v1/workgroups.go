package v1

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/domain"
	"github.com/turnkeeper/turnkeeper/internal/server/middleware"
)

type CreateWorkgroupInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Workgroup name"`
	}
}

type CreateWorkgroupOutput struct {
	Body *domain.Workgroup
}

type ListWorkgroupsInput struct{}

type ListWorkgroupsOutput struct {
	Body []*domain.Workgroup
}

type WorkgroupAccessInput struct {
	ID uuid.UUID `path:"id" doc:"Workgroup ID"`
}

type WorkgroupAccessOutput struct {
	Body struct {
		Allowed bool `json:"allowed"`
	}
}

func RegisterWorkgroupRoutes(api huma.API, store DataStore, fed FederationService) {
	huma.Register(api, huma.Operation{
		OperationID: "create-workgroup",
		Method:      http.MethodPost,
		Path:        "/workgroups",
		Summary:     "Create a workgroup in the current tenant",
		Tags:        []string{"Workgroups"},
	}, func(ctx context.Context, input *CreateWorkgroupInput) (*CreateWorkgroupOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		tenant, err := store.Tenants().GetByID(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to look up tenant", err)
		}
		if tenant.IsService() {
			return nil, huma.Error422UnprocessableEntity("service tenants cannot own workgroups")
		}

		now := time.Now()
		w := &domain.Workgroup{
			ID:        uuid.New(),
			TenantID:  tenantID,
			Name:      input.Body.Name,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Workgroups().Create(ctx, w); err != nil {
			return nil, huma.Error500InternalServerError("failed to create workgroup", err)
		}

		return &CreateWorkgroupOutput{Body: w}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-workgroups",
		Method:      http.MethodGet,
		Path:        "/workgroups",
		Summary:     "List workgroups in the current tenant",
		Tags:        []string{"Workgroups"},
	}, func(ctx context.Context, _ *ListWorkgroupsInput) (*ListWorkgroupsOutput, error) {
		tenantID, ok := middleware.TenantIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing tenant context")
		}

		workgroups, err := store.Workgroups().ListByTenant(ctx, tenantID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list workgroups", err)
		}

		return &ListWorkgroupsOutput{Body: workgroups}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "check-workgroup-access",
		Method:      http.MethodGet,
		Path:        "/workgroups/{id}/access",
		Summary:     "Check whether the caller's executor scope covers a workgroup",
		Tags:        []string{"Workgroups"},
	}, func(ctx context.Context, input *WorkgroupAccessInput) (*WorkgroupAccessOutput, error) {
		userID, ok := middleware.UserIDFromContext(ctx)
		if !ok {
			return nil, huma.Error403Forbidden("missing user context")
		}

		allowed, err := fed.CanAccessWorkgroup(ctx, userID, input.ID)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to check access", err)
		}

		out := &WorkgroupAccessOutput{}
		out.Body.Allowed = allowed
		return out, nil
	})
}
