package v1

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/google/uuid"

	"github.com/turnkeeper/turnkeeper/internal/domain"
	"github.com/turnkeeper/turnkeeper/internal/server/middleware"
)

type CreateTenantInput struct {
	Body struct {
		Name string `json:"name" minLength:"1" maxLength:"255" doc:"Tenant name"`
		Slug string `json:"slug" minLength:"1" maxLength:"63" pattern:"^[a-z0-9]+(?:-[a-z0-9]+)*$" doc:"URL-safe slug (lowercase alphanumeric with hyphens)"`
	}
}

type TenantBody struct {
	Tenant *domain.Tenant    `json:"tenant"`
	Kind   domain.TenantKind `json:"kind" doc:"Derived classification: 'host' or 'service'"`
}

type CreateTenantOutput struct {
	Body TenantBody
}

type GetTenantInput struct {
	ID uuid.UUID `path:"id" doc:"Tenant ID"`
}

type GetTenantOutput struct {
	Body TenantBody
}

type ListTenantsInput struct{}

type ListTenantsOutput struct {
	Body []TenantBody
}

func RegisterTenantRoutes(api huma.API, store DataStore) {
	huma.Register(api, huma.Operation{
		OperationID: "create-tenant",
		Method:      http.MethodPost,
		Path:        "/tenants",
		Summary:     "Create a new tenant",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *CreateTenantInput) (*CreateTenantOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || (role != domain.RoleOwner && role != domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		now := time.Now()
		t := &domain.Tenant{
			ID:        uuid.New(),
			Name:      input.Body.Name,
			Slug:      input.Body.Slug,
			Status:    domain.TenantStatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		}

		if err := store.Tenants().Create(ctx, t); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				return nil, huma.Error409Conflict("slug already taken")
			}
			return nil, huma.Error500InternalServerError("failed to create tenant", err)
		}

		return &CreateTenantOutput{Body: TenantBody{Tenant: t, Kind: t.Kind()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-tenant",
		Method:      http.MethodGet,
		Path:        "/tenants/{id}",
		Summary:     "Get a tenant and its classification",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, input *GetTenantInput) (*GetTenantOutput, error) {
		t, err := store.Tenants().GetByID(ctx, input.ID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, huma.Error404NotFound("tenant not found")
			}
			return nil, huma.Error500InternalServerError("failed to get tenant", err)
		}

		return &GetTenantOutput{Body: TenantBody{Tenant: t, Kind: t.Kind()}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-tenants",
		Method:      http.MethodGet,
		Path:        "/tenants",
		Summary:     "List all tenants",
		Tags:        []string{"Tenants"},
	}, func(ctx context.Context, _ *ListTenantsInput) (*ListTenantsOutput, error) {
		role, ok := middleware.RoleFromContext(ctx)
		if !ok || (role != domain.RoleOwner && role != domain.RoleAdmin) {
			return nil, huma.Error403Forbidden("admin role required")
		}

		tenants, err := store.Tenants().List(ctx)
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to list tenants", err)
		}

		out := &ListTenantsOutput{Body: make([]TenantBody, 0, len(tenants))}
		for _, t := range tenants {
			out.Body = append(out.Body, TenantBody{Tenant: t, Kind: t.Kind()})
		}
		return out, nil
	})
}
