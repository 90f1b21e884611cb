package v1_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	v1 "github.com/turnkeeper/turnkeeper/internal/api/v1"
	"github.com/turnkeeper/turnkeeper/internal/auth"
	"github.com/turnkeeper/turnkeeper/internal/domain"
)

func testTenantStore(tenant *domain.Tenant) *mockDataStore {
	return &mockDataStore{
		tenants: &mockTenantRepo{
			getBySlugFunc: func(_ context.Context, slug string) (*domain.Tenant, error) {
				if tenant != nil && slug == tenant.Slug {
					return tenant, nil
				}
				return nil, domain.ErrNotFound
			},
		},
	}
}

func TestRegisterRoute(t *testing.T) {
	t.Parallel()

	tenant := &domain.Tenant{ID: uuid.New(), Name: "Acme Rentals", Slug: "acme"}

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			registerFunc: func(_ context.Context, tenantID uuid.UUID, email, _, name, role string) (*domain.User, error) {
				require.Equal(t, tenant.ID, tenantID)
				require.Equal(t, "cleaner", role)
				return &domain.User{ID: uuid.New(), TenantID: tenantID, Email: email, Name: name, Role: role}, nil
			},
			loginFunc: func(_ context.Context, _ uuid.UUID, _, _ string) (string, string, error) {
				return "access-token", "refresh-token", nil
			},
		}

		v1.RegisterAuthRoutes(api, testTenantStore(tenant), authSvc)

		resp := api.Post("/auth/register", map[string]any{
			"tenant_slug": "acme",
			"email":       "jo@example.com",
			"password":    "hunter2hunter2",
			"name":        "Jo",
			"role":        "cleaner",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			User         *domain.User `json:"user"`
			AccessToken  string       `json:"access_token"`
			RefreshToken string       `json:"refresh_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "jo@example.com", body.User.Email)
		assert.Empty(t, body.User.PasswordHash, "hash must never leave the server")
		assert.Equal(t, "access-token", body.AccessToken)
		assert.Equal(t, "refresh-token", body.RefreshToken)
	})

	t.Run("unknown_tenant_404", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		v1.RegisterAuthRoutes(api, testTenantStore(tenant), &mockAuthService{})

		resp := api.Post("/auth/register", map[string]any{
			"tenant_slug": "nope",
			"email":       "jo@example.com",
			"password":    "hunter2hunter2",
			"name":        "Jo",
		})

		assert.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("duplicate_email_conflict", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			registerFunc: func(_ context.Context, _ uuid.UUID, _, _, _, _ string) (*domain.User, error) {
				return nil, auth.ErrUserAlreadyExists
			},
		}

		v1.RegisterAuthRoutes(api, testTenantStore(tenant), authSvc)

		resp := api.Post("/auth/register", map[string]any{
			"tenant_slug": "acme",
			"email":       "jo@example.com",
			"password":    "hunter2hunter2",
			"name":        "Jo",
		})

		assert.Equal(t, http.StatusConflict, resp.Code)
	})
}

func TestLoginRoute(t *testing.T) {
	t.Parallel()

	tenant := &domain.Tenant{ID: uuid.New(), Name: "Acme Rentals", Slug: "acme"}

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			loginFunc: func(_ context.Context, tenantID uuid.UUID, email, password string) (string, string, error) {
				require.Equal(t, tenant.ID, tenantID)
				require.Equal(t, "jo@example.com", email)
				require.Equal(t, "hunter2hunter2", password)
				return "access-token", "refresh-token", nil
			},
		}

		v1.RegisterAuthRoutes(api, testTenantStore(tenant), authSvc)

		resp := api.Post("/auth/login", map[string]any{
			"tenant_slug": "acme",
			"email":       "jo@example.com",
			"password":    "hunter2hunter2",
		})

		require.Equal(t, http.StatusOK, resp.Code)
	})

	t.Run("bad_credentials_401", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			loginFunc: func(_ context.Context, _ uuid.UUID, _, _ string) (string, string, error) {
				return "", "", auth.ErrInvalidCredentials
			},
		}

		v1.RegisterAuthRoutes(api, testTenantStore(tenant), authSvc)

		resp := api.Post("/auth/login", map[string]any{
			"tenant_slug": "acme",
			"email":       "jo@example.com",
			"password":    "wrong",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}

func TestRefreshRoute(t *testing.T) {
	t.Parallel()

	t.Run("happy_path", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			refreshTokenFunc: func(_ context.Context, refreshToken string) (string, error) {
				require.Equal(t, "refresh-token", refreshToken)
				return "new-access-token", nil
			},
		}

		v1.RegisterAuthRoutes(api, testTenantStore(nil), authSvc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refresh_token": "refresh-token",
		})

		require.Equal(t, http.StatusOK, resp.Code)

		var body struct {
			AccessToken string `json:"access_token"`
		}
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "new-access-token", body.AccessToken)
	})

	t.Run("invalid_token_401", func(t *testing.T) {
		t.Parallel()

		_, api := humatest.New(t)
		authSvc := &mockAuthService{
			refreshTokenFunc: func(_ context.Context, _ string) (string, error) {
				return "", auth.ErrInvalidToken
			},
		}

		v1.RegisterAuthRoutes(api, testTenantStore(nil), authSvc)

		resp := api.Post("/auth/refresh", map[string]any{
			"refresh_token": "garbage",
		})

		assert.Equal(t, http.StatusUnauthorized, resp.Code)
	})
}
