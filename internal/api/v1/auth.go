package v1

import (
	"context"
	"errors"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/turnkeeper/turnkeeper/internal/auth"
	"github.com/turnkeeper/turnkeeper/internal/domain"
)

// Auth routes are the one unauthenticated surface. Signup joins an existing
// tenant by slug; tenants themselves are provisioned by an owner or admin on
// the authenticated side, so there is no self-serve tenant creation here.

type RegisterInput struct {
	Body struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Slug of the tenant to join"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"User email, unique within the tenant"`
		Password   string `json:"password" minLength:"8" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
		Name       string `json:"name" minLength:"1" maxLength:"255" doc:"Display name"`
		Role       string `json:"role,omitempty" enum:"owner,admin,manager,auxiliary,cleaner,other" doc:"Coarse account role; defaults to 'other', a guest with no standing until a team membership is granted"`
	}
}

type RegisterOutput struct {
	Body struct {
		User         *domain.User `json:"user"`
		AccessToken  string       `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string       `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type LoginInput struct {
	Body struct {
		TenantSlug string `json:"tenant_slug" minLength:"1" maxLength:"63" doc:"Slug of the tenant to log in to"`
		Email      string `json:"email" minLength:"3" maxLength:"255" doc:"User email"`
		Password   string `json:"password" minLength:"1" maxLength:"128" doc:"Password"` //nolint:gosec // G117: login credential DTO
	}
}

type LoginOutput struct {
	Body struct {
		AccessToken  string `json:"access_token"`  //nolint:gosec // G117: auth response DTO
		RefreshToken string `json:"refresh_token"` //nolint:gosec // G117: auth response DTO
	}
}

type RefreshInput struct {
	Body struct {
		RefreshToken string `json:"refresh_token" minLength:"1" doc:"Refresh token from register or login"` //nolint:gosec // G117: token refresh DTO
	}
}

type RefreshOutput struct {
	Body struct {
		AccessToken string `json:"access_token"` //nolint:gosec // G117: auth response DTO
	}
}

// tenantBySlug resolves the tenant named in a credential request. Unknown
// slugs are a plain 404; these routes run before authentication, so there is
// no caller scope to hide anything from.
func tenantBySlug(ctx context.Context, store DataStore, slug string) (*domain.Tenant, error) {
	tenant, err := store.Tenants().GetBySlug(ctx, slug)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, huma.Error404NotFound("tenant not found")
	}
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to look up tenant", err)
	}
	return tenant, nil
}

func RegisterAuthRoutes(api huma.API, store DataStore, authSvc AuthService) {
	huma.Register(api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/auth/register",
		Summary:     "Register a new user",
		Description: "Creates a user inside the named tenant and returns a signed-in token pair.",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RegisterInput) (*RegisterOutput, error) {
		tenant, err := tenantBySlug(ctx, store, input.Body.TenantSlug)
		if err != nil {
			return nil, err
		}

		user, err := authSvc.Register(ctx, tenant.ID, input.Body.Email, input.Body.Password, input.Body.Name, input.Body.Role)
		if errors.Is(err, auth.ErrUserAlreadyExists) {
			return nil, huma.Error409Conflict("user already exists")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("failed to register user", err)
		}
		user.PasswordHash = ""

		// Sign the new user in immediately rather than bouncing them to login.
		accessToken, refreshToken, err := authSvc.Login(ctx, tenant.ID, input.Body.Email, input.Body.Password)
		if err != nil {
			return nil, huma.Error500InternalServerError("registered but failed to issue tokens", err)
		}

		out := &RegisterOutput{}
		out.Body.User = user
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/auth/login",
		Summary:     "Login with email and password",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
		tenant, err := tenantBySlug(ctx, store, input.Body.TenantSlug)
		if err != nil {
			return nil, err
		}

		accessToken, refreshToken, err := authSvc.Login(ctx, tenant.ID, input.Body.Email, input.Body.Password)
		if errors.Is(err, auth.ErrInvalidCredentials) {
			// One message for bad email and bad password alike.
			return nil, huma.Error401Unauthorized("invalid email or password")
		}
		if err != nil {
			return nil, huma.Error500InternalServerError("login failed", err)
		}

		out := &LoginOutput{}
		out.Body.AccessToken = accessToken
		out.Body.RefreshToken = refreshToken
		return out, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "refresh-token",
		Method:      http.MethodPost,
		Path:        "/auth/refresh",
		Summary:     "Refresh access token",
		Description: "Exchanges a refresh token for a new access token carrying the user's current role.",
		Tags:        []string{"Auth"},
	}, func(ctx context.Context, input *RefreshInput) (*RefreshOutput, error) {
		accessToken, err := authSvc.RefreshToken(ctx, input.Body.RefreshToken)
		if err != nil {
			return nil, huma.Error401Unauthorized("invalid or expired refresh token")
		}

		out := &RefreshOutput{}
		out.Body.AccessToken = accessToken
		return out, nil
	})
}
