package middleware

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

// Context keys set by Auth after token validation. Handlers read them
// through the typed accessors below.
const (
	ContextKeyTenantID contextKey = "tenant_id"
	ContextKeyUserID   contextKey = "user_id"
	ContextKeyUserRole contextKey = "role"
)

func valueFromContext[T any](ctx context.Context, key contextKey) (T, bool) {
	v, ok := ctx.Value(key).(T)
	return v, ok
}

// TenantIDFromContext returns the authenticated caller's account group ID.
func TenantIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return valueFromContext[uuid.UUID](ctx, ContextKeyTenantID)
}

// UserIDFromContext returns the authenticated caller's user ID.
func UserIDFromContext(ctx context.Context) (uuid.UUID, bool) {
	return valueFromContext[uuid.UUID](ctx, ContextKeyUserID)
}

// RoleFromContext returns the authenticated caller's account-level role.
func RoleFromContext(ctx context.Context) (string, bool) {
	return valueFromContext[string](ctx, ContextKeyUserRole)
}
