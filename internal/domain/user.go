package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Coarse user roles within the home tenant.
const (
	RoleOwner     = "owner"
	RoleAdmin     = "admin"
	RoleManager   = "manager"
	RoleAuxiliary = "auxiliary"
	RoleCleaner   = "cleaner"
	RoleOther     = "other"
)

type User struct {
	ID           uuid.UUID
	TenantID     uuid.UUID // home tenant, immutable for the account lifetime
	Email        string
	PasswordHash string // argon2id
	Name         string
	Role         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	// GetByID is unscoped: thread participants span tenants, so the acting
	// user cannot always be resolved through their home tenant.
	GetByID(ctx context.Context, id uuid.UUID) (*User, error)
	GetByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	Update(ctx context.Context, u *User) error
	List(ctx context.Context, tenantID uuid.UUID) ([]*User, error)
}
