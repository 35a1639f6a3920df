package tenant

import (
	"context"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListFilter narrows tenant list queries
type ListFilter struct {
	shared.Filter
	Status Status
	Tier   Tier
}

// Repository defines persistence operations for tenants
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	FindAll(ctx context.Context, filter ListFilter) ([]Tenant, int64, error)
	Save(ctx context.Context, tenant *Tenant) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// UserRepository defines persistence operations for tenant users
type UserRepository interface {
	FindByID(ctx context.Context, tenantID, id uuid.UUID) (*User, error)
	FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*User, error)
	FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]User, error)
	Save(ctx context.Context, user *User) error
	Delete(ctx context.Context, tenantID, id uuid.UUID) error
}
