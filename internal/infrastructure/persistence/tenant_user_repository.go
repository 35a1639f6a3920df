package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormTenantUserRepository implements tenant.UserRepository using GORM.
// Every query is scoped by tenant ID.
type GormTenantUserRepository struct {
	db *gorm.DB
}

// NewGormTenantUserRepository creates a new GormTenantUserRepository
func NewGormTenantUserRepository(db *gorm.DB) *GormTenantUserRepository {
	return &GormTenantUserRepository{db: db}
}

// FindByID finds a user by ID within a tenant
func (r *GormTenantUserRepository) FindByID(ctx context.Context, tenantID, id uuid.UUID) (*tenant.User, error) {
	var user tenant.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindByEmail finds a user by email within a tenant
func (r *GormTenantUserRepository) FindByEmail(ctx context.Context, tenantID uuid.UUID, email string) (*tenant.User, error) {
	var user tenant.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND email = ?", tenantID, strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

// FindAllForTenant returns all users of a tenant ordered by creation time
func (r *GormTenantUserRepository) FindAllForTenant(ctx context.Context, tenantID uuid.UUID) ([]tenant.User, error) {
	var users []tenant.User
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// Save creates or updates a user
func (r *GormTenantUserRepository) Save(ctx context.Context, user *tenant.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

// Delete removes a user within a tenant
func (r *GormTenantUserRepository) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&tenant.User{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}
