package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// tenantUserSQLite is a SQLite-compatible mirror of tenant.User for
// in-memory repository tests.
type tenantUserSQLite struct {
	ID           string `gorm:"primaryKey"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	Version      int    `gorm:"not null;default:1"`
	TenantID     string `gorm:"not null;index"`
	Email        string `gorm:"not null"`
	Name         string `gorm:"not null"`
	Role         string `gorm:"not null"`
	PasswordHash string `gorm:"not null"`
	StoreID      *string
	Active       bool `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

func (tenantUserSQLite) TableName() string {
	return "tenant_users"
}

func setupUserTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tenantUserSQLite{}))
	return db
}

func newTestUser(t *testing.T, tenantID uuid.UUID, email string, role tenant.Role) *tenant.User {
	t.Helper()
	user, err := tenant.NewUser(tenantID, email, "Test User", "initial-password", role)
	require.NoError(t, err)
	return user
}

func TestGormTenantUserRepositorySaveAndFind(t *testing.T) {
	repo := NewGormTenantUserRepository(setupUserTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	user := newTestUser(t, tenantID, "manager@greenleaf.ca", tenant.RoleStoreManager)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByID(ctx, tenantID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "manager@greenleaf.ca", found.Email)
	assert.Equal(t, tenant.RoleStoreManager, found.Role)

	// a different tenant cannot see the user
	_, err = repo.FindByID(ctx, uuid.New(), user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTenantUserRepositoryFindByEmail(t *testing.T) {
	repo := NewGormTenantUserRepository(setupUserTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	user := newTestUser(t, tenantID, "admin@greenleaf.ca", tenant.RoleTenantAdmin)
	require.NoError(t, repo.Save(ctx, user))

	found, err := repo.FindByEmail(ctx, tenantID, "  Admin@GreenLeaf.ca ")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindByEmail(ctx, tenantID, "nobody@greenleaf.ca")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTenantUserRepositoryFindAllForTenant(t *testing.T) {
	repo := NewGormTenantUserRepository(setupUserTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()
	otherTenant := uuid.New()

	require.NoError(t, repo.Save(ctx, newTestUser(t, tenantID, "a@greenleaf.ca", tenant.RoleTenantAdmin)))
	require.NoError(t, repo.Save(ctx, newTestUser(t, tenantID, "b@greenleaf.ca", tenant.RoleStaff)))
	require.NoError(t, repo.Save(ctx, newTestUser(t, otherTenant, "c@budmart.ca", tenant.RoleStaff)))

	users, err := repo.FindAllForTenant(ctx, tenantID)
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestGormTenantUserRepositoryDelete(t *testing.T) {
	repo := NewGormTenantUserRepository(setupUserTestDB(t))
	ctx := context.Background()
	tenantID := uuid.New()

	user := newTestUser(t, tenantID, "staff@greenleaf.ca", tenant.RoleStaff)
	require.NoError(t, repo.Save(ctx, user))

	// wrong tenant scope
	assert.ErrorIs(t, repo.Delete(ctx, uuid.New(), user.ID), shared.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, tenantID, user.ID))
	_, err := repo.FindByID(ctx, tenantID, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
