package tenant

import (
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role represents a tenant-scoped admin role
type Role string

const (
	RoleTenantAdmin  Role = "tenant_admin"
	RoleStoreManager Role = "store_manager"
	RoleStaff        Role = "staff"
)

// IsValid checks if the role is a valid tenant Role
func (r Role) IsValid() bool {
	switch r {
	case RoleTenantAdmin, RoleStoreManager, RoleStaff:
		return true
	}
	return false
}

// User is an admin user scoped to a tenant. Platform super-admins are
// provisioned outside this aggregate.
type User struct {
	shared.BaseAggregateRoot
	TenantID     uuid.UUID  `gorm:"type:uuid;not null;index"`
	Email        string     `gorm:"type:varchar(200);not null;uniqueIndex:idx_tenant_user_email,priority:2"`
	Name         string     `gorm:"type:varchar(100);not null"`
	Role         Role       `gorm:"type:varchar(20);not null"`
	PasswordHash string     `gorm:"type:varchar(100);not null"`
	StoreID      *uuid.UUID `gorm:"type:uuid;index"` // assigned store for store managers
	Active       bool       `gorm:"not null;default:true"`
	LastLoginAt  *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "tenant_users"
}

// NewUser creates a tenant user with a hashed password
func NewUser(tenantID uuid.UUID, email, name, password string, role Role) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "A valid email address is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_USER_NAME", "User name cannot be empty")
	}
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown tenant user role")
	}
	if tenantID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_TENANT", "Tenant ID cannot be empty")
	}

	hash, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		TenantID:          tenantID,
		Email:             email,
		Name:              strings.TrimSpace(name),
		Role:              role,
		PasswordHash:      hash,
		Active:            true,
	}, nil
}

// ChangeRole updates the user's role in place
func (u *User) ChangeRole(role Role) error {
	if !role.IsValid() {
		return shared.NewDomainError("INVALID_ROLE", "Unknown tenant user role")
	}
	u.Role = role
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// AssignStore pins the user to a store; required for store managers
func (u *User) AssignStore(storeID uuid.UUID) error {
	if storeID == uuid.Nil {
		return shared.NewDomainError("INVALID_STORE", "Store ID cannot be empty")
	}
	u.StoreID = &storeID
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// SetActive toggles the user's active flag
func (u *User) SetActive(active bool) {
	u.Active = active
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
}

// ResetPassword replaces the password hash with one for the new password
func (u *User) ResetPassword(newPassword string) error {
	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	u.UpdatedAt = time.Now()
	u.IncrementVersion()
	return nil
}

// CheckPassword verifies a plaintext password against the stored hash
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 {
		return "", shared.NewDomainError("WEAK_PASSWORD", "Password must be at least 8 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", shared.NewDomainError("PASSWORD_HASH_FAILED", "Could not hash password")
	}
	return string(hash), nil
}
