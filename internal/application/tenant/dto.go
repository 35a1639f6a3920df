package tenant

import (
	"time"

	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/google/uuid"
)

// CreateTenantRequest represents a request to onboard a tenant
type CreateTenantRequest struct {
	Code         string `json:"code" binding:"required,min=3,max=30"`
	Name         string `json:"name" binding:"required,min=1,max=200"`
	Tier         string `json:"tier" binding:"omitempty,oneof=basic standard premium enterprise"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"max=30"`
	Website      string `json:"website" binding:"max=300"`
}

// UpdateTenantRequest carries the profile form; missing fields clear.
type UpdateTenantRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200"`
	ContactName  string `json:"contact_name" binding:"max=100"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email"`
	ContactPhone string `json:"contact_phone" binding:"max=30"`
	Website      string `json:"website" binding:"max=300"`
	AddressLine1 string `json:"address_line1" binding:"max=200"`
	AddressLine2 string `json:"address_line2" binding:"max=200"`
	City         string `json:"city" binding:"max=100"`
	Province     string `json:"province" binding:"omitempty,len=2"`
	PostalCode   string `json:"postal_code" binding:"max=10"`
}

// StatusActionRequest carries the optional operator note for suspend
// and cancel actions.
type StatusActionRequest struct {
	Reason string `json:"reason" binding:"max=500"`
}

// ChangeTierRequest changes the subscription tier
type ChangeTierRequest struct {
	Tier string `json:"tier" binding:"required,oneof=basic standard premium enterprise"`
}

// ListRequest narrows tenant list queries
type ListRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=100"`
	Search   string `form:"search" binding:"omitempty,max=200"`
	Status   string `form:"status" binding:"omitempty,oneof=active suspended cancelled"`
	Tier     string `form:"tier" binding:"omitempty,oneof=basic standard premium enterprise"`
	SortBy   string `form:"sort_by" binding:"omitempty,max=50"`
	SortDir  string `form:"sort_dir" binding:"omitempty,oneof=asc desc"`
}

// TenantResponse represents a tenant in API responses
type TenantResponse struct {
	ID           uuid.UUID       `json:"id"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Status       string          `json:"status"`
	Tier         string          `json:"tier"`
	ContactName  string          `json:"contact_name"`
	ContactEmail string          `json:"contact_email"`
	ContactPhone string          `json:"contact_phone"`
	Website      string          `json:"website"`
	AddressLine1 string          `json:"address_line1"`
	AddressLine2 string          `json:"address_line2"`
	City         string          `json:"city"`
	Province     string          `json:"province"`
	PostalCode   string          `json:"postal_code"`
	LogoURL      string          `json:"logo_url"`
	Settings     tenant.Settings `json:"settings"`
	StatusReason string          `json:"status_reason,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
	Version      int             `json:"version"`
}

// CreateUserRequest creates a user under a tenant
type CreateUserRequest struct {
	Email    string     `json:"email" binding:"required,email"`
	Name     string     `json:"name" binding:"required,min=1,max=100"`
	Password string     `json:"password" binding:"required,min=8,max=128"`
	Role     string     `json:"role" binding:"required,oneof=tenant_admin store_manager staff"`
	StoreID  *uuid.UUID `json:"store_id"`
}

// UpdateUserRequest updates a user's role, store or active flag
type UpdateUserRequest struct {
	Role    *string    `json:"role" binding:"omitempty,oneof=tenant_admin store_manager staff"`
	StoreID *uuid.UUID `json:"store_id"`
	Active  *bool      `json:"active"`
}

// TempPasswordResponse carries the generated password back to the
// admin performing the reset; it is never persisted in clear.
type TempPasswordResponse struct {
	TemporaryPassword string `json:"temporary_password"`
}

// UserResponse represents a tenant user; the password hash never leaves
// the domain layer.
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	TenantID  uuid.UUID  `json:"tenant_id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      string     `json:"role"`
	StoreID   *uuid.UUID `json:"store_id,omitempty"`
	Active    bool       `json:"active"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// ToTenantResponse converts a tenant aggregate to its API view
func ToTenantResponse(t *tenant.Tenant) *TenantResponse {
	return &TenantResponse{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Status:       t.Status.String(),
		Tier:         string(t.Tier),
		ContactName:  t.ContactName,
		ContactEmail: t.ContactEmail,
		ContactPhone: t.ContactPhone,
		Website:      t.Website,
		AddressLine1: t.AddressLine1,
		AddressLine2: t.AddressLine2,
		City:         t.City,
		Province:     t.Province,
		PostalCode:   t.PostalCode,
		LogoURL:      t.LogoURL,
		Settings:     t.Settings,
		StatusReason: t.StatusReason,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		Version:      t.Version,
	}
}

// ToUserResponse converts a user to its API view
func ToUserResponse(u *tenant.User) *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		Name:      u.Name,
		Role:      string(u.Role),
		StoreID:   u.StoreID,
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
