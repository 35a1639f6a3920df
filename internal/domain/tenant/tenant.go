package tenant

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
)

// Status represents the lifecycle status of a tenant
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusCancelled Status = "cancelled"
)

// IsValid checks if the status is a valid tenant Status
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s Status) CanTransitionTo(target Status) bool {
	switch s {
	case StatusActive:
		return target == StatusSuspended || target == StatusCancelled
	case StatusSuspended:
		return target == StatusActive || target == StatusCancelled
	case StatusCancelled:
		return false // terminal
	}
	return false
}

// Tier represents the subscription tier of a tenant
type Tier string

const (
	TierBasic      Tier = "basic"
	TierStandard   Tier = "standard"
	TierPremium    Tier = "premium"
	TierEnterprise Tier = "enterprise"
)

// IsValid checks if the tier is a valid Tier
func (t Tier) IsValid() bool {
	switch t {
	case TierBasic, TierStandard, TierPremium, TierEnterprise:
		return true
	}
	return false
}

var tenantCodePattern = regexp.MustCompile(`^[a-z0-9-]{3,30}$`)

// Tenant represents a retailer organization on the platform.
// It is the aggregate root for organization-level operations: profile
// fields, subscription tier, lifecycle status and the nested settings
// document submitted atomically with updates.
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string   `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name         string   `gorm:"type:varchar(200);not null"`
	Status       Status   `gorm:"type:varchar(20);not null;default:'active';index"`
	Tier         Tier     `gorm:"type:varchar(20);not null;default:'basic';index"`
	ContactName  string   `gorm:"type:varchar(100)"`
	ContactEmail string   `gorm:"type:varchar(200)"`
	ContactPhone string   `gorm:"type:varchar(30)"`
	Website      string   `gorm:"type:varchar(300)"`
	AddressLine1 string   `gorm:"type:varchar(200)"`
	AddressLine2 string   `gorm:"type:varchar(200)"`
	City         string   `gorm:"type:varchar(100)"`
	Province     string   `gorm:"type:varchar(2)"`
	PostalCode   string   `gorm:"type:varchar(10)"`
	LogoURL      string   `gorm:"type:varchar(500)"`
	Settings     Settings `gorm:"type:jsonb;serializer:json"`
	SuspendedAt  *time.Time
	CancelledAt  *time.Time
	StatusReason string `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (Tenant) TableName() string {
	return "tenants"
}

// New creates a tenant with required fields and default settings
func New(code, name string) (*Tenant, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !tenantCodePattern.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be 3-30 lowercase letters, digits or hyphens")
	}
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}

	return &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Status:            StatusActive,
		Tier:              TierBasic,
		Settings:          DefaultSettings(),
	}, nil
}

// UpdateProfile applies profile field changes. Phone numbers and
// website URLs are normalized on the way in.
func (t *Tenant) UpdateProfile(name, contactName, contactEmail, contactPhone, website string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	t.Name = strings.TrimSpace(name)
	t.ContactName = strings.TrimSpace(contactName)
	t.ContactEmail = strings.TrimSpace(contactEmail)
	t.ContactPhone = FormatPhoneNumber(contactPhone)
	t.Website = NormalizeWebsiteURL(website)
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// UpdateAddress applies address field changes
func (t *Tenant) UpdateAddress(line1, line2, city, province, postalCode string) {
	t.AddressLine1 = strings.TrimSpace(line1)
	t.AddressLine2 = strings.TrimSpace(line2)
	t.City = strings.TrimSpace(city)
	t.Province = strings.ToUpper(strings.TrimSpace(province))
	t.PostalCode = strings.ToUpper(strings.TrimSpace(postalCode))
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// ChangeTier changes the subscription tier
func (t *Tenant) ChangeTier(tier Tier) error {
	if !tier.IsValid() {
		return shared.NewDomainError("INVALID_TIER", "Unknown subscription tier")
	}
	t.Tier = tier
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// ReplaceSettings swaps in a new settings document. The whole document
// is replaced in one call; partial merges happen client-side.
func (t *Tenant) ReplaceSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	t.Settings = settings
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// SetLogoURL records the stored logo location
func (t *Tenant) SetLogoURL(url string) {
	t.LogoURL = url
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
}

// Suspend transitions the tenant to suspended
func (t *Tenant) Suspend(reason string) error {
	if !t.Status.CanTransitionTo(StatusSuspended) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot suspend tenant in %s status", t.Status))
	}
	now := time.Now()
	t.Status = StatusSuspended
	t.SuspendedAt = &now
	t.StatusReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// Reactivate transitions a suspended tenant back to active
func (t *Tenant) Reactivate() error {
	if !t.Status.CanTransitionTo(StatusActive) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot reactivate tenant in %s status", t.Status))
	}
	t.Status = StatusActive
	t.SuspendedAt = nil
	t.StatusReason = ""
	t.UpdatedAt = time.Now()
	t.IncrementVersion()
	return nil
}

// Cancel transitions the tenant to the terminal cancelled status
func (t *Tenant) Cancel(reason string) error {
	if !t.Status.CanTransitionTo(StatusCancelled) {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel tenant in %s status", t.Status))
	}
	now := time.Now()
	t.Status = StatusCancelled
	t.CancelledAt = &now
	t.StatusReason = reason
	t.UpdatedAt = now
	t.IncrementVersion()
	return nil
}

// IsActive returns true if the tenant is active
func (t *Tenant) IsActive() bool {
	return t.Status == StatusActive
}
