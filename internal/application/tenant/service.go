package tenant

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/dispensa/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// logoContentTypes maps accepted logo extensions to content types.
var logoContentTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".svg":  "image/svg+xml",
	".webp": "image/webp",
}

// Service handles tenant lifecycle, settings, logo and user management.
type Service struct {
	tenants tenant.Repository
	users   tenant.UserRepository
	store   storage.ObjectStorage
	log     *zap.Logger
}

// NewService creates a new tenant Service
func NewService(tenants tenant.Repository, users tenant.UserRepository, store storage.ObjectStorage, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{tenants: tenants, users: users, store: store, log: log}
}

// Create onboards a tenant
func (s *Service) Create(ctx context.Context, req CreateTenantRequest) (*TenantResponse, error) {
	existing, err := s.tenants.FindByCode(ctx, req.Code)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A tenant with this code already exists")
	}

	t, err := tenant.New(req.Code, req.Name)
	if err != nil {
		return nil, err
	}

	if req.Tier != "" {
		if err := t.ChangeTier(tenant.Tier(req.Tier)); err != nil {
			return nil, err
		}
	}
	if req.ContactName != "" || req.ContactEmail != "" || req.ContactPhone != "" || req.Website != "" {
		if err := t.UpdateProfile(req.Name, req.ContactName, req.ContactEmail, req.ContactPhone, req.Website); err != nil {
			return nil, err
		}
	}

	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("tenant created",
		zap.String("tenant_id", t.ID.String()),
		zap.String("code", t.Code))
	return ToTenantResponse(t), nil
}

// Get returns a tenant by ID
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

// GetByCode resolves a tenant by its short code
func (s *Service) GetByCode(ctx context.Context, code string) (*TenantResponse, error) {
	t, err := s.tenants.FindByCode(ctx, strings.ToLower(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

// List returns one page of tenants
func (s *Service) List(ctx context.Context, req ListRequest) (*shared.Paginated[TenantResponse], error) {
	filter := tenant.ListFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			Search:   strings.TrimSpace(req.Search),
			OrderBy:  req.SortBy,
			OrderDir: req.SortDir,
		},
		Status: tenant.Status(req.Status),
		Tier:   tenant.Tier(req.Tier),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	tenants, total, err := s.tenants.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]TenantResponse, 0, len(tenants))
	for i := range tenants {
		items = append(items, *ToTenantResponse(&tenants[i]))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Update applies the profile form to a tenant
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateTenantRequest) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.UpdateProfile(req.Name, req.ContactName, req.ContactEmail, req.ContactPhone, req.Website); err != nil {
		return nil, err
	}
	t.UpdateAddress(req.AddressLine1, req.AddressLine2, req.City, req.Province, req.PostalCode)

	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

// UpdateSettings replaces the tenant settings document atomically
func (s *Service) UpdateSettings(ctx context.Context, id uuid.UUID, settings tenant.Settings) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.ReplaceSettings(settings); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

// Suspend moves an active tenant into the suspended state
func (s *Service) Suspend(ctx context.Context, id uuid.UUID, req StatusActionRequest) (*TenantResponse, error) {
	return s.transition(ctx, id, "suspended", func(t *tenant.Tenant) error {
		return t.Suspend(req.Reason)
	})
}

// Reactivate brings a suspended tenant back to active
func (s *Service) Reactivate(ctx context.Context, id uuid.UUID) (*TenantResponse, error) {
	return s.transition(ctx, id, "active", func(t *tenant.Tenant) error {
		return t.Reactivate()
	})
}

// Cancel ends the subscription; cancelled is terminal
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, req StatusActionRequest) (*TenantResponse, error) {
	return s.transition(ctx, id, "cancelled", func(t *tenant.Tenant) error {
		return t.Cancel(req.Reason)
	})
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, target string, apply func(*tenant.Tenant) error) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := apply(t); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}

	s.log.Info("tenant status changed",
		zap.String("tenant_id", t.ID.String()),
		zap.String("status", target))
	return ToTenantResponse(t), nil
}

// ChangeTier changes the subscription tier
func (s *Service) ChangeTier(ctx context.Context, id uuid.UUID, req ChangeTierRequest) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := t.ChangeTier(tenant.Tier(req.Tier)); err != nil {
		return nil, err
	}
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

// UploadLogo stores a logo image and records its URL on the tenant
func (s *Service) UploadLogo(ctx context.Context, id uuid.UUID, filename string, data []byte) (*TenantResponse, error) {
	t, err := s.tenants.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ext := strings.ToLower(filepath.Ext(filename))
	contentType, ok := logoContentTypes[ext]
	if !ok {
		return nil, shared.ErrInvalidFileType
	}
	if len(data) == 0 {
		return nil, shared.NewDomainError("EMPTY_FILE", "Logo file is empty")
	}

	key := fmt.Sprintf("tenants/%s/logo%s", t.ID, ext)
	url, err := s.store.Upload(ctx, key, data, contentType)
	if err != nil {
		return nil, err
	}

	t.SetLogoURL(url)
	if err := s.tenants.Save(ctx, t); err != nil {
		return nil, err
	}
	return ToTenantResponse(t), nil
}

// Delete removes a tenant and its users
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.tenants.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("tenant deleted", zap.String("tenant_id", id.String()))
	return nil
}
