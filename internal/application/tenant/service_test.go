package tenant

import (
	"context"
	"strings"
	"testing"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/dispensa/backend/internal/infrastructure/storage"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTenantRepo struct {
	tenants map[uuid.UUID]*tenant.Tenant
}

func newFakeTenantRepo() *fakeTenantRepo {
	return &fakeTenantRepo{tenants: make(map[uuid.UUID]*tenant.Tenant)}
}

func (r *fakeTenantRepo) FindByID(_ context.Context, id uuid.UUID) (*tenant.Tenant, error) {
	t, ok := r.tenants[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *t
	return &copied, nil
}

func (r *fakeTenantRepo) FindByCode(_ context.Context, code string) (*tenant.Tenant, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, t := range r.tenants {
		if t.Code == code {
			copied := *t
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeTenantRepo) FindAll(_ context.Context, filter tenant.ListFilter) ([]tenant.Tenant, int64, error) {
	var out []tenant.Tenant
	for _, t := range r.tenants {
		if filter.Status != "" && t.Status != filter.Status {
			continue
		}
		out = append(out, *t)
	}
	return out, int64(len(out)), nil
}

func (r *fakeTenantRepo) Save(_ context.Context, t *tenant.Tenant) error {
	copied := *t
	r.tenants[t.ID] = &copied
	return nil
}

func (r *fakeTenantRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.tenants[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.tenants, id)
	return nil
}

type fakeUserRepo struct {
	users map[uuid.UUID]*tenant.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*tenant.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, tenantID, id uuid.UUID) (*tenant.User, error) {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return nil, shared.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, tenantID uuid.UUID, email string) (*tenant.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range r.users {
		if u.TenantID == tenantID && u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeUserRepo) FindAllForTenant(_ context.Context, tenantID uuid.UUID) ([]tenant.User, error) {
	var out []tenant.User
	for _, u := range r.users {
		if u.TenantID == tenantID {
			out = append(out, *u)
		}
	}
	return out, nil
}

func (r *fakeUserRepo) Save(_ context.Context, u *tenant.User) error {
	copied := *u
	r.users[u.ID] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, tenantID, id uuid.UUID) error {
	u, ok := r.users[id]
	if !ok || u.TenantID != tenantID {
		return shared.ErrNotFound
	}
	delete(r.users, id)
	return nil
}

func newTestService() (*Service, *fakeTenantRepo, *fakeUserRepo) {
	tenants := newFakeTenantRepo()
	users := newFakeUserRepo()
	svc := NewService(tenants, users, storage.NewStubObjectStorage(), nil)
	return svc, tenants, users
}

func TestServiceCreate(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	resp, err := svc.Create(ctx, CreateTenantRequest{
		Code:         "green-leaf",
		Name:         "Green Leaf Cannabis",
		Tier:         "premium",
		ContactName:  "Dana Moss",
		ContactEmail: "dana@greenleaf.ca",
		ContactPhone: "4165550123",
	})
	require.NoError(t, err)
	assert.Equal(t, "green-leaf", resp.Code)
	assert.Equal(t, "premium", string(resp.Tier))
	assert.Equal(t, "active", string(resp.Status))
	assert.Equal(t, "(416) 555-0123", resp.ContactPhone)
}

func TestServiceCreateDuplicateCode(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Other Shop"})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_EXISTS", derr.Code)
}

func TestServiceStatusLifecycle(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	resp, err := svc.Suspend(ctx, created.ID, StatusActionRequest{Reason: "payment overdue"})
	require.NoError(t, err)
	assert.Equal(t, "suspended", string(resp.Status))
	assert.Equal(t, "payment overdue", resp.StatusReason)

	resp, err = svc.Reactivate(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", string(resp.Status))

	resp, err = svc.Cancel(ctx, created.ID, StatusActionRequest{Reason: "closed down"})
	require.NoError(t, err)
	assert.Equal(t, "cancelled", string(resp.Status))

	// cancelled is terminal
	_, err = svc.Reactivate(ctx, created.ID)
	require.Error(t, err)
}

func TestServiceUploadLogo(t *testing.T) {
	svc, tenants, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	resp, err := svc.UploadLogo(ctx, created.ID, "logo.PNG", []byte("png-bytes"))
	require.NoError(t, err)
	assert.Contains(t, resp.LogoURL, "tenants/"+created.ID.String()+"/logo.png")

	stored, err := tenants.FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, resp.LogoURL, stored.LogoURL)
}

func TestServiceUploadLogoRejectsNonImage(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	_, err = svc.UploadLogo(ctx, created.ID, "logo.exe", []byte("nope"))
	assert.ErrorIs(t, err, shared.ErrInvalidFileType)
}

func TestServiceCreateUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, created.ID, CreateUserRequest{
		Email:    "Manager@GreenLeaf.ca",
		Name:     "Robin Clarke",
		Password: "s3cretpass",
		Role:     "store_manager",
	})
	require.NoError(t, err)
	assert.Equal(t, "manager@greenleaf.ca", user.Email)
	assert.Equal(t, "store_manager", string(user.Role))
	assert.True(t, user.Active)

	_, err = svc.CreateUser(ctx, created.ID, CreateUserRequest{
		Email:    "manager@greenleaf.ca",
		Name:     "Someone Else",
		Password: "s3cretpass",
		Role:     "staff",
	})
	require.Error(t, err)
	var derr *shared.DomainError
	require.ErrorAs(t, err, &derr)
	assert.Equal(t, "ALREADY_EXISTS", derr.Code)
}

func TestServiceUpdateUser(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, created.ID, CreateUserRequest{
		Email:    "staff@greenleaf.ca",
		Name:     "Jess Park",
		Password: "s3cretpass",
		Role:     "staff",
	})
	require.NoError(t, err)

	role := "tenant_admin"
	active := false
	updated, err := svc.UpdateUser(ctx, created.ID, user.ID, UpdateUserRequest{Role: &role, Active: &active})
	require.NoError(t, err)
	assert.Equal(t, "tenant_admin", string(updated.Role))
	assert.False(t, updated.Active)
}

func TestServiceUserScopedToTenant(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	first, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, CreateTenantRequest{Code: "blue-sky", Name: "Blue Sky"})
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, first.ID, CreateUserRequest{
		Email:    "staff@greenleaf.ca",
		Name:     "Jess Park",
		Password: "s3cretpass",
		Role:     "staff",
	})
	require.NoError(t, err)

	err = svc.DeleteUser(ctx, second.ID, user.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceGetByCode(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	resp, err := svc.GetByCode(ctx, "  Green-Leaf ")
	require.NoError(t, err)
	assert.Equal(t, created.ID, resp.ID)

	_, err = svc.GetByCode(ctx, "no-such-shop")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestServiceResetUserPassword(t *testing.T) {
	svc, _, users := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	user, err := svc.CreateUser(ctx, created.ID, CreateUserRequest{
		Email:    "staff@greenleaf.ca",
		Name:     "Jess Park",
		Password: "s3cretpass",
		Role:     "staff",
	})
	require.NoError(t, err)

	resp, err := svc.ResetUserPassword(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.Len(t, resp.TemporaryPassword, 16)

	stored, err := users.FindByID(ctx, created.ID, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.CheckPassword(resp.TemporaryPassword))
	assert.False(t, stored.CheckPassword("s3cretpass"))
}

func TestServiceDeleteTenant(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTenantRequest{Code: "green-leaf", Name: "Green Leaf"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, created.ID))
	_, err = svc.Get(ctx, created.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
