package tenant

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListUsers returns every user belonging to a tenant
func (s *Service) ListUsers(ctx context.Context, tenantID uuid.UUID) ([]UserResponse, error) {
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return nil, err
	}

	users, err := s.users.FindAllForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	items := make([]UserResponse, 0, len(users))
	for i := range users {
		items = append(items, *ToUserResponse(&users[i]))
	}
	return items, nil
}

// CreateUser adds a user to a tenant
func (s *Service) CreateUser(ctx context.Context, tenantID uuid.UUID, req CreateUserRequest) (*UserResponse, error) {
	if _, err := s.tenants.FindByID(ctx, tenantID); err != nil {
		return nil, err
	}

	existing, err := s.users.FindByEmail(ctx, tenantID, req.Email)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A user with this email already exists")
	}

	u, err := tenant.NewUser(tenantID, req.Email, req.Name, req.Password, tenant.Role(req.Role))
	if err != nil {
		return nil, err
	}
	if req.StoreID != nil {
		if err := u.AssignStore(*req.StoreID); err != nil {
			return nil, err
		}
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("tenant user created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", u.ID.String()),
		zap.String("role", string(u.Role)))
	return ToUserResponse(u), nil
}

// UpdateUser applies partial changes to a tenant user
func (s *Service) UpdateUser(ctx context.Context, tenantID, userID uuid.UUID, req UpdateUserRequest) (*UserResponse, error) {
	u, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	if req.Role != nil {
		if err := u.ChangeRole(tenant.Role(*req.Role)); err != nil {
			return nil, err
		}
	}
	if req.StoreID != nil {
		if err := u.AssignStore(*req.StoreID); err != nil {
			return nil, err
		}
	}
	if req.Active != nil {
		u.SetActive(*req.Active)
	}

	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// ResetUserPassword replaces a user's password with a generated
// temporary one and returns it so the admin can hand it over.
func (s *Service) ResetUserPassword(ctx context.Context, tenantID, userID uuid.UUID) (*TempPasswordResponse, error) {
	u, err := s.users.FindByID(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	password, err := generateTempPassword()
	if err != nil {
		return nil, err
	}

	if err := u.ResetPassword(password); err != nil {
		return nil, err
	}
	if err := s.users.Save(ctx, u); err != nil {
		return nil, err
	}

	s.log.Info("tenant user password reset",
		zap.String("tenant_id", tenantID.String()),
		zap.String("user_id", userID.String()))
	return &TempPasswordResponse{TemporaryPassword: password}, nil
}

// tempPasswordAlphabet avoids look-alike characters
const tempPasswordAlphabet = "abcdefghjkmnpqrstuvwxyzABCDEFGHJKMNPQRSTUVWXYZ23456789"

const tempPasswordLength = 16

func generateTempPassword() (string, error) {
	buf := make([]byte, tempPasswordLength)
	max := big.NewInt(int64(len(tempPasswordAlphabet)))
	for i := range buf {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		buf[i] = tempPasswordAlphabet[n.Int64()]
	}
	return string(buf), nil
}

// DeleteUser removes a user from a tenant
func (s *Service) DeleteUser(ctx context.Context, tenantID, userID uuid.UUID) error {
	return s.users.Delete(ctx, tenantID, userID)
}
