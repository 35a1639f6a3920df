package tenant

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser_Validation(t *testing.T) {
	tenantID := uuid.New()

	_, err := NewUser(tenantID, "not-an-email", "Pat", "password123", RoleStaff)
	assert.Error(t, err)

	_, err = NewUser(tenantID, "pat@example.com", "", "password123", RoleStaff)
	assert.Error(t, err)

	_, err = NewUser(tenantID, "pat@example.com", "Pat", "short", RoleStaff)
	assert.Error(t, err)

	_, err = NewUser(tenantID, "pat@example.com", "Pat", "password123", Role("owner"))
	assert.Error(t, err)

	_, err = NewUser(uuid.Nil, "pat@example.com", "Pat", "password123", RoleStaff)
	assert.Error(t, err)

	user, err := NewUser(tenantID, "Pat@Example.com", "Pat", "password123", RoleStoreManager)
	require.NoError(t, err)
	assert.Equal(t, "pat@example.com", user.Email)
	assert.True(t, user.Active)
	assert.True(t, user.CheckPassword("password123"))
	assert.False(t, user.CheckPassword("wrong-password"))
}

func TestUser_ChangeRole(t *testing.T) {
	user, err := NewUser(uuid.New(), "pat@example.com", "Pat", "password123", RoleStaff)
	require.NoError(t, err)

	require.NoError(t, user.ChangeRole(RoleTenantAdmin))
	assert.Equal(t, RoleTenantAdmin, user.Role)

	assert.Error(t, user.ChangeRole(Role("super_admin")))
}

func TestUser_ResetPassword(t *testing.T) {
	user, err := NewUser(uuid.New(), "pat@example.com", "Pat", "password123", RoleStaff)
	require.NoError(t, err)

	assert.Error(t, user.ResetPassword("short"))
	require.NoError(t, user.ResetPassword("newpassword456"))
	assert.True(t, user.CheckPassword("newpassword456"))
	assert.False(t, user.CheckPassword("password123"))
}

func TestUser_AssignStore(t *testing.T) {
	user, err := NewUser(uuid.New(), "pat@example.com", "Pat", "password123", RoleStoreManager)
	require.NoError(t, err)

	assert.Error(t, user.AssignStore(uuid.Nil))

	storeID := uuid.New()
	require.NoError(t, user.AssignStore(storeID))
	require.NotNil(t, user.StoreID)
	assert.Equal(t, storeID, *user.StoreID)
}
