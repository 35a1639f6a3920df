package handler

import (
	"net/http"
	"testing"

	dbadminapp "github.com/dispensa/backend/internal/application/dbadmin"
	"github.com/dispensa/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestDatabaseRoutesRequireSuperAdmin(t *testing.T) {
	jwt := newJWTService()
	r := newAPIRouter(jwt, NewDatabaseHandler(dbadminapp.NewService(nil, zap.NewNop())))
	tenantID := uuid.New()

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/v1/database/tables"},
		{http.MethodGet, "/api/v1/database/tables/tenants/rows"},
		{http.MethodPost, "/api/v1/database/query"},
		{http.MethodDelete, "/api/v1/database/tables/tenants"},
	}

	for _, p := range paths {
		t.Run(p.method+" "+p.path, func(t *testing.T) {
			token := mintToken(t, jwt, auth.RoleTenantAdmin, &tenantID, nil)
			w := doRequest(t, r, p.method, p.path, token, nil)
			assert.Equal(t, http.StatusForbidden, w.Code)
			assert.Contains(t, w.Body.String(), "FORBIDDEN")
		})
	}
}

func TestDatabaseRoutesRejectAnonymous(t *testing.T) {
	jwt := newJWTService()
	r := newAPIRouter(jwt, NewDatabaseHandler(dbadminapp.NewService(nil, zap.NewNop())))

	w := doRequest(t, r, http.MethodGet, "/api/v1/database/tables", "", nil)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
