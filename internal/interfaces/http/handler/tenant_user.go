package handler

import (
	"net/http"

	tenantapp "github.com/dispensa/backend/internal/application/tenant"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// requireTenantScope ensures tenant-bound callers only touch their own
// tenant. Super admins pass for any tenant.
func (h *TenantHandler) requireTenantScope(c *gin.Context, tenantID uuid.UUID) bool {
	claims := middleware.GetClaims(c)
	if claims == nil {
		h.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Authentication required")
		return false
	}
	if claims.IsSuperAdmin() || claims.TenantID == tenantID.String() {
		return true
	}
	h.Error(c, http.StatusForbidden, "FORBIDDEN", "Cannot access another tenant")
	return false
}

// ListUsers godoc
// @Summary      List a tenant's users
// @Tags         tenant-users
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=[]tenantapp.UserResponse}
// @Security     BearerAuth
// @Router       /tenants/{id}/users [get]
func (h *TenantHandler) ListUsers(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	if !h.requireTenantScope(c, tenantID) {
		return
	}

	users, err := h.tenantService.ListUsers(c.Request.Context(), tenantID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, users)
}

// CreateUser godoc
// @Summary      Create a tenant user
// @Tags         tenant-users
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body tenantapp.CreateUserRequest true "User creation request"
// @Success      201 {object} dto.Response{data=tenantapp.UserResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/users [post]
func (h *TenantHandler) CreateUser(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	if !h.requireTenantScope(c, tenantID) {
		return
	}

	var req tenantapp.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.tenantService.CreateUser(c.Request.Context(), tenantID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// UpdateUser godoc
// @Summary      Update a tenant user's role, store or active flag
// @Tags         tenant-users
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        userId path string true "User ID"
// @Param        request body tenantapp.UpdateUserRequest true "Partial user update"
// @Success      200 {object} dto.Response{data=tenantapp.UserResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/users/{userId} [put]
func (h *TenantHandler) UpdateUser(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if !h.requireTenantScope(c, tenantID) {
		return
	}

	var req tenantapp.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	user, err := h.tenantService.UpdateUser(c.Request.Context(), tenantID, userID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// ResetUserPassword godoc
// @Summary      Reset a tenant user's password
// @Description  Generates a temporary password, stores its hash and returns it once
// @Tags         tenant-users
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        userId path string true "User ID"
// @Success      200 {object} dto.Response{data=tenantapp.TempPasswordResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/users/{userId}/reset-password [post]
func (h *TenantHandler) ResetUserPassword(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if !h.requireTenantScope(c, tenantID) {
		return
	}

	resp, err := h.tenantService.ResetUserPassword(c.Request.Context(), tenantID, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// DeleteUser godoc
// @Summary      Remove a user from a tenant
// @Tags         tenant-users
// @Param        id path string true "Tenant ID"
// @Param        userId path string true "User ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/users/{userId} [delete]
func (h *TenantHandler) DeleteUser(c *gin.Context) {
	tenantID, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}
	userID, ok := parseIDParam(c, "userId")
	if !ok {
		h.BadRequest(c, "Invalid user ID")
		return
	}
	if !h.requireTenantScope(c, tenantID) {
		return
	}

	if err := h.tenantService.DeleteUser(c.Request.Context(), tenantID, userID); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
