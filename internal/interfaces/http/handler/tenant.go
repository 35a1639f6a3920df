package handler

import (
	"context"
	"io"

	tenantapp "github.com/dispensa/backend/internal/application/tenant"
	"github.com/dispensa/backend/internal/domain/tenant"
	"github.com/dispensa/backend/internal/infrastructure/auth"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// maxLogoBytes caps logo uploads at 2 MiB
const maxLogoBytes = 2 << 20

// TenantHandler handles tenant management API endpoints
type TenantHandler struct {
	BaseHandler
	tenantService *tenantapp.Service
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *tenantapp.Service) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// Create godoc
// @Summary      Onboard a new tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        request body tenantapp.CreateTenantRequest true "Tenant creation request"
// @Success      201 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants [post]
func (h *TenantHandler) Create(c *gin.Context) {
	var req tenantapp.CreateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tenantService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List godoc
// @Summary      List tenants
// @Tags         tenants
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Page size (max 100)"
// @Param        status query string false "Status filter" Enums(active, suspended, cancelled)
// @Param        tier query string false "Tier filter"
// @Param        search query string false "Matches code, name or contact"
// @Success      200 {object} dto.Response{data=[]tenantapp.TenantResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /tenants [get]
func (h *TenantHandler) List(c *gin.Context) {
	var req tenantapp.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.tenantService.List(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @Summary      Get a tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id} [get]
func (h *TenantHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if !h.requireTenantScope(c, id) {
		return
	}

	resp, err := h.tenantService.Get(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// GetByCode godoc
// @Summary      Resolve a tenant by code
// @Description  Lets a tenant admin look up their own tenant by its short code
// @Tags         tenants
// @Produce      json
// @Param        code path string true "Tenant code"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/code/{code} [get]
func (h *TenantHandler) GetByCode(c *gin.Context) {
	resp, err := h.tenantService.GetByCode(c.Request.Context(), c.Param("code"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	if !h.requireTenantScope(c, resp.ID) {
		return
	}
	h.Success(c, resp)
}

// Update godoc
// @Summary      Update a tenant's profile and address
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body tenantapp.UpdateTenantRequest true "Tenant update request"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id} [put]
func (h *TenantHandler) Update(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if !h.requireTenantScope(c, id) {
		return
	}

	var req tenantapp.UpdateTenantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tenantService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Suspend godoc
// @Summary      Suspend a tenant
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body tenantapp.StatusActionRequest false "Optional reason"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/suspend [post]
func (h *TenantHandler) Suspend(c *gin.Context) {
	h.statusAction(c, h.tenantService.Suspend)
}

// Reactivate godoc
// @Summary      Reactivate a suspended tenant
// @Tags         tenants
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/reactivate [post]
func (h *TenantHandler) Reactivate(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	resp, err := h.tenantService.Reactivate(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel a tenant's subscription
// @Description  Cancelled is terminal; the tenant cannot be reactivated
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body tenantapp.StatusActionRequest false "Optional reason"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/cancel [post]
func (h *TenantHandler) Cancel(c *gin.Context) {
	h.statusAction(c, h.tenantService.Cancel)
}

// statusAction binds the optional reason body and applies a lifecycle
// transition. An empty body is treated as no reason.
func (h *TenantHandler) statusAction(c *gin.Context, apply func(context.Context, uuid.UUID, tenantapp.StatusActionRequest) (*tenantapp.TenantResponse, error)) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tenantapp.StatusActionRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			h.BindingError(c, err)
			return
		}
	}

	resp, err := apply(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// ChangeTier godoc
// @Summary      Change a tenant's subscription tier
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body tenantapp.ChangeTierRequest true "Target tier"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Security     BearerAuth
// @Router       /tenants/{id}/tier [post]
func (h *TenantHandler) ChangeTier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	var req tenantapp.ChangeTierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tenantService.ChangeTier(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UpdateSettings godoc
// @Summary      Replace a tenant's settings document
// @Tags         tenants
// @Accept       json
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        request body tenant.Settings true "Full settings document"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/settings [put]
func (h *TenantHandler) UpdateSettings(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if !h.requireTenantScope(c, id) {
		return
	}

	var settings tenant.Settings
	if err := c.ShouldBindJSON(&settings); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.tenantService.UpdateSettings(c.Request.Context(), id, settings)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// UploadLogo godoc
// @Summary      Upload a tenant logo
// @Tags         tenants
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Tenant ID"
// @Param        file formData file true "Logo image (.png, .jpg, .svg, .webp)"
// @Success      200 {object} dto.Response{data=tenantapp.TenantResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id}/logo [post]
func (h *TenantHandler) UploadLogo(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if !h.requireTenantScope(c, id) {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A logo file is required")
		return
	}
	if fileHeader.Size > maxLogoBytes {
		h.Error(c, 413, "FILE_TOO_LARGE", "Logo must be 2 MB or smaller")
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxLogoBytes+1))
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}

	resp, err := h.tenantService.UploadLogo(c.Request.Context(), id, fileHeader.Filename, data)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a tenant and its users
// @Tags         tenants
// @Param        id path string true "Tenant ID"
// @Success      204 "No Content"
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /tenants/{id} [delete]
func (h *TenantHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid tenant ID")
		return
	}

	if err := h.tenantService.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RegisterRoutes registers tenant routes. Onboarding, lifecycle and
// tier changes are platform admin concerns; tenant admins may read and
// update their own tenant and manage its users.
func (h *TenantHandler) RegisterRoutes(rg *gin.RouterGroup) {
	tenants := rg.Group("/tenants")
	{
		admin := tenants.Group("", middleware.RequireSuperAdmin())
		{
			admin.POST("", h.Create)
			admin.GET("", h.List)
			admin.DELETE("/:id", h.Delete)
			admin.POST("/:id/suspend", h.Suspend)
			admin.POST("/:id/reactivate", h.Reactivate)
			admin.POST("/:id/cancel", h.Cancel)
			admin.POST("/:id/tier", h.ChangeTier)
		}

		scoped := tenants.Group("", middleware.RequireRole(auth.RoleTenantAdmin))
		{
			scoped.GET("/code/:code", h.GetByCode)
			scoped.GET("/:id", h.Get)
			scoped.PUT("/:id", h.Update)
			scoped.PUT("/:id/settings", h.UpdateSettings)
			scoped.POST("/:id/logo", h.UploadLogo)

			users := scoped.Group("/:id/users")
			{
				users.GET("", h.ListUsers)
				users.POST("", h.CreateUser)
				users.PUT("/:userId", h.UpdateUser)
				users.POST("/:userId/reset-password", h.ResetUserPassword)
				users.DELETE("/:userId", h.DeleteUser)
			}
		}
	}
}
