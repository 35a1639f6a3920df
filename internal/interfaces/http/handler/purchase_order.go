package handler

import (
	purchasingapp "github.com/dispensa/backend/internal/application/purchasing"
	"github.com/dispensa/backend/internal/infrastructure/auth"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// PurchaseOrderHandler handles store purchase order API endpoints.
// Every route is store-scoped: the acting store comes from the token
// or the X-Store-ID header.
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *purchasingapp.Service
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *purchasingapp.Service) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// List godoc
// @Summary      List the store's purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        X-Store-ID header string false "Acting store (tenant admins)"
// @Param        page query int false "Page number"
// @Param        status query string false "Status filter"
// @Success      200 {object} dto.Response{data=[]purchasingapp.OrderResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var req purchasingapp.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.orderService.List(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Get godoc
// @Summary      Get a purchase order with its line items
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.Get(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Create godoc
// @Summary      Create a purchase order
// @Description  Creates a draft order with its items; set submit to move it straight to pending
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreateOrderRequest true "Order creation request"
// @Success      201 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req purchasingapp.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orderService.Create(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// Transition godoc
// @Summary      Move an order to a new status
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body purchasingapp.TransitionRequest true "Target status"
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/{id}/status [put]
func (h *PurchaseOrderHandler) Transition(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req purchasingapp.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orderService.Transition(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Receive godoc
// @Summary      Record received quantities
// @Description  Records per-line receipts; the order becomes partial until every line is fully received
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body purchasingapp.ReceiveRequest true "Quantities keyed by line item ID"
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req purchasingapp.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orderService.Receive(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// MarkFullyReceived godoc
// @Summary      Close out a pending or partially received order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/{id}/receive-all [post]
func (h *PurchaseOrderHandler) MarkFullyReceived(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	resp, err := h.orderService.MarkFullyReceived(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Cancel godoc
// @Summary      Cancel a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID"
// @Param        request body purchasingapp.CancelRequest true "Cancel reason"
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	var req purchasingapp.CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.orderService.Cancel(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Delete godoc
// @Summary      Delete a draft purchase order
// @Tags         purchase-orders
// @Param        id path string true "Order ID"
// @Success      204 "No Content"
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid order ID")
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Summary godoc
// @Summary      Get the store's purchase order summary
// @Description  Pending and in-transit counts, this month's orders and the open order value
// @Tags         purchase-orders
// @Produce      json
// @Success      200 {object} dto.Response{data=purchasingapp.SummaryResponse}
// @Security     BearerAuth
// @Router       /inventory/purchase-orders/summary [get]
func (h *PurchaseOrderHandler) Summary(c *gin.Context) {
	resp, err := h.orderService.Summary(c.Request.Context(), middleware.GetTenantID(c), middleware.GetStoreID(c))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers purchase order routes. Receiving and
// cancelling need store manager rights; staff can view.
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/inventory/purchase-orders", middleware.ResolveTenant(), middleware.ResolveStore())
	{
		orders.GET("", h.List)
		orders.GET("/summary", h.Summary)
		orders.GET("/:id", h.Get)

		manage := orders.Group("", middleware.RequireRole(auth.RoleTenantAdmin, auth.RoleStoreManager))
		{
			manage.POST("", h.Create)
			manage.DELETE("/:id", h.Delete)
			manage.PUT("/:id/status", h.Transition)
			manage.POST("/:id/receive", h.Receive)
			manage.POST("/:id/receive-all", h.MarkFullyReceived)
			manage.POST("/:id/cancel", h.Cancel)
		}
	}
}
