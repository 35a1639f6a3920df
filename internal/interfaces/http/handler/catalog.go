package handler

import (
	"strings"

	catalogapp "github.com/dispensa/backend/internal/application/catalog"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/fileimport"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// CatalogHandler handles provincial catalog API endpoints
type CatalogHandler struct {
	BaseHandler
	catalogService *catalogapp.Service
}

// NewCatalogHandler creates a new CatalogHandler
func NewCatalogHandler(catalogService *catalogapp.Service) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService}
}

// Upload godoc
// @Summary      Upload a provincial catalog file
// @Description  Ingest a CSV or Excel catalog feed for a province, upserting by SKU
// @Tags         catalog
// @Accept       multipart/form-data
// @Produce      json
// @Param        code path string true "Province code (ON, BC, AB)"
// @Param        file formData file true "Catalog file (.csv, .xlsx, .xls)"
// @Success      200 {object} dto.Response{data=catalogapp.ImportResult}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      413 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /province/catalog/{code}/upload [post]
func (h *CatalogHandler) Upload(c *gin.Context) {
	province := c.Param("code")

	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.BadRequest(c, "A catalog file is required")
		return
	}

	if !fileimport.SupportedExtension(fileHeader.Filename) {
		h.HandleError(c, shared.ErrInvalidFileType)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.InternalError(c, "Failed to read uploaded file")
		return
	}
	defer file.Close()

	result, err := h.catalogService.Import(c.Request.Context(), province, fileHeader.Filename, file)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// Browse godoc
// @Summary      Browse a provincial catalog
// @Description  List catalog products for a province with search, category filter and paging
// @Tags         catalog
// @Produce      json
// @Param        code path string true "Province code (ON, BC, AB)"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size (max 100)"
// @Param        search query string false "Matches product name, brand or SKU"
// @Param        category query string false "Category filter"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductListResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /province/catalog/{code}/products [get]
func (h *CatalogHandler) Browse(c *gin.Context) {
	province := c.Param("code")

	var req catalogapp.BrowseRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.catalogService.Browse(c.Request.Context(), province, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetProduct godoc
// @Summary      Get catalog product details
// @Tags         catalog
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductDetailResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /province/catalog/products/{id} [get]
func (h *CatalogHandler) GetProduct(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.catalogService.GetProduct(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, product)
}

// Stats godoc
// @Summary      Get provincial catalog statistics
// @Description  Product and category counts plus the last ingestion time; served from cache when warm
// @Tags         catalog
// @Produce      json
// @Param        code path string true "Province code (ON, BC, AB)"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /province/catalog/{code}/stats [get]
func (h *CatalogHandler) Stats(c *gin.Context) {
	province := strings.ToUpper(c.Param("code"))

	stats, err := h.catalogService.Stats(c.Request.Context(), province)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, stats)
}

// RegisterRoutes registers catalog routes. Uploads are restricted to
// platform admins; browsing is open to every authenticated user.
func (h *CatalogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	catalog := rg.Group("/province/catalog")
	{
		catalog.GET("/products/:id", h.GetProduct)
		catalog.POST("/:code/upload", middleware.RequireSuperAdmin(), h.Upload)
		catalog.GET("/:code/products", h.Browse)
		catalog.GET("/:code/stats", h.Stats)
	}
}
