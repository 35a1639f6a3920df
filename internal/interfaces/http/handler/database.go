package handler

import (
	dbadminapp "github.com/dispensa/backend/internal/application/dbadmin"
	"github.com/dispensa/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// DatabaseHandler handles the table browser endpoints. Super admin
// only; writes to protected tables and non-SELECT queries are refused
// below this layer.
type DatabaseHandler struct {
	BaseHandler
	adminService *dbadminapp.Service
}

// NewDatabaseHandler creates a new DatabaseHandler
func NewDatabaseHandler(adminService *dbadminapp.Service) *DatabaseHandler {
	return &DatabaseHandler{adminService: adminService}
}

// ListTables godoc
// @Summary      List database tables with row counts
// @Tags         database
// @Produce      json
// @Success      200 {object} dto.Response
// @Security     BearerAuth
// @Router       /database/tables [get]
func (h *DatabaseHandler) ListTables(c *gin.Context) {
	tables, err := h.adminService.ListTables(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tables)
}

// DescribeTable godoc
// @Summary      Get a table's column metadata
// @Tags         database
// @Produce      json
// @Param        table path string true "Table name"
// @Success      200 {object} dto.Response
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/tables/{table}/columns [get]
func (h *DatabaseHandler) DescribeTable(c *gin.Context) {
	columns, err := h.adminService.DescribeTable(c.Request.Context(), c.Param("table"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, columns)
}

// FetchRows godoc
// @Summary      Page through a table's rows
// @Tags         database
// @Produce      json
// @Param        table path string true "Table name"
// @Param        page query int false "Page number"
// @Param        limit query int false "Page size (max 200)"
// @Param        search query string false "Matched across text columns"
// @Success      200 {object} dto.Response{data=dbadminapp.RowsResponse}
// @Security     BearerAuth
// @Router       /database/tables/{table}/rows [get]
func (h *DatabaseHandler) FetchRows(c *gin.Context) {
	var req dbadminapp.RowsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.adminService.FetchRows(c.Request.Context(), c.Param("table"), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// InsertRow godoc
// @Summary      Insert a row
// @Tags         database
// @Accept       json
// @Param        table path string true "Table name"
// @Param        request body dbadminapp.MutateRowRequest true "Column values"
// @Success      201 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/tables/{table}/rows [post]
func (h *DatabaseHandler) InsertRow(c *gin.Context) {
	var req dbadminapp.MutateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.adminService.InsertRow(c.Request.Context(), c.Param("table"), req.Values); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, nil)
}

// UpdateRow godoc
// @Summary      Update a row by its key column value
// @Tags         database
// @Accept       json
// @Param        table path string true "Table name"
// @Param        key path string true "Key column value"
// @Param        request body dbadminapp.MutateRowRequest true "Column values"
// @Success      200 {object} dto.Response
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/tables/{table}/rows/{key} [put]
func (h *DatabaseHandler) UpdateRow(c *gin.Context) {
	var req dbadminapp.MutateRowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	if err := h.adminService.UpdateRow(c.Request.Context(), c.Param("table"), c.Param("key"), req.Values); err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, nil)
}

// DeleteRow godoc
// @Summary      Delete a row by its key column value
// @Tags         database
// @Param        table path string true "Table name"
// @Param        key path string true "Key column value"
// @Success      204 "No Content"
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/tables/{table}/rows/{key} [delete]
func (h *DatabaseHandler) DeleteRow(c *gin.Context) {
	if err := h.adminService.DeleteRow(c.Request.Context(), c.Param("table"), c.Param("key")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Truncate godoc
// @Summary      Remove all rows from a table
// @Tags         database
// @Param        table path string true "Table name"
// @Success      204 "No Content"
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/tables/{table}/truncate [post]
func (h *DatabaseHandler) Truncate(c *gin.Context) {
	if err := h.adminService.Truncate(c.Request.Context(), c.Param("table")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// DropTable godoc
// @Summary      Drop a table
// @Tags         database
// @Param        table path string true "Table name"
// @Success      204 "No Content"
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/tables/{table} [delete]
func (h *DatabaseHandler) DropTable(c *gin.Context) {
	if err := h.adminService.DropTable(c.Request.Context(), c.Param("table")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// RunQuery godoc
// @Summary      Run a read-only ad hoc query
// @Description  Only single SELECT or WITH statements are accepted
// @Tags         database
// @Accept       json
// @Produce      json
// @Param        request body dbadminapp.QueryRequest true "SQL query"
// @Success      200 {object} dto.Response{data=dbadminapp.QueryResponse}
// @Failure      403 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /database/query [post]
func (h *DatabaseHandler) RunQuery(c *gin.Context) {
	var req dbadminapp.QueryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	resp, err := h.adminService.RunQuery(c.Request.Context(), req.Query)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// RegisterRoutes registers database admin routes
func (h *DatabaseHandler) RegisterRoutes(rg *gin.RouterGroup) {
	db := rg.Group("/database", middleware.RequireSuperAdmin())
	{
		db.GET("/tables", h.ListTables)
		db.GET("/tables/:table/columns", h.DescribeTable)
		db.GET("/tables/:table/rows", h.FetchRows)
		db.POST("/tables/:table/rows", h.InsertRow)
		db.PUT("/tables/:table/rows/:key", h.UpdateRow)
		db.DELETE("/tables/:table/rows/:key", h.DeleteRow)
		db.POST("/tables/:table/truncate", h.Truncate)
		db.DELETE("/tables/:table", h.DropTable)
		db.POST("/query", h.RunQuery)
	}
}
