package dbadmin

// RowsRequest pages through a table's rows
type RowsRequest struct {
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"limit" binding:"omitempty,min=1,max=200"`
	Search   string `form:"search" binding:"omitempty,max=200"`
}

// RowsResponse is one page of a table's rows
type RowsResponse struct {
	Table    string           `json:"table"`
	Rows     []map[string]any `json:"rows"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	PageSize int              `json:"page_size"`
}

// MutateRowRequest inserts or updates a row
type MutateRowRequest struct {
	Values map[string]any `json:"values" binding:"required"`
}

// RowKeyRequest identifies a single row by its key column value
type RowKeyRequest struct {
	Key any `json:"key" binding:"required"`
}

// QueryRequest runs a read-only ad hoc query
type QueryRequest struct {
	Query string `json:"query" binding:"required,max=10000"`
}

// QueryResponse is the result of an ad hoc query
type QueryResponse struct {
	Rows     []map[string]any `json:"rows"`
	RowCount int              `json:"row_count"`
}
