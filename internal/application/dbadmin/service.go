// Package dbadmin exposes the database table browser used by platform
// operators. Every operation is restricted to super admins at the API
// layer; this service additionally refuses writes to protected tables
// and anything but read-only ad hoc queries.
package dbadmin

import (
	"context"
	"strings"

	"github.com/dispensa/backend/internal/infrastructure/persistence"
	"go.uber.org/zap"
)

// Service wraps the schema inspector with request shaping and audit logs
type Service struct {
	inspector *persistence.SchemaInspector
	log       *zap.Logger
}

// NewService creates a new dbadmin Service
func NewService(inspector *persistence.SchemaInspector, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{inspector: inspector, log: log}
}

// ListTables returns every public table with its row count
func (s *Service) ListTables(ctx context.Context) ([]persistence.TableInfo, error) {
	return s.inspector.ListTables(ctx)
}

// DescribeTable returns the column metadata for a table
func (s *Service) DescribeTable(ctx context.Context, table string) ([]persistence.ColumnInfo, error) {
	return s.inspector.ListColumns(ctx, table)
}

// FetchRows returns one page of a table's rows
func (s *Service) FetchRows(ctx context.Context, table string, req RowsRequest) (*RowsResponse, error) {
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = 50
	}
	if pageSize > 200 {
		pageSize = 200
	}

	rows, total, err := s.inspector.FetchRows(ctx, table, req.Search, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, err
	}
	return &RowsResponse{
		Table:    table,
		Rows:     rows,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// InsertRow inserts a row into a table
func (s *Service) InsertRow(ctx context.Context, table string, values map[string]any) error {
	if err := s.inspector.InsertRow(ctx, table, values); err != nil {
		return err
	}
	s.log.Info("admin row inserted", zap.String("table", table))
	return nil
}

// UpdateRow updates the row identified by its key column value
func (s *Service) UpdateRow(ctx context.Context, table string, keyValue any, values map[string]any) error {
	if err := s.inspector.UpdateRow(ctx, table, keyValue, values); err != nil {
		return err
	}
	s.log.Info("admin row updated", zap.String("table", table))
	return nil
}

// DeleteRow deletes the row identified by its key column value
func (s *Service) DeleteRow(ctx context.Context, table string, keyValue any) error {
	if err := s.inspector.DeleteRow(ctx, table, keyValue); err != nil {
		return err
	}
	s.log.Warn("admin row deleted", zap.String("table", table))
	return nil
}

// Truncate removes all rows from a table
func (s *Service) Truncate(ctx context.Context, table string) error {
	if err := s.inspector.Truncate(ctx, table); err != nil {
		return err
	}
	s.log.Warn("admin table truncated", zap.String("table", table))
	return nil
}

// DropTable drops a table
func (s *Service) DropTable(ctx context.Context, table string) error {
	if err := s.inspector.DropTable(ctx, table); err != nil {
		return err
	}
	s.log.Warn("admin table dropped", zap.String("table", table))
	return nil
}

// RunQuery executes a read-only ad hoc query
func (s *Service) RunQuery(ctx context.Context, query string) (*QueryResponse, error) {
	query = strings.TrimSpace(query)
	rows, err := s.inspector.RunQuery(ctx, query)
	if err != nil {
		return nil, err
	}

	s.log.Info("admin query executed", zap.Int("rows", len(rows)))
	return &QueryResponse{Rows: rows, RowCount: len(rows)}, nil
}
