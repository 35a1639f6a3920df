package persistence

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// protectedTables cannot be truncated or dropped through the admin API.
var protectedTables = map[string]bool{
	"schema_migrations": true,
}

// TableInfo describes one table or view of the public schema.
type TableInfo struct {
	Name     string `json:"name"`
	Kind     string `json:"kind"` // table or view
	RowCount int64  `json:"row_count"`
}

// ColumnInfo describes one column of a table.
type ColumnInfo struct {
	Name         string  `json:"name"`
	DataType     string  `json:"data_type"`
	IsNullable   bool    `json:"is_nullable"`
	Default      *string `json:"default,omitempty"`
	IsPrimaryKey bool    `json:"is_primary_key"`
}

// SchemaInspector is the persistence surface of the database admin
// module. It reads table metadata from information_schema and performs
// row operations keyed on the primary key, falling back to the first
// column for tables without one.
type SchemaInspector struct {
	db *gorm.DB
}

// NewSchemaInspector creates a new SchemaInspector
func NewSchemaInspector(db *gorm.DB) *SchemaInspector {
	return &SchemaInspector{db: db}
}

// ListTables returns the tables and views of the public schema with
// row counts, base tables first.
func (s *SchemaInspector) ListTables(ctx context.Context) ([]TableInfo, error) {
	type tableRow struct {
		TableName string
		TableType string
	}
	var rows []tableRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT table_name, table_type FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type IN ('BASE TABLE', 'VIEW')
		ORDER BY table_type, table_name`).Scan(&rows).Error; err != nil {
		return nil, err
	}

	tables := make([]TableInfo, 0, len(rows))
	for _, row := range rows {
		kind := "table"
		if row.TableType == "VIEW" {
			kind = "view"
		}
		var count int64
		if err := s.db.WithContext(ctx).
			Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s", pq.QuoteIdentifier(row.TableName))).
			Scan(&count).Error; err != nil {
			return nil, err
		}
		tables = append(tables, TableInfo{Name: row.TableName, Kind: kind, RowCount: count})
	}
	return tables, nil
}

// ListColumns returns the column metadata of a table in ordinal order.
func (s *SchemaInspector) ListColumns(ctx context.Context, table string) ([]ColumnInfo, error) {
	if err := s.requireTable(ctx, table); err != nil {
		return nil, err
	}

	type columnRow struct {
		ColumnName    string
		DataType      string
		IsNullable    string
		ColumnDefault *string
	}
	var rows []columnRow
	if err := s.db.WithContext(ctx).Raw(`
		SELECT column_name, data_type, is_nullable, column_default
		FROM information_schema.columns
		WHERE table_schema = 'public' AND table_name = ?
		ORDER BY ordinal_position`, table).Scan(&rows).Error; err != nil {
		return nil, err
	}

	pkCols, err := s.primaryKeyColumns(ctx, table)
	if err != nil {
		return nil, err
	}
	pkSet := make(map[string]bool, len(pkCols))
	for _, c := range pkCols {
		pkSet[c] = true
	}

	columns := make([]ColumnInfo, 0, len(rows))
	for _, row := range rows {
		columns = append(columns, ColumnInfo{
			Name:         row.ColumnName,
			DataType:     row.DataType,
			IsNullable:   row.IsNullable == "YES",
			Default:      row.ColumnDefault,
			IsPrimaryKey: pkSet[row.ColumnName],
		})
	}
	return columns, nil
}

// FetchRows returns one page of a table's rows plus the total count.
// Rows are ordered by the key column so paging is stable; a search
// term is matched case-insensitively across text columns.
func (s *SchemaInspector) FetchRows(ctx context.Context, table, search string, offset, limit int) ([]map[string]any, int64, error) {
	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return nil, 0, err
	}
	keyCol, _ := keyColumn(columns)

	quoted := pq.QuoteIdentifier(table)
	where, args := searchClause(columns, search)

	var total int64
	if err := s.db.WithContext(ctx).
		Raw(fmt.Sprintf("SELECT COUNT(*) FROM %s%s", quoted, where), args...).
		Scan(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []map[string]any
	query := fmt.Sprintf("SELECT * FROM %s%s ORDER BY %s LIMIT ? OFFSET ?",
		quoted, where, pq.QuoteIdentifier(keyCol))
	args = append(args, limit, offset)
	if err := s.db.WithContext(ctx).Raw(query, args...).Scan(&rows).Error; err != nil {
		return nil, 0, err
	}
	return rows, total, nil
}

// searchClause builds an ILIKE filter over the table's text columns.
func searchClause(columns []ColumnInfo, search string) (string, []any) {
	search = strings.TrimSpace(search)
	if search == "" {
		return "", nil
	}

	var parts []string
	var args []any
	pattern := "%" + search + "%"
	for _, col := range columns {
		if !isTextType(col.DataType) {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s ILIKE ?", pq.QuoteIdentifier(col.Name)))
		args = append(args, pattern)
	}
	if len(parts) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(parts, " OR "), args
}

func isTextType(dataType string) bool {
	switch dataType {
	case "text", "character varying", "character", "citext":
		return true
	}
	return false
}

// InsertRow inserts a row built from the given column values.
func (s *SchemaInspector) InsertRow(ctx context.Context, table string, values map[string]any) error {
	if err := s.requireBaseTable(ctx, table); err != nil {
		return err
	}
	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return err
	}
	if err := validateColumns(columns, values); err != nil {
		return err
	}
	if len(values) == 0 {
		return shared.NewDomainError("EMPTY_ROW", "Row must contain at least one column value")
	}

	cols := make([]string, 0, len(values))
	placeholders := make([]string, 0, len(values))
	args := make([]any, 0, len(values))
	for col, val := range values {
		cols = append(cols, pq.QuoteIdentifier(col))
		placeholders = append(placeholders, "?")
		args = append(args, val)
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		pq.QuoteIdentifier(table), strings.Join(cols, ", "), strings.Join(placeholders, ", "))
	return s.db.WithContext(ctx).Exec(query, args...).Error
}

// UpdateRow updates the row identified by keyValue. The key column is
// the first primary key column, or the first column when the table has
// none. A single key value cannot address rows of a composite-key
// table uniquely, so any key matching more than one row is rejected
// rather than applied.
func (s *SchemaInspector) UpdateRow(ctx context.Context, table string, keyValue any, values map[string]any) error {
	if err := s.requireBaseTable(ctx, table); err != nil {
		return err
	}
	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return err
	}
	if err := validateColumns(columns, values); err != nil {
		return err
	}
	if len(values) == 0 {
		return shared.NewDomainError("EMPTY_ROW", "Update must contain at least one column value")
	}

	keyCol, _ := keyColumn(columns)
	if err := s.ensureSingleMatch(ctx, table, keyCol, keyValue); err != nil {
		return err
	}

	sets := make([]string, 0, len(values))
	args := make([]any, 0, len(values)+1)
	for col, val := range values {
		sets = append(sets, fmt.Sprintf("%s = ?", pq.QuoteIdentifier(col)))
		args = append(args, val)
	}
	args = append(args, keyValue)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		pq.QuoteIdentifier(table), strings.Join(sets, ", "), pq.QuoteIdentifier(keyCol))
	result := s.db.WithContext(ctx).Exec(query, args...)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// DeleteRow deletes the row identified by keyValue, with the same key
// resolution as UpdateRow.
func (s *SchemaInspector) DeleteRow(ctx context.Context, table string, keyValue any) error {
	if err := s.requireBaseTable(ctx, table); err != nil {
		return err
	}
	columns, err := s.ListColumns(ctx, table)
	if err != nil {
		return err
	}

	keyCol, _ := keyColumn(columns)
	if err := s.ensureSingleMatch(ctx, table, keyCol, keyValue); err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?",
		pq.QuoteIdentifier(table), pq.QuoteIdentifier(keyCol))
	result := s.db.WithContext(ctx).Exec(query, keyValue)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Truncate empties a table and resets its sequences.
func (s *SchemaInspector) Truncate(ctx context.Context, table string) error {
	if protectedTables[table] {
		return shared.ErrProtectedTable
	}
	if err := s.requireBaseTable(ctx, table); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Exec(fmt.Sprintf("TRUNCATE TABLE %s RESTART IDENTITY CASCADE", pq.QuoteIdentifier(table))).
		Error
}

// DropTable drops a table and its dependent objects.
func (s *SchemaInspector) DropTable(ctx context.Context, table string) error {
	if protectedTables[table] {
		return shared.ErrProtectedTable
	}
	if err := s.requireBaseTable(ctx, table); err != nil {
		return err
	}
	return s.db.WithContext(ctx).
		Exec(fmt.Sprintf("DROP TABLE %s CASCADE", pq.QuoteIdentifier(table))).
		Error
}

// RunQuery executes a read-only query and returns its rows.
func (s *SchemaInspector) RunQuery(ctx context.Context, query string) ([]map[string]any, error) {
	if err := EnsureReadOnlyQuery(query); err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := s.db.WithContext(ctx).Raw(query).Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// writeKeywordPattern matches statement keywords that modify data or
// schema. Checked against the query with string literals and quoted
// identifiers stripped, so a column named "last_updated" or a literal
// 'insert' does not trip it.
var writeKeywordPattern = regexp.MustCompile(
	`\b(insert|update|delete|merge|truncate|drop|alter|create|grant|revoke|copy|call|do|execute|vacuum|analyze|reindex|cluster|lock|refresh|set|reset|listen|notify|into)\b`)

// EnsureReadOnlyQuery rejects anything that is not a single SELECT (or
// WITH ... SELECT) statement. Postgres allows INSERT/UPDATE/DELETE
// inside a WITH body, so the whole statement is scanned for write
// keywords, not just the prefix.
func EnsureReadOnlyQuery(query string) error {
	trimmed := strings.TrimSpace(query)
	if trimmed == "" {
		return shared.ErrRestrictedQuery
	}

	// A single trailing semicolon is fine; anything after one is not.
	trimmed = strings.TrimRight(trimmed, "; \t\n\r")
	if strings.Contains(trimmed, ";") {
		return shared.ErrRestrictedQuery
	}

	lowered := strings.ToLower(trimmed)
	if !strings.HasPrefix(lowered, "select") && !strings.HasPrefix(lowered, "with") {
		return shared.ErrRestrictedQuery
	}
	if writeKeywordPattern.MatchString(stripQuoted(lowered)) {
		return shared.ErrRestrictedQuery
	}
	return nil
}

// stripQuoted blanks out single-quoted literals and double-quoted
// identifiers, honoring ” and "" escapes.
func stripQuoted(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				if i+1 < len(s) && s[i+1] == quote {
					i++
					continue
				}
				quote = 0
			}
			continue
		}
		if c == '\'' || c == '"' {
			quote = c
			b.WriteByte(' ')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// keyColumn picks the column used to identify single rows: the primary
// key when one exists, otherwise the first column.
func keyColumn(columns []ColumnInfo) (string, bool) {
	for _, col := range columns {
		if col.IsPrimaryKey {
			return col.Name, true
		}
	}
	if len(columns) == 0 {
		return "", false
	}
	return columns[0].Name, false
}

func validateColumns(columns []ColumnInfo, values map[string]any) error {
	known := make(map[string]bool, len(columns))
	for _, col := range columns {
		known[col.Name] = true
	}
	for col := range values {
		if !known[col] {
			return shared.NewDomainError("UNKNOWN_COLUMN", fmt.Sprintf("Table has no column '%s'", col))
		}
	}
	return nil
}

// requireTable accepts base tables and views; reads work on both.
func (s *SchemaInspector) requireTable(ctx context.Context, table string) error {
	var count int64
	if err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type IN ('BASE TABLE', 'VIEW') AND table_name = ?`,
		table).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// requireBaseTable guards write operations, which views do not accept.
func (s *SchemaInspector) requireBaseTable(ctx context.Context, table string) error {
	var count int64
	if err := s.db.WithContext(ctx).Raw(`
		SELECT COUNT(*) FROM information_schema.tables
		WHERE table_schema = 'public' AND table_type = 'BASE TABLE' AND table_name = ?`,
		table).Scan(&count).Error; err != nil {
		return err
	}
	if count == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (s *SchemaInspector) primaryKeyColumns(ctx context.Context, table string) ([]string, error) {
	var cols []string
	if err := s.db.WithContext(ctx).Raw(`
		SELECT kcu.column_name
		FROM information_schema.table_constraints tc
		JOIN information_schema.key_column_usage kcu
			ON tc.constraint_name = kcu.constraint_name
			AND tc.table_schema = kcu.table_schema
		WHERE tc.table_schema = 'public'
			AND tc.table_name = ?
			AND tc.constraint_type = 'PRIMARY KEY'
		ORDER BY kcu.ordinal_position`, table).Scan(&cols).Error; err != nil {
		return nil, err
	}
	return cols, nil
}

// ensureSingleMatch guards row writes that address rows through a
// single key column. Composite-key and keyless tables can have several
// rows sharing one key value; those writes are refused.
func (s *SchemaInspector) ensureSingleMatch(ctx context.Context, table, keyCol string, keyValue any) error {
	var count int64
	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = ?",
		pq.QuoteIdentifier(table), pq.QuoteIdentifier(keyCol))
	if err := s.db.WithContext(ctx).Raw(query, keyValue).Scan(&count).Error; err != nil {
		return err
	}
	if count > 1 {
		return shared.ErrAmbiguousRowKey
	}
	return nil
}
