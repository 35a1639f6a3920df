package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// expectOrderLinesMetadata queues the table and column lookups for a
// composite-key order_lines table (order_id + line_no).
func expectOrderLinesMetadata(mock sqlmock.Sqlmock) {
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WithArgs("order_lines").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM information_schema\.tables`).
		WithArgs("order_lines").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`SELECT column_name, data_type, is_nullable, column_default`).
		WithArgs("order_lines").
		WillReturnRows(sqlmock.NewRows([]string{"column_name", "data_type", "is_nullable", "column_default"}).
			AddRow("order_id", "uuid", "NO", nil).
			AddRow("line_no", "integer", "NO", nil).
			AddRow("qty", "integer", "NO", nil))
	mock.ExpectQuery(`SELECT kcu\.column_name`).
		WithArgs("order_lines").
		WillReturnRows(sqlmock.NewRows([]string{"column_name"}).
			AddRow("order_id").
			AddRow("line_no"))
}

func TestEnsureReadOnlyQuery(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		wantErr bool
	}{
		{"plain select", "SELECT * FROM tenants", false},
		{"lowercase select", "select id, name from tenants where status = 'active'", false},
		{"cte", "WITH active AS (SELECT * FROM tenants) SELECT * FROM active", false},
		{"trailing semicolon", "SELECT 1;", false},
		{"leading whitespace", "   SELECT 1", false},
		{"keyword in string literal", "SELECT * FROM tenants WHERE name = 'delete me'", false},
		{"escaped quote in literal", "SELECT * FROM tenants WHERE name = 'o''drop table'", false},
		{"keyword-bearing column names", "SELECT last_updated, created_at FROM tenants", false},
		{"quoted identifier", `SELECT "update" FROM audit_log`, false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"insert", "INSERT INTO tenants (name) VALUES ('x')", true},
		{"update", "UPDATE tenants SET name = 'x'", true},
		{"delete", "DELETE FROM tenants", true},
		{"drop", "DROP TABLE tenants", true},
		{"truncate", "TRUNCATE tenants", true},
		{"stacked statements", "SELECT 1; DROP TABLE tenants", true},
		{"cte with delete", "WITH doomed AS (DELETE FROM tenants RETURNING *) SELECT * FROM doomed", true},
		{"cte with insert", "WITH added AS (INSERT INTO tenants (name) VALUES ('x') RETURNING id) SELECT id FROM added", true},
		{"cte with update", "with bumped as (update tenants set name = 'x' returning id) select * from bumped", true},
		{"select into", "SELECT * INTO tenants_copy FROM tenants", true},
		{"select for update", "SELECT * FROM tenants FOR UPDATE", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := EnsureReadOnlyQuery(tt.query)
			if tt.wantErr {
				assert.ErrorIs(t, err, shared.ErrRestrictedQuery)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestKeyColumn(t *testing.T) {
	t.Run("prefers primary key", func(t *testing.T) {
		cols := []ColumnInfo{
			{Name: "name"},
			{Name: "id", IsPrimaryKey: true},
		}
		col, hasPK := keyColumn(cols)
		assert.Equal(t, "id", col)
		assert.True(t, hasPK)
	})

	t.Run("falls back to first column", func(t *testing.T) {
		cols := []ColumnInfo{
			{Name: "email"},
			{Name: "name"},
		}
		col, hasPK := keyColumn(cols)
		assert.Equal(t, "email", col)
		assert.False(t, hasPK)
	})

	t.Run("empty table", func(t *testing.T) {
		col, hasPK := keyColumn(nil)
		assert.Equal(t, "", col)
		assert.False(t, hasPK)
	})
}

func TestValidateColumns(t *testing.T) {
	cols := []ColumnInfo{{Name: "id"}, {Name: "name"}}

	assert.NoError(t, validateColumns(cols, map[string]any{"name": "x"}))

	err := validateColumns(cols, map[string]any{"bogus": 1})
	assert.Error(t, err)
}

func TestSearchClause(t *testing.T) {
	cols := []ColumnInfo{
		{Name: "id", DataType: "uuid"},
		{Name: "name", DataType: "character varying"},
		{Name: "notes", DataType: "text"},
		{Name: "version", DataType: "integer"},
	}

	t.Run("matches text columns only", func(t *testing.T) {
		where, args := searchClause(cols, "leaf")
		assert.Equal(t, ` WHERE "name" ILIKE ? OR "notes" ILIKE ?`, where)
		assert.Equal(t, []any{"%leaf%", "%leaf%"}, args)
	})

	t.Run("blank search", func(t *testing.T) {
		where, args := searchClause(cols, "   ")
		assert.Empty(t, where)
		assert.Nil(t, args)
	})

	t.Run("no text columns", func(t *testing.T) {
		where, args := searchClause([]ColumnInfo{{Name: "id", DataType: "uuid"}}, "leaf")
		assert.Empty(t, where)
		assert.Nil(t, args)
	})
}

func TestUpdateRow_AmbiguousKeyRejected(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	inspector := NewSchemaInspector(db)

	expectOrderLinesMetadata(mock)
	// Several lines share the order_id, writing through it would touch them all.
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "order_lines" WHERE "order_id" = \$1`).
		WithArgs("7d444840-9dc0-11d1-b245-5ffdce74fad2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	err := inspector.UpdateRow(context.Background(), "order_lines",
		"7d444840-9dc0-11d1-b245-5ffdce74fad2", map[string]any{"qty": 5})
	assert.ErrorIs(t, err, shared.ErrAmbiguousRowKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUpdateRow_SingleMatchApplied(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	inspector := NewSchemaInspector(db)

	expectOrderLinesMetadata(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "order_lines" WHERE "order_id" = \$1`).
		WithArgs("7d444840-9dc0-11d1-b245-5ffdce74fad2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectExec(`UPDATE "order_lines" SET "qty" = \$1 WHERE "order_id" = \$2`).
		WithArgs(5, "7d444840-9dc0-11d1-b245-5ffdce74fad2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := inspector.UpdateRow(context.Background(), "order_lines",
		"7d444840-9dc0-11d1-b245-5ffdce74fad2", map[string]any{"qty": 5})
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDeleteRow_AmbiguousKeyRejected(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	inspector := NewSchemaInspector(db)

	expectOrderLinesMetadata(mock)
	mock.ExpectQuery(`SELECT COUNT\(\*\) FROM "order_lines" WHERE "order_id" = \$1`).
		WithArgs("7d444840-9dc0-11d1-b245-5ffdce74fad2").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	err := inspector.DeleteRow(context.Background(), "order_lines",
		"7d444840-9dc0-11d1-b245-5ffdce74fad2")
	assert.ErrorIs(t, err, shared.ErrAmbiguousRowKey)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestIsTextType(t *testing.T) {
	assert.True(t, isTextType("text"))
	assert.True(t, isTextType("character varying"))
	assert.True(t, isTextType("citext"))
	assert.False(t, isTextType("uuid"))
	assert.False(t, isTextType("jsonb"))
	assert.False(t, isTextType("timestamp with time zone"))
}
