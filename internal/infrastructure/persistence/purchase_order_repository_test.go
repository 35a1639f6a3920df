package persistence

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormPurchaseOrderRepository_GenerateOrderNumber(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormPurchaseOrderRepository(db)

	tenantID := uuid.New()
	year := time.Now().Year()

	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SPLIT_PART\(order_number, '-', 3\) AS INTEGER\)\), 0\)`).
		WithArgs(tenantID, fmt.Sprintf("PO-%d-%%", year)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(7))

	number, err := repo.GenerateOrderNumber(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%d-0008", year), number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPurchaseOrderRepository_GenerateOrderNumber_MaxBasedAfterDelete(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormPurchaseOrderRepository(db)

	tenantID := uuid.New()
	year := time.Now().Year()

	// Three orders existed, two were deleted; the next number still
	// advances past the highest one ever issued.
	mock.ExpectQuery(`SELECT COALESCE\(MAX\(CAST\(SPLIT_PART\(order_number, '-', 3\) AS INTEGER\)\), 0\)`).
		WithArgs(tenantID, fmt.Sprintf("PO-%d-%%", year)).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow(3))

	number, err := repo.GenerateOrderNumber(context.Background(), tenantID)

	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("PO-%d-0004", year), number)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGormPurchaseOrderRepository_Summarize(t *testing.T) {
	db, mock, mockDB := newMockDB(t)
	defer mockDB.Close()
	repo := NewGormPurchaseOrderRepository(db)

	tenantID := uuid.New()
	storeID := uuid.New()
	monthStart := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)

	countQuery := `SELECT count\(\*\) FROM "purchase_orders" WHERE .*`
	mock.ExpectQuery(countQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))
	mock.ExpectQuery(countQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(countQuery).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(5))
	mock.ExpectQuery(`SELECT COALESCE\(SUM\(total_value\), 0\) FROM "purchase_orders" WHERE .*`).
		WillReturnRows(sqlmock.NewRows([]string{"coalesce"}).AddRow("12345.67"))

	summary, err := repo.Summarize(context.Background(), tenantID, storeID, monthStart)

	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Pending)
	assert.Equal(t, int64(2), summary.InTransit)
	assert.Equal(t, int64(5), summary.ThisMonth)
	assert.Equal(t, "12345.67", summary.TotalValue.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}
