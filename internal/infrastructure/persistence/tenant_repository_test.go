package persistence

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		Conn:       mockDB,
		DriverName: "postgres",
	})
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return gormDB, mock, mockDB
}

func TestGormTenantRepository_FindByID(t *testing.T) {
	t.Run("finds existing tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "code", "name", "status", "tier"}).
			AddRow(tenantID, "green-leaf", "Green Leaf Cannabis", "active", "standard")

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnRows(rows)

		found, err := repo.FindByID(context.Background(), tenantID)

		require.NoError(t, err)
		assert.Equal(t, tenantID, found.ID)
		assert.Equal(t, "green-leaf", found.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("returns ErrNotFound for missing tenant", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()
		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE id = \$1 ORDER BY .* LIMIT .*`).
			WithArgs(tenantID, 1).
			WillReturnError(gorm.ErrRecordNotFound)

		found, err := repo.FindByID(context.Background(), tenantID)

		assert.Nil(t, found)
		assert.Equal(t, shared.ErrNotFound, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGormTenantRepository_FindByCode(t *testing.T) {
	t.Run("normalizes code before lookup", func(t *testing.T) {
		db, mock, mockDB := newMockDB(t)
		defer mockDB.Close()
		repo := NewGormTenantRepository(db)

		tenantID := uuid.New()
		rows := sqlmock.NewRows([]string{"id", "code", "name", "status"}).
			AddRow(tenantID, "green-leaf", "Green Leaf Cannabis", "active")

		mock.ExpectQuery(`SELECT \* FROM "tenants" WHERE code = \$1 ORDER BY .* LIMIT .*`).
			WithArgs("green-leaf", 1).
			WillReturnRows(rows)

		found, err := repo.FindByCode(context.Background(), "  GREEN-LEAF  ")

		require.NoError(t, err)
		assert.Equal(t, "green-leaf", found.Code)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
