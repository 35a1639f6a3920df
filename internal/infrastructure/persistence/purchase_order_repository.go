package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dispensa/backend/internal/domain/purchasing"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPurchaseOrderRepository implements purchasing.Repository using GORM.
// Every query is scoped by tenant and store.
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

// FindByID finds a purchase order with its items
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, storeID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	var order purchasing.PurchaseOrder
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("tenant_id = ? AND store_id = ? AND id = ?", tenantID, storeID, id).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &order, nil
}

// FindAllForStore returns one page of a store's orders plus the total count
func (r *GormPurchaseOrderRepository) FindAllForStore(ctx context.Context, tenantID, storeID uuid.UUID, filter purchasing.ListFilter) ([]purchasing.PurchaseOrder, int64, error) {
	query := r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
		Where("tenant_id = ? AND store_id = ?", tenantID, storeID)

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("order_number ILIKE ? OR supplier_name ILIKE ? OR asn_number ILIKE ?",
			pattern, pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseOrderSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)

	var orders []purchasing.PurchaseOrder
	if err := query.
		Preload("Items").
		Order(fmt.Sprintf("%s %s", orderBy, orderDir)).
		Offset(filter.Offset()).
		Limit(filter.Limit()).
		Find(&orders).Error; err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

// Save persists an order and its items in one transaction. Items removed
// from the aggregate are deleted from the line item table. A unique
// violation on order_number surfaces as ErrAlreadyExists so callers
// can regenerate the number.
func (r *GormPurchaseOrderRepository) Save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	err := r.save(ctx, order)
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return shared.ErrAlreadyExists
	}
	return err
}

func (r *GormPurchaseOrderRepository) save(ctx context.Context, order *purchasing.PurchaseOrder) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Items").Save(order).Error; err != nil {
			return err
		}

		keep := make([]uuid.UUID, 0, len(order.Items))
		for i := range order.Items {
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				UpdateAll: true,
			}).Create(&order.Items[i]).Error; err != nil {
				return err
			}
			keep = append(keep, order.Items[i].ID)
		}

		del := tx.Where("order_id = ?", order.ID)
		if len(keep) > 0 {
			del = del.Where("id NOT IN ?", keep)
		}
		return del.Delete(&purchasing.Item{}).Error
	})
}

// Delete removes an order and its items
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, tenantID, storeID, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&purchasing.Item{}).Error; err != nil {
			return err
		}
		result := tx.Where("tenant_id = ? AND store_id = ? AND id = ?", tenantID, storeID, id).
			Delete(&purchasing.PurchaseOrder{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Summarize computes the dashboard counters for a store
func (r *GormPurchaseOrderRepository) Summarize(ctx context.Context, tenantID, storeID uuid.UUID, monthStart time.Time) (*purchasing.Summary, error) {
	summary := &purchasing.Summary{TotalValue: decimal.Zero}
	base := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&purchasing.PurchaseOrder{}).
			Where("tenant_id = ? AND store_id = ?", tenantID, storeID)
	}

	if err := base().Where("status = ?", purchasing.StatusPending).
		Count(&summary.Pending).Error; err != nil {
		return nil, err
	}

	if err := base().Where("status IN ?", []purchasing.Status{
		purchasing.StatusOrdered, purchasing.StatusShipped, purchasing.StatusPartial,
	}).Count(&summary.InTransit).Error; err != nil {
		return nil, err
	}

	if err := base().Where("created_at >= ?", monthStart).
		Count(&summary.ThisMonth).Error; err != nil {
		return nil, err
	}

	var totalValue decimal.NullDecimal
	if err := base().Where("status NOT IN ?", []purchasing.Status{purchasing.StatusCancelled}).
		Select("COALESCE(SUM(total_value), 0)").
		Scan(&totalValue).Error; err != nil {
		return nil, err
	}
	if totalValue.Valid {
		summary.TotalValue = totalValue.Decimal
	}

	return summary, nil
}

// GenerateOrderNumber produces the next sequential order number for a
// tenant, formatted as PO-<year>-<seq>. The sequence comes from the
// highest suffix in use, so numbers are never reissued after a delete;
// a concurrent taker loses on the unique order_number index and the
// caller retries.
func (r *GormPurchaseOrderRepository) GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PO-%d-", year)

	var last int64
	if err := r.db.WithContext(ctx).Raw(`
		SELECT COALESCE(MAX(CAST(SPLIT_PART(order_number, '-', 3) AS INTEGER)), 0)
		FROM purchase_orders
		WHERE tenant_id = ? AND order_number LIKE ?`,
		tenantID, prefix+"%").Scan(&last).Error; err != nil {
		return "", err
	}

	return fmt.Sprintf("%s%04d", prefix, last+1), nil
}
