package purchasing

import (
	"context"
	"time"

	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ListFilter narrows purchase order list queries
type ListFilter struct {
	shared.Filter
	Status Status
}

// Summary is the dashboard aggregate for a store's purchase orders
type Summary struct {
	Pending    int64           `json:"pending"`
	InTransit  int64           `json:"in_transit"`
	ThisMonth  int64           `json:"this_month"`
	TotalValue decimal.Decimal `json:"total_value"`
}

// Repository defines persistence operations for purchase orders
type Repository interface {
	FindByID(ctx context.Context, tenantID, storeID, id uuid.UUID) (*PurchaseOrder, error)
	FindAllForStore(ctx context.Context, tenantID, storeID uuid.UUID, filter ListFilter) ([]PurchaseOrder, int64, error)
	Save(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, tenantID, storeID, id uuid.UUID) error
	Summarize(ctx context.Context, tenantID, storeID uuid.UUID, monthStart time.Time) (*Summary, error)
	GenerateOrderNumber(ctx context.Context, tenantID uuid.UUID) (string, error)
}
