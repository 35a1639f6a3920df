package purchasing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dispensa/backend/internal/domain/purchasing"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// orderNumberRetries bounds how often Create redraws an order number
// after losing a race on the unique index.
const orderNumberRetries = 3

// Service handles purchase order operations for a store
type Service struct {
	orders purchasing.Repository
	log    *zap.Logger
}

// NewService creates a new purchasing Service
func NewService(orders purchasing.Repository, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	return &Service{orders: orders, log: log}
}

// List returns one page of a store's purchase orders
func (s *Service) List(ctx context.Context, tenantID, storeID uuid.UUID, req ListRequest) (*shared.Paginated[OrderResponse], error) {
	filter := purchasing.ListFilter{
		Filter: shared.Filter{
			Page:     req.Page,
			PageSize: req.PageSize,
			Search:   strings.TrimSpace(req.Search),
			OrderBy:  req.SortBy,
			OrderDir: req.SortDir,
		},
		Status: purchasing.Status(req.Status),
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}

	orders, total, err := s.orders.FindAllForStore(ctx, tenantID, storeID, filter)
	if err != nil {
		return nil, err
	}

	items := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		items = append(items, *ToOrderResponse(&orders[i], false))
	}
	page := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &page, nil
}

// Get returns a purchase order with its line items
func (s *Service) Get(ctx context.Context, tenantID, storeID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, tenantID, storeID, id)
	if err != nil {
		return nil, err
	}
	return ToOrderResponse(order, true), nil
}

// Create creates a purchase order with its items, optionally submitting
// it straight to pending.
func (s *Service) Create(ctx context.Context, tenantID, storeID uuid.UUID, req CreateOrderRequest) (*OrderResponse, error) {
	orderNumber, err := s.orders.GenerateOrderNumber(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	order, err := purchasing.NewPurchaseOrder(tenantID, storeID, orderNumber, req.SupplierName)
	if err != nil {
		return nil, err
	}
	order.ExpectedDate = req.ExpectedDate
	order.ASNNumber = strings.TrimSpace(req.ASNNumber)
	order.Notes = strings.TrimSpace(req.Notes)

	for _, line := range req.Items {
		item, err := order.AddItem(line.SKU, line.QuantityOrdered, line.UnitCost)
		if err != nil {
			return nil, err
		}
		applyItemDetails(order.GetItem(item.ID), line)
	}

	if req.Submit {
		if err := order.Transition(purchasing.StatusPending); err != nil {
			return nil, err
		}
	}

	// Two writers can draw the same order number; the unique index
	// decides, and the loser draws again.
	for attempt := 0; ; attempt++ {
		err := s.orders.Save(ctx, order)
		if err == nil {
			break
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt >= orderNumberRetries {
			return nil, err
		}
		if order.OrderNumber, err = s.orders.GenerateOrderNumber(ctx, tenantID); err != nil {
			return nil, err
		}
	}

	s.log.Info("purchase order created",
		zap.String("tenant_id", tenantID.String()),
		zap.String("store_id", storeID.String()),
		zap.String("order_number", order.OrderNumber),
		zap.Int("items", order.ItemCount()),
		zap.String("status", order.Status.String()))
	return ToOrderResponse(order, true), nil
}

// Transition moves an order to a requested status
func (s *Service) Transition(ctx context.Context, tenantID, storeID, id uuid.UUID, req TransitionRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, tenantID, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := order.Transition(purchasing.Status(req.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order, true)
	resp.Message = statusMessage(order)
	return resp, nil
}

// Receive records per-line received quantities
func (s *Service) Receive(ctx context.Context, tenantID, storeID, id uuid.UUID, req ReceiveRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, tenantID, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := order.Receive(req.Quantities); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("purchase order goods received",
		zap.String("order_number", order.OrderNumber),
		zap.String("status", order.Status.String()))

	resp := ToOrderResponse(order, true)
	resp.Message = statusMessage(order)
	return resp, nil
}

// MarkFullyReceived closes out a pending or partially received order
func (s *Service) MarkFullyReceived(ctx context.Context, tenantID, storeID, id uuid.UUID) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, tenantID, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := order.MarkFullyReceived(); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	resp := ToOrderResponse(order, true)
	resp.Message = statusMessage(order)
	return resp, nil
}

// Cancel cancels an order with a reason
func (s *Service) Cancel(ctx context.Context, tenantID, storeID, id uuid.UUID, req CancelRequest) (*OrderResponse, error) {
	order, err := s.orders.FindByID(ctx, tenantID, storeID, id)
	if err != nil {
		return nil, err
	}

	if err := order.Cancel(req.Reason); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, order); err != nil {
		return nil, err
	}

	s.log.Info("purchase order cancelled",
		zap.String("order_number", order.OrderNumber),
		zap.String("reason", req.Reason))

	resp := ToOrderResponse(order, true)
	resp.Message = statusMessage(order)
	return resp, nil
}

// Delete removes a draft order
func (s *Service) Delete(ctx context.Context, tenantID, storeID, id uuid.UUID) error {
	order, err := s.orders.FindByID(ctx, tenantID, storeID, id)
	if err != nil {
		return err
	}
	if order.Status != purchasing.StatusDraft {
		return shared.NewDomainError("INVALID_STATE", "Only draft orders can be deleted")
	}
	return s.orders.Delete(ctx, tenantID, storeID, id)
}

// Summary returns the dashboard aggregate for a store
func (s *Service) Summary(ctx context.Context, tenantID, storeID uuid.UUID) (*SummaryResponse, error) {
	now := time.Now()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary, err := s.orders.Summarize(ctx, tenantID, storeID, monthStart)
	if err != nil {
		return nil, err
	}
	return &SummaryResponse{
		Pending:    summary.Pending,
		InTransit:  summary.InTransit,
		ThisMonth:  summary.ThisMonth,
		TotalValue: summary.TotalValue,
	}, nil
}

// statusMessage builds the confirmation line shown to the operator
// after a status change.
func statusMessage(order *purchasing.PurchaseOrder) string {
	switch order.Status {
	case purchasing.StatusPending:
		return fmt.Sprintf("Order %s submitted", order.OrderNumber)
	case purchasing.StatusApproved:
		return fmt.Sprintf("Order %s approved", order.OrderNumber)
	case purchasing.StatusOrdered:
		return fmt.Sprintf("Order %s placed with supplier", order.OrderNumber)
	case purchasing.StatusShipped:
		return fmt.Sprintf("Order %s marked as shipped", order.OrderNumber)
	case purchasing.StatusPartial:
		return fmt.Sprintf("Order %s partially received", order.OrderNumber)
	case purchasing.StatusReceived:
		return fmt.Sprintf("Order %s fully received", order.OrderNumber)
	case purchasing.StatusCancelled:
		return fmt.Sprintf("Order %s cancelled", order.OrderNumber)
	default:
		return fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.Status)
	}
}

func applyItemDetails(item *purchasing.Item, line CreateItemRequest) {
	if item == nil {
		return
	}
	item.ProductName = strings.TrimSpace(line.ProductName)
	item.Category = strings.TrimSpace(line.Category)
	item.Brand = strings.TrimSpace(line.Brand)
	item.UnitOfMeasure = strings.TrimSpace(line.UnitOfMeasure)
	item.BatchLot = strings.TrimSpace(line.BatchLot)
	item.GTIN = strings.TrimSpace(line.GTIN)
	item.CaseGTIN = strings.TrimSpace(line.CaseGTIN)
	item.THCContent = strings.TrimSpace(line.THCContent)
	item.CBDContent = strings.TrimSpace(line.CBDContent)
	item.PackagedDate = line.PackagedDate
}
