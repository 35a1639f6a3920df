package handler

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	purchasingapp "github.com/dispensa/backend/internal/application/purchasing"
	"github.com/dispensa/backend/internal/domain/purchasing"
	"github.com/dispensa/backend/internal/domain/shared"
	"github.com/dispensa/backend/internal/infrastructure/auth"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubOrderRepo struct {
	orders map[uuid.UUID]*purchasing.PurchaseOrder
	seq    int
}

func newStubOrderRepo() *stubOrderRepo {
	return &stubOrderRepo{orders: make(map[uuid.UUID]*purchasing.PurchaseOrder)}
}

func (r *stubOrderRepo) FindByID(_ context.Context, tenantID, storeID, id uuid.UUID) (*purchasing.PurchaseOrder, error) {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID || o.StoreID != storeID {
		return nil, shared.ErrNotFound
	}
	copied := *o
	return &copied, nil
}

func (r *stubOrderRepo) FindAllForStore(_ context.Context, tenantID, storeID uuid.UUID, filter purchasing.ListFilter) ([]purchasing.PurchaseOrder, int64, error) {
	var out []purchasing.PurchaseOrder
	for _, o := range r.orders {
		if o.TenantID != tenantID || o.StoreID != storeID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		out = append(out, *o)
	}
	return out, int64(len(out)), nil
}

func (r *stubOrderRepo) Save(_ context.Context, o *purchasing.PurchaseOrder) error {
	copied := *o
	r.orders[o.ID] = &copied
	return nil
}

func (r *stubOrderRepo) Delete(_ context.Context, tenantID, storeID, id uuid.UUID) error {
	o, ok := r.orders[id]
	if !ok || o.TenantID != tenantID || o.StoreID != storeID {
		return shared.ErrNotFound
	}
	delete(r.orders, id)
	return nil
}

func (r *stubOrderRepo) Summarize(_ context.Context, tenantID, storeID uuid.UUID, monthStart time.Time) (*purchasing.Summary, error) {
	summary := &purchasing.Summary{TotalValue: decimal.Zero}
	for _, o := range r.orders {
		if o.TenantID != tenantID || o.StoreID != storeID {
			continue
		}
		switch o.Status {
		case purchasing.StatusPending, purchasing.StatusApproved:
			summary.Pending++
		case purchasing.StatusOrdered, purchasing.StatusShipped, purchasing.StatusPartial:
			summary.InTransit++
		}
		if o.CreatedAt.After(monthStart) {
			summary.ThisMonth++
			summary.TotalValue = summary.TotalValue.Add(o.TotalValue)
		}
	}
	return summary, nil
}

func (r *stubOrderRepo) GenerateOrderNumber(_ context.Context, _ uuid.UUID) (string, error) {
	r.seq++
	return fmt.Sprintf("PO-2026-%05d", r.seq), nil
}

func newOrderTestRouter(t *testing.T) (*gin.Engine, *auth.JWTService, *stubOrderRepo) {
	t.Helper()
	repo := newStubOrderRepo()
	svc := purchasingapp.NewService(repo, zap.NewNop())
	jwt := newJWTService()
	return newAPIRouter(jwt, NewPurchaseOrderHandler(svc)), jwt, repo
}

const orderPath = "/api/v1/inventory/purchase-orders"

func TestPurchaseOrderListRequiresStore(t *testing.T) {
	r, jwt, _ := newOrderTestRouter(t)
	tenantID := uuid.New()

	// tenant admin token carries no store and the header is missing
	token := mintToken(t, jwt, auth.RoleTenantAdmin, &tenantID, nil)
	w := doRequest(t, r, http.MethodGet, orderPath, token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "STORE_NOT_RESOLVED")
}

func TestPurchaseOrderListRequiresTenant(t *testing.T) {
	r, jwt, _ := newOrderTestRouter(t)
	storeID := uuid.New()

	token := mintToken(t, jwt, auth.RoleStaff, nil, &storeID)
	w := doRequest(t, r, http.MethodGet, orderPath, token, nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TENANT_NOT_RESOLVED")
}

func TestPurchaseOrderCreateRequiresManagerRole(t *testing.T) {
	r, jwt, _ := newOrderTestRouter(t)
	tenantID := uuid.New()
	storeID := uuid.New()

	token := mintToken(t, jwt, auth.RoleStaff, &tenantID, &storeID)
	body := bytes.NewBufferString(`{"supplier_name":"OCS","items":[{"sku":"1001","quantity_ordered":5,"unit_cost":"3.50"}]}`)
	w := doRequest(t, r, http.MethodPost, orderPath, token, body)

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestPurchaseOrderCreateAndStatusFlow(t *testing.T) {
	r, jwt, _ := newOrderTestRouter(t)
	tenantID := uuid.New()
	storeID := uuid.New()
	token := mintToken(t, jwt, auth.RoleStoreManager, &tenantID, &storeID)

	body := bytes.NewBufferString(`{
		"supplier_name": "OCS Wholesale",
		"submit": true,
		"items": [
			{"sku": "102779", "product_name": "Pre-Rolls 10x0.5g", "quantity_ordered": 10, "unit_cost": "3.50"},
			{"sku": "200443", "product_name": "Citrus Gummies", "quantity_ordered": 24, "unit_cost": "5.25"}
		]
	}`)
	w := doRequest(t, r, http.MethodPost, orderPath, token, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	data := decodeData(t, w.Body.Bytes())
	orderID := data["id"].(string)
	assert.Equal(t, "pending", data["status"])
	assert.Contains(t, data["message"], "submitted")
	assert.Equal(t, float64(2), data["item_count"])

	w = doRequest(t, r, http.MethodPut, orderPath+"/"+orderID+"/status", token, bytes.NewBufferString(`{"status":"approved"}`))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data = decodeData(t, w.Body.Bytes())
	assert.Equal(t, "approved", data["status"])
	assert.Contains(t, data["message"], "approved")

	// shipping before placing the order is rejected
	w = doRequest(t, r, http.MethodPut, orderPath+"/"+orderID+"/status", token, bytes.NewBufferString(`{"status":"shipped"}`))
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_STATE")
}

func TestPurchaseOrderStoreScoping(t *testing.T) {
	r, jwt, repo := newOrderTestRouter(t)
	tenantID := uuid.New()
	storeID := uuid.New()
	otherStore := uuid.New()

	order, err := purchasing.NewPurchaseOrder(tenantID, otherStore, "PO-2026-00001", "OCS")
	require.NoError(t, err)
	_, err = order.AddItem("1001", 5, decimal.NewFromFloat(3.5))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), order))

	token := mintToken(t, jwt, auth.RoleStoreManager, &tenantID, &storeID)
	w := doRequest(t, r, http.MethodGet, orderPath+"/"+order.ID.String(), token, nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPurchaseOrderSummary(t *testing.T) {
	r, jwt, repo := newOrderTestRouter(t)
	tenantID := uuid.New()
	storeID := uuid.New()

	order, err := purchasing.NewPurchaseOrder(tenantID, storeID, "PO-2026-00001", "OCS")
	require.NoError(t, err)
	_, err = order.AddItem("1001", 5, decimal.NewFromFloat(3.5))
	require.NoError(t, err)
	require.NoError(t, order.Transition(purchasing.StatusPending))
	require.NoError(t, repo.Save(context.Background(), order))

	token := mintToken(t, jwt, auth.RoleStoreManager, &tenantID, &storeID)
	w := doRequest(t, r, http.MethodGet, orderPath+"/summary", token, nil)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	data := decodeData(t, w.Body.Bytes())
	assert.Equal(t, float64(1), data["pending"])
	assert.Equal(t, float64(1), data["this_month"])
}
