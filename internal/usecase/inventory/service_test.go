package inventory

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	domInventory "msme-logistics/internal/domain/inventory"
	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
)

type fakeInventoryRepo struct {
	items map[uuid.UUID]*domInventory.Item
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: make(map[uuid.UUID]*domInventory.Item)}
}

func (r *fakeInventoryRepo) Create(_ context.Context, item *domInventory.Item) error {
	copied := *item
	r.items[item.ID] = &copied
	return nil
}

func (r *fakeInventoryRepo) GetByID(_ context.Context, id uuid.UUID) (*domInventory.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domInventory.ErrItemNotFound
	}
	copied := *item
	return &copied, nil
}

func (r *fakeInventoryRepo) List(_ context.Context, filter domInventory.Filter) ([]*domInventory.Item, int64, error) {
	var out []*domInventory.Item
	for _, item := range r.items {
		if filter.WarehouseID != nil && item.WarehouseID != *filter.WarehouseID {
			continue
		}
		if filter.Category != nil && item.Category != *filter.Category {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		copied := *item
		out = append(out, &copied)
	}
	return out, int64(len(out)), nil
}

func (r *fakeInventoryRepo) Mutate(_ context.Context, id uuid.UUID, fn func(*domInventory.Item) error) (*domInventory.Item, error) {
	item, ok := r.items[id]
	if !ok {
		return nil, domInventory.ErrItemNotFound
	}
	working := *item
	if err := fn(&working); err != nil {
		return nil, err
	}
	r.items[id] = &working
	copied := working
	return &copied, nil
}

func (r *fakeInventoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := r.items[id]; !ok {
		return domInventory.ErrItemNotFound
	}
	delete(r.items, id)
	return nil
}

func (r *fakeInventoryRepo) ListWithActiveAlerts(_ context.Context, warehouseID uuid.UUID) ([]*domInventory.Item, error) {
	var out []*domInventory.Item
	for _, item := range r.items {
		if item.WarehouseID != warehouseID {
			continue
		}
		for _, alert := range item.Alerts {
			if alert.IsActive {
				copied := *item
				out = append(out, &copied)
				break
			}
		}
	}
	return out, nil
}

func (r *fakeInventoryRepo) Summarize(_ context.Context, warehouseID uuid.UUID) (*domInventory.Summary, error) {
	summary := &domInventory.Summary{}
	for _, item := range r.items {
		if item.WarehouseID != warehouseID {
			continue
		}
		summary.TotalItems++
		summary.TotalValue += item.TotalValue
		summary.TotalQuantity += int64(item.Quantity)
		switch item.Status {
		case domInventory.StatusLowStock:
			summary.LowStockItems++
		case domInventory.StatusOutOfStock:
			summary.OutOfStockItems++
		}
	}
	if summary.TotalItems > 0 {
		summary.AverageValue = summary.TotalValue / float64(summary.TotalItems)
	}
	return summary, nil
}

type testEnv struct {
	service   *Service
	repo      *fakeInventoryRepo
	warehouse domUser.Principal
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	repo := newFakeInventoryRepo()
	return &testEnv{
		service:   NewService(repo, "INR", zap.NewNop()),
		repo:      repo,
		warehouse: domUser.Principal{ID: uuid.New(), Role: domUser.RoleWarehouse},
	}
}

func createRequest() *CreateItemRequest {
	return &CreateItemRequest{
		ItemName:     "Copper Wire Spool",
		Category:     "electronics",
		Quantity:     100,
		MinThreshold: 20,
		MaxCapacity:  500,
		UnitPrice:    250,
		Location:     domInventory.StorageLocation{Zone: "A", LocationCode: "A-01-02"},
		Supplier:     domInventory.Supplier{Name: "Sharma Metals"},
		ArrivalDate:  time.Now().Add(-24 * time.Hour),
	}
}

func (e *testEnv) createItem(t *testing.T, req *CreateItemRequest) *ItemResponse {
	t.Helper()
	resp, err := e.service.CreateItem(context.Background(), e.warehouse, req)
	require.NoError(t, err)
	return resp
}

func TestCreateItemGeneratesIdentifiersAndDerived(t *testing.T) {
	env := newTestEnv(t)

	resp := env.createItem(t, createRequest())

	require.Len(t, resp.ItemID, 12)
	require.Equal(t, "INV", resp.ItemID[:3])
	require.Regexp(t, `^ELE-COP-\d{4}$`, resp.SKU)

	require.Equal(t, 100, resp.AvailableQuantity)
	require.InDelta(t, 25000.0, resp.TotalValue, 1e-9)
	require.Equal(t, "in-stock", resp.Status)
	require.Empty(t, resp.Alerts)
}

func TestCreateItemAtThresholdRaisesLowStockAlert(t *testing.T) {
	env := newTestEnv(t)
	req := createRequest()
	req.Quantity = 20 // equal to threshold counts as low

	resp := env.createItem(t, req)

	require.Equal(t, "low-stock", resp.Status)
	require.Len(t, resp.Alerts, 1)
	require.Equal(t, "Stock is running low. Current: 20, Minimum: 20", resp.Alerts[0].Message)
}

func TestCreateItemRejectsNonWarehouse(t *testing.T) {
	env := newTestEnv(t)
	principal := domUser.Principal{ID: uuid.New(), Role: domUser.RoleMSME}

	_, err := env.service.CreateItem(context.Background(), principal, createRequest())
	require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestUpdateQuantityRecordsDeltaAndAlerts(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())

	resp, err := env.service.UpdateQuantity(context.Background(), env.warehouse, item.ID,
		&UpdateQuantityRequest{Quantity: 15, Type: "outbound", Reason: "Dispatched order"})
	require.NoError(t, err)

	require.Equal(t, 15, resp.Quantity)
	require.Equal(t, "low-stock", resp.Status)
	require.InDelta(t, 3750.0, resp.TotalValue, 1e-9)

	require.Len(t, resp.MovementHistory, 1)
	movement := resp.MovementHistory[0]
	require.Equal(t, domInventory.MovementOutbound, movement.Type)
	require.Equal(t, -85, movement.Quantity)
	require.Equal(t, env.warehouse.ID, movement.PerformedBy)

	require.Len(t, resp.Alerts, 1)
	require.Equal(t, "Stock is running low. Current: 15, Minimum: 20", resp.Alerts[0].Message)

	// back above threshold: the alert set is rebuilt empty
	resp, err = env.service.UpdateQuantity(context.Background(), env.warehouse, item.ID,
		&UpdateQuantityRequest{Quantity: 60, Type: "inbound", Reason: "Restock"})
	require.NoError(t, err)
	require.Equal(t, "in-stock", resp.Status)
	require.Empty(t, resp.Alerts)
	require.Len(t, resp.MovementHistory, 2)
	require.Equal(t, 45, resp.MovementHistory[1].Quantity)
}

func TestUpdateQuantityToZeroRaisesOutOfStock(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())

	resp, err := env.service.UpdateQuantity(context.Background(), env.warehouse, item.ID,
		&UpdateQuantityRequest{Quantity: 0})
	require.NoError(t, err)

	require.Equal(t, "out-of-stock", resp.Status)
	require.Len(t, resp.Alerts, 1)
	require.Equal(t, "Item is out of stock", resp.Alerts[0].Message)
}

func TestUpdateQuantityRequiresOwner(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())
	other := domUser.Principal{ID: uuid.New(), Role: domUser.RoleWarehouse}

	_, err := env.service.UpdateQuantity(context.Background(), other, item.ID,
		&UpdateQuantityRequest{Quantity: 10})
	require.Equal(t, appErrors.CodeUnauthorized, appErrors.CodeOf(err))
}

func TestReserve(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())
	msme := domUser.Principal{ID: uuid.New(), Role: domUser.RoleMSME}

	resp, err := env.service.Reserve(context.Background(), msme, item.ID,
		&ReserveRequest{Quantity: 30, Reference: "DEL123456001"})
	require.NoError(t, err)

	require.Equal(t, 100, resp.Quantity)
	require.Equal(t, 30, resp.ReservedQuantity)
	require.Equal(t, 70, resp.AvailableQuantity)

	require.Len(t, resp.MovementHistory, 1)
	require.Equal(t, domInventory.MovementOutbound, resp.MovementHistory[0].Type)
	require.Equal(t, -30, resp.MovementHistory[0].Quantity)

	// reservations do not touch the alert set
	require.Empty(t, resp.Alerts)
}

func TestReserveRejectsOvershoot(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())
	msme := domUser.Principal{ID: uuid.New(), Role: domUser.RoleMSME}

	_, err := env.service.Reserve(context.Background(), msme, item.ID, &ReserveRequest{Quantity: 70})
	require.NoError(t, err)

	_, err = env.service.Reserve(context.Background(), msme, item.ID, &ReserveRequest{Quantity: 31})
	require.Equal(t, appErrors.CodeInsufficientQuantity, appErrors.CodeOf(err))

	// the failed attempt must not leave partial state behind
	resp, err := env.service.Get(context.Background(), item.ID)
	require.NoError(t, err)
	require.Equal(t, 70, resp.ReservedQuantity)
	require.Len(t, resp.MovementHistory, 1)
}

func TestReleaseClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())
	msme := domUser.Principal{ID: uuid.New(), Role: domUser.RoleMSME}

	_, err := env.service.Reserve(context.Background(), msme, item.ID, &ReserveRequest{Quantity: 10})
	require.NoError(t, err)

	resp, err := env.service.Release(context.Background(), msme, item.ID, &ReleaseRequest{Quantity: 25})
	require.NoError(t, err)

	require.Equal(t, 0, resp.ReservedQuantity)
	require.Equal(t, 100, resp.AvailableQuantity)
	require.Len(t, resp.MovementHistory, 2)
	require.Equal(t, domInventory.MovementAdjustment, resp.MovementHistory[1].Type)
	require.Equal(t, 25, resp.MovementHistory[1].Quantity)
}

func TestDeleteBlockedWhileReserved(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())
	msme := domUser.Principal{ID: uuid.New(), Role: domUser.RoleMSME}

	_, err := env.service.Reserve(context.Background(), msme, item.ID, &ReserveRequest{Quantity: 5})
	require.NoError(t, err)

	err = env.service.Delete(context.Background(), env.warehouse, item.ID)
	require.Equal(t, appErrors.CodeItemReserved, appErrors.CodeOf(err))

	_, err = env.service.Release(context.Background(), msme, item.ID, &ReleaseRequest{Quantity: 5})
	require.NoError(t, err)

	require.NoError(t, env.service.Delete(context.Background(), env.warehouse, item.ID))
	_, err = env.service.Get(context.Background(), item.ID)
	require.Equal(t, appErrors.CodeNotFound, appErrors.CodeOf(err))
}

func TestUpdateItemWhitelist(t *testing.T) {
	env := newTestEnv(t)
	item := env.createItem(t, createRequest())

	name := "Copper Wire Spool 2mm"
	threshold := 10
	price := 300.0
	resp, err := env.service.UpdateItem(context.Background(), env.warehouse, item.ID, &UpdateItemRequest{
		ItemName:     &name,
		MinThreshold: &threshold,
		UnitPrice:    &price,
	})
	require.NoError(t, err)

	require.Equal(t, name, resp.ItemName)
	require.Equal(t, 10, resp.MinThreshold)
	require.InDelta(t, 30000.0, resp.TotalValue, 1e-9) // total value follows the new price
	require.Equal(t, 100, resp.Quantity)               // quantity untouched
	require.Empty(t, resp.MovementHistory)             // descriptive edits leave no movement
}

func TestExpiryWarningAlert(t *testing.T) {
	env := newTestEnv(t)
	req := createRequest()
	expiry := time.Now().Add(10 * 24 * time.Hour)
	req.ExpiryDate = &expiry

	resp := env.createItem(t, req)

	require.Len(t, resp.Alerts, 1)
	require.Equal(t, domInventory.AlertExpiryWarning, resp.Alerts[0].Type)
	require.Equal(t, "Item expires in 10 days", resp.Alerts[0].Message)
}

func TestActiveAlertsFlattened(t *testing.T) {
	env := newTestEnv(t)

	low := createRequest()
	low.Quantity = 5
	env.createItem(t, low)

	out := createRequest()
	out.ItemName = "Steel Bolts"
	out.Quantity = 0
	env.createItem(t, out)

	healthy := createRequest()
	healthy.ItemName = "Paint Cans"
	env.createItem(t, healthy)

	alerts, err := env.service.ActiveAlerts(context.Background(), env.warehouse)
	require.NoError(t, err)
	require.Len(t, alerts, 2)
	for _, alert := range alerts {
		require.NotEmpty(t, alert.SKU)
		require.NotEmpty(t, alert.Message)
	}
}

func TestListScopedForWarehouse(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, createRequest())

	otherWarehouse := domUser.Principal{ID: uuid.New(), Role: domUser.RoleWarehouse}
	otherItem := createRequest()
	otherItem.ItemName = "Gear Box"
	_, err := env.service.CreateItem(context.Background(), otherWarehouse, otherItem)
	require.NoError(t, err)

	resp, err := env.service.List(context.Background(), env.warehouse, &ListFilterRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(1), resp.Pagination.Total)

	// non-warehouse roles browse everything
	msme := domUser.Principal{ID: uuid.New(), Role: domUser.RoleMSME}
	resp, err = env.service.List(context.Background(), msme, &ListFilterRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(2), resp.Pagination.Total)
}

func TestSummary(t *testing.T) {
	env := newTestEnv(t)
	env.createItem(t, createRequest())

	low := createRequest()
	low.ItemName = "Hinges"
	low.Quantity = 5
	env.createItem(t, low)

	summary, err := env.service.Summary(context.Background(), env.warehouse)
	require.NoError(t, err)
	require.Equal(t, int64(2), summary.TotalItems)
	require.Equal(t, int64(105), summary.TotalQuantity)
	require.Equal(t, int64(1), summary.LowStockItems)
}
