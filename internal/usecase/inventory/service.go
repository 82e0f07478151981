package inventory

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domInventory "msme-logistics/internal/domain/inventory"
	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
)

type Service struct {
	repo     domInventory.Repository
	currency string
	logger   *zap.Logger
	now      func() time.Time
}

func NewService(repo domInventory.Repository, currency string, logger *zap.Logger) *Service {
	if currency == "" {
		currency = "INR"
	}
	return &Service{
		repo:     repo,
		currency: currency,
		logger:   logger,
		now:      time.Now,
	}
}

// CreateItem registers stock under the calling warehouse. Identifiers,
// derived fields and the alert set are computed before the row is written.
func (s *Service) CreateItem(ctx context.Context, principal domUser.Principal, req *CreateItemRequest) (*ItemResponse, error) {
	if principal.Role != domUser.RoleWarehouse {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Only warehouse users can create inventory items", nil)
	}

	condition := domInventory.Condition(req.Condition)
	if req.Condition == "" {
		condition = domInventory.ConditionNew
	}

	now := s.now()
	category := domInventory.Category(req.Category)
	item := &domInventory.Item{
		ID:           uuid.New(),
		ItemID:       domInventory.NewItemID(now),
		SKU:          domInventory.NewSKU(category, req.ItemName),
		WarehouseID:  principal.ID,
		ItemName:     req.ItemName,
		Category:     category,
		Description:  req.Description,
		Quantity:     req.Quantity,
		MinThreshold: req.MinThreshold,
		MaxCapacity:  req.MaxCapacity,
		UnitPrice:    req.UnitPrice,
		Currency:     s.currency,
		Dimensions:   req.Dimensions,
		Location:     req.Location,
		Supplier:     req.Supplier,
		ArrivalDate:  req.ArrivalDate,
		ExpiryDate:   req.ExpiryDate,
		Condition:    condition,
		Tags:         req.Tags,
		Barcode:      req.Barcode,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	item.RecomputeDerived()
	item.RecomputeAlerts(now)

	if err := s.repo.Create(ctx, item); err != nil {
		if errors.Is(err, domInventory.ErrDuplicateIdentifier) {
			return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Item identifier collision, retry the request", err)
		}
		s.logger.Error("failed to create inventory item", zap.String("sku", item.SKU), zap.Error(err))
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to create inventory item", err)
	}

	s.logger.Info("inventory item created",
		zap.String("item_id", item.ItemID),
		zap.String("sku", item.SKU),
		zap.String("warehouse_id", principal.ID.String()))

	return ToItemResponse(item, now), nil
}

// Get returns a single item. Read access is open to every authenticated
// role; mutations stay warehouse-owner only.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*ItemResponse, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrFailure(err, "Failed to fetch inventory item")
	}
	return ToItemResponse(item, s.now()), nil
}

// List returns inventory scoped to the caller: warehouses see their own
// stock, other roles browse everything.
func (s *Service) List(ctx context.Context, principal domUser.Principal, req *ListFilterRequest) (*ListResponse, error) {
	filter := domInventory.Filter{
		Search:    req.Search,
		Page:      req.Page,
		Limit:     req.Limit,
		SortBy:    req.SortBy,
		SortOrder: req.SortOrder,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 10
	}

	if principal.Role == domUser.RoleWarehouse {
		id := principal.ID
		filter.WarehouseID = &id
	}
	if req.Category != "" {
		category := domInventory.Category(req.Category)
		filter.Category = &category
	}
	if req.Status != "" {
		status := domInventory.Status(req.Status)
		if !status.Valid() {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid status filter", nil)
		}
		filter.Status = &status
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch inventory", err)
	}

	now := s.now()
	responses := make([]*ItemResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, ToItemResponse(item, now))
	}

	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}
	return &ListResponse{
		Items: responses,
		Pagination: Pagination{
			Current: filter.Page,
			Pages:   int(pages),
			Total:   total,
			Limit:   filter.Limit,
		},
	}, nil
}

// UpdateItem applies whitelisted descriptive changes. Quantity, reservations
// and identifiers are not updatable here.
func (s *Service) UpdateItem(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *UpdateItemRequest) (*ItemResponse, error) {
	now := s.now()
	item, err := s.repo.Mutate(ctx, id, func(item *domInventory.Item) error {
		if err := requireOwner(principal, item); err != nil {
			return err
		}

		if req.ItemName != nil {
			item.ItemName = *req.ItemName
		}
		if req.Category != nil {
			item.Category = domInventory.Category(*req.Category)
		}
		if req.Description != nil {
			item.Description = *req.Description
		}
		if req.MinThreshold != nil {
			item.MinThreshold = *req.MinThreshold
		}
		if req.MaxCapacity != nil {
			item.MaxCapacity = *req.MaxCapacity
		}
		if req.UnitPrice != nil {
			item.UnitPrice = *req.UnitPrice
		}
		if req.Dimensions != nil {
			item.Dimensions = *req.Dimensions
		}
		if req.Location != nil {
			item.Location = *req.Location
		}
		if req.Supplier != nil {
			item.Supplier = *req.Supplier
		}
		if req.ExpiryDate != nil {
			item.ExpiryDate = req.ExpiryDate
		}
		if req.Condition != nil {
			item.Condition = domInventory.Condition(*req.Condition)
		}
		if req.Tags != nil {
			item.Tags = req.Tags
		}

		item.RecomputeDerived()
		item.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to update inventory item")
	}
	return ToItemResponse(item, now), nil
}

// UpdateQuantity sets the absolute stock level, records the signed delta as
// one movement entry and rebuilds derived fields and alerts.
func (s *Service) UpdateQuantity(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *UpdateQuantityRequest) (*ItemResponse, error) {
	if req.Quantity < 0 {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Quantity cannot be negative", nil)
	}

	movementType := domInventory.MovementType(req.Type)
	if req.Type == "" {
		movementType = domInventory.MovementAdjustment
	}
	reason := req.Reason
	if reason == "" {
		reason = "Manual adjustment"
	}

	now := s.now()
	item, err := s.repo.Mutate(ctx, id, func(item *domInventory.Item) error {
		if err := requireOwner(principal, item); err != nil {
			return err
		}

		delta := req.Quantity - item.Quantity
		item.Quantity = req.Quantity
		item.AppendMovement(domInventory.Movement{
			Type:        movementType,
			Quantity:    delta,
			Reason:      reason,
			Reference:   req.Reference,
			PerformedBy: principal.ID,
			Timestamp:   now,
		})
		item.RecomputeDerived()
		item.RecomputeAlerts(now)
		item.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to update quantity")
	}

	s.logger.Info("inventory quantity updated",
		zap.String("item_id", item.ItemID),
		zap.Int("quantity", item.Quantity),
		zap.String("type", string(movementType)))

	return ToItemResponse(item, now), nil
}

// Reserve holds stock for an order. The availability check and the write
// happen under the repository's row lock, so concurrent reservations cannot
// oversell. Alerts are not recomputed here: total quantity is unchanged.
func (s *Service) Reserve(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *ReserveRequest) (*ItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Quantity must be positive", nil)
	}
	reason := req.Reason
	if reason == "" {
		reason = "Reserved for delivery"
	}

	now := s.now()
	item, err := s.repo.Mutate(ctx, id, func(item *domInventory.Item) error {
		if item.Quantity-item.ReservedQuantity < req.Quantity {
			return appErrors.NewAppError(appErrors.CodeInsufficientQuantity, "Insufficient available quantity", domInventory.ErrInsufficientQuantity)
		}

		item.ReservedQuantity += req.Quantity
		item.AppendMovement(domInventory.Movement{
			Type:        domInventory.MovementOutbound,
			Quantity:    -req.Quantity,
			Reason:      reason,
			Reference:   req.Reference,
			PerformedBy: principal.ID,
			Timestamp:   now,
		})
		item.RecomputeDerived()
		item.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to reserve quantity")
	}

	s.logger.Info("inventory reserved",
		zap.String("item_id", item.ItemID),
		zap.Int("reserved", req.Quantity),
		zap.Int("available", item.AvailableQuantity))

	return ToItemResponse(item, now), nil
}

// Release frees previously reserved stock. Releasing more than is reserved
// clamps at zero rather than failing.
func (s *Service) Release(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *ReleaseRequest) (*ItemResponse, error) {
	if req.Quantity <= 0 {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Quantity must be positive", nil)
	}
	reason := req.Reason
	if reason == "" {
		reason = "Released reservation"
	}

	now := s.now()
	item, err := s.repo.Mutate(ctx, id, func(item *domInventory.Item) error {
		item.ReservedQuantity -= req.Quantity
		if item.ReservedQuantity < 0 {
			item.ReservedQuantity = 0
		}
		item.AppendMovement(domInventory.Movement{
			Type:        domInventory.MovementAdjustment,
			Quantity:    req.Quantity,
			Reason:      reason,
			Reference:   req.Reference,
			PerformedBy: principal.ID,
			Timestamp:   now,
		})
		item.RecomputeDerived()
		item.UpdatedAt = now
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to release reserved quantity")
	}
	return ToItemResponse(item, now), nil
}

// Delete removes an item that has no outstanding reservations.
func (s *Service) Delete(ctx context.Context, principal domUser.Principal, id uuid.UUID) error {
	_, err := s.repo.Mutate(ctx, id, func(item *domInventory.Item) error {
		if err := requireOwner(principal, item); err != nil {
			return err
		}
		if item.ReservedQuantity > 0 {
			return appErrors.NewAppError(appErrors.CodeItemReserved, "Cannot delete item with reserved quantity", domInventory.ErrItemReserved)
		}
		return nil
	})
	if err != nil {
		return mutateFailure(err, "Failed to delete inventory item")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to delete inventory item", err)
	}

	s.logger.Info("inventory item deleted", zap.String("id", id.String()))
	return nil
}

// ActiveAlerts flattens the caller's items with active alerts into one list,
// newest first.
func (s *Service) ActiveAlerts(ctx context.Context, principal domUser.Principal) ([]AlertView, error) {
	if principal.Role != domUser.RoleWarehouse {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Only warehouse users can view inventory alerts", nil)
	}

	items, err := s.repo.ListWithActiveAlerts(ctx, principal.ID)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch alerts", err)
	}

	alerts := make([]AlertView, 0)
	for _, item := range items {
		for _, alert := range item.Alerts {
			if !alert.IsActive {
				continue
			}
			alerts = append(alerts, AlertView{
				ItemID:       item.ID,
				ItemName:     item.ItemName,
				SKU:          item.SKU,
				LocationCode: item.Location.LocationCode,
				AlertType:    string(alert.Type),
				Message:      alert.Message,
				CreatedAt:    alert.CreatedAt,
				Quantity:     item.Quantity,
				MinThreshold: item.MinThreshold,
			})
		}
	}
	sort.Slice(alerts, func(a, b int) bool {
		return alerts[a].CreatedAt.After(alerts[b].CreatedAt)
	})
	return alerts, nil
}

// Summary aggregates the caller's stock position.
func (s *Service) Summary(ctx context.Context, principal domUser.Principal) (*domInventory.Summary, error) {
	if principal.Role != domUser.RoleWarehouse {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Only warehouse users can view inventory analytics", nil)
	}

	summary, err := s.repo.Summarize(ctx, principal.ID)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch analytics", err)
	}
	return summary, nil
}

func requireOwner(principal domUser.Principal, item *domInventory.Item) error {
	if principal.Role != domUser.RoleWarehouse || item.WarehouseID != principal.ID {
		return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to modify this inventory item", nil)
	}
	return nil
}

func mutateFailure(err error, message string) error {
	if appErrors.CodeOf(err) != "" {
		return err
	}
	return notFoundOrFailure(err, message)
}

func notFoundOrFailure(err error, message string) error {
	if errors.Is(err, domInventory.ErrItemNotFound) {
		return appErrors.NewAppError(appErrors.CodeNotFound, "Inventory item not found", err)
	}
	return appErrors.NewAppError(appErrors.CodePersistenceFailure, message, err)
}
