package delivery

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	domDelivery "msme-logistics/internal/domain/delivery"
	domUser "msme-logistics/internal/domain/user"
	appErrors "msme-logistics/pkg/errors"
	"msme-logistics/pkg/geo"
)

// Event describes a delivery change pushed to realtime subscribers.
type Event struct {
	DeliveryID uuid.UUID  `json:"deliveryId"`
	OrderID    string     `json:"orderId"`
	Kind       string     `json:"kind"` // "status" or "location"
	Status     string     `json:"status"`
	Location   *geo.Point `json:"location,omitempty"`
	Timestamp  time.Time  `json:"timestamp"`
}

// Broadcaster fans delivery events out to live subscribers. Implementations
// must not block.
type Broadcaster interface {
	Broadcast(event Event)
}

type Service struct {
	repo        domDelivery.Repository
	users       domUser.Repository
	broadcaster Broadcaster
	currency    string
	logger      *zap.Logger
	now         func() time.Time
}

func NewService(repo domDelivery.Repository, users domUser.Repository, broadcaster Broadcaster, currency string, logger *zap.Logger) *Service {
	if currency == "" {
		currency = "INR"
	}
	return &Service{
		repo:        repo,
		users:       users,
		broadcaster: broadcaster,
		currency:    currency,
		logger:      logger,
		now:         time.Now,
	}
}

// Create registers a new delivery request for the calling MSME. Pricing and
// route distance are computed here so stored documents are never missing them.
func (s *Service) Create(ctx context.Context, principal domUser.Principal, req *CreateDeliveryRequest) (*DeliveryResponse, error) {
	if principal.Role != domUser.RoleMSME {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Only MSME users can create deliveries", nil)
	}

	vehicleType := domDelivery.VehicleType(req.VehicleType)
	if !vehicleType.Valid() {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid vehicle type", nil)
	}

	priority := domDelivery.Priority(req.Priority)
	if req.Priority == "" {
		priority = domDelivery.PriorityMedium
	}

	now := s.now()
	baseFare := BaseFare(vehicleType, req.Cargo.Weight)

	d := &domDelivery.Delivery{
		ID:      uuid.New(),
		OrderID: domDelivery.NewOrderID(now),
		MSMEID:  principal.ID,
		PickupLocation: domDelivery.Location{
			Address:       req.PickupLocation.Address,
			Coordinates:   req.PickupLocation.Coordinates,
			ContactPerson: req.PickupLocation.ContactPerson,
			ContactPhone:  req.PickupLocation.ContactPhone,
			Instructions:  req.PickupLocation.Instructions,
		},
		DropLocation: domDelivery.Location{
			Address:       req.DropLocation.Address,
			Coordinates:   req.DropLocation.Coordinates,
			ContactPerson: req.DropLocation.ContactPerson,
			ContactPhone:  req.DropLocation.ContactPhone,
			Instructions:  req.DropLocation.Instructions,
		},
		Cargo: domDelivery.Cargo{
			Type:                domDelivery.CargoType(req.Cargo.Type),
			Weight:              req.Cargo.Weight,
			Dimensions:          req.Cargo.Dimensions,
			Value:               req.Cargo.Value,
			Description:         req.Cargo.Description,
			SpecialInstructions: req.Cargo.SpecialInstructions,
		},
		VehicleType:         vehicleType,
		WarehouseID:         req.WarehouseID,
		ScheduledPickupTime: req.ScheduledPickupTime,
		Status:              domDelivery.StatusPending,
		Pricing: domDelivery.Pricing{
			BaseFare:    baseFare,
			TotalAmount: baseFare,
			Currency:    s.currency,
		},
		Priority:  priority,
		Notes:     req.Notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	d.Route.Distance = d.RouteDistanceKm()

	if err := s.repo.Create(ctx, d); err != nil {
		s.logger.Error("failed to create delivery", zap.String("order_id", d.OrderID), zap.Error(err))
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to create delivery request", err)
	}

	s.logger.Info("delivery created",
		zap.String("order_id", d.OrderID),
		zap.String("msme_id", principal.ID.String()),
		zap.Float64("total_amount", d.Pricing.TotalAmount))

	return ToDeliveryResponse(d), nil
}

// Get returns a delivery only to one of its parties.
func (s *Service) Get(ctx context.Context, principal domUser.Principal, id uuid.UUID) (*DeliveryResponse, error) {
	d, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOrFailure(err, "Delivery not found")
	}
	if !IsParty(principal, d) {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Access denied", nil)
	}
	return ToDeliveryResponse(d), nil
}

// List returns the caller's deliveries, scoped by role.
func (s *Service) List(ctx context.Context, principal domUser.Principal, req *ListFilterRequest) (*ListResponse, error) {
	filter := domDelivery.Filter{
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

	id := principal.ID
	switch principal.Role {
	case domUser.RoleMSME:
		filter.MSMEID = &id
	case domUser.RoleDriver:
		filter.DriverID = &id
	case domUser.RoleWarehouse:
		filter.WarehouseID = &id
	default:
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Invalid user role", nil)
	}

	if req.Status != "" {
		status := domDelivery.Status(req.Status)
		if !status.Valid() {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid status filter", nil)
		}
		filter.Status = &status
	}

	deliveries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch deliveries", err)
	}

	responses := make([]*DeliveryResponse, 0, len(deliveries))
	for _, d := range deliveries {
		responses = append(responses, ToDeliveryResponse(d))
	}

	pages := total / int64(filter.Limit)
	if total%int64(filter.Limit) != 0 {
		pages++
	}
	return &ListResponse{
		Deliveries: responses,
		Pagination: Pagination{
			Current: filter.Page,
			Pages:   int(pages),
			Total:   total,
			Limit:   filter.Limit,
		},
	}, nil
}

// UpdateStatus applies a status change after checking the role policy and
// ownership. The read, check and write happen under the repository's row
// lock so two concurrent updates cannot both pass the precondition.
func (s *Service) UpdateStatus(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *UpdateStatusRequest) (*DeliveryResponse, error) {
	target := domDelivery.Status(req.Status)
	if !target.Valid() {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidInput, "Invalid delivery status", nil)
	}

	d, err := s.repo.Mutate(ctx, id, func(d *domDelivery.Delivery) error {
		if err := AuthorizeStatusUpdate(principal, d, target); err != nil {
			return err
		}
		d.ApplyStatus(target, req.Location, req.Notes, s.now())
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to update delivery status")
	}

	s.logger.Info("delivery status updated",
		zap.String("order_id", d.OrderID),
		zap.String("status", string(d.Status)),
		zap.String("updated_by", principal.ID.String()))

	s.broadcast(Event{
		DeliveryID: d.ID,
		OrderID:    d.OrderID,
		Kind:       "status",
		Status:     string(d.Status),
		Location:   d.Tracking.CurrentLocation,
		Timestamp:  d.UpdatedAt,
	})
	return ToDeliveryResponse(d), nil
}

// AssignDriver attaches an active driver to a delivery owned by the calling
// warehouse and moves it to assigned.
func (s *Service) AssignDriver(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *AssignDriverRequest) (*DeliveryResponse, error) {
	if principal.Role != domUser.RoleWarehouse {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Only warehouse users can assign drivers", nil)
	}

	driver, err := s.users.GetByID(ctx, req.DriverID)
	if err != nil {
		if errors.Is(err, domUser.ErrUserNotFound) {
			return nil, appErrors.NewAppError(appErrors.CodeInvalidDriver, "Invalid or inactive driver", nil)
		}
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch driver", err)
	}
	if driver.Role != domUser.RoleDriver || !driver.IsActive {
		return nil, appErrors.NewAppError(appErrors.CodeInvalidDriver, "Invalid or inactive driver", nil)
	}

	d, err := s.repo.Mutate(ctx, id, func(d *domDelivery.Delivery) error {
		if d.WarehouseID == nil || *d.WarehouseID != principal.ID {
			return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to assign a driver to this delivery", nil)
		}
		driverID := req.DriverID
		d.DriverID = &driverID
		d.Status = domDelivery.StatusAssigned
		d.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to assign driver")
	}

	s.logger.Info("driver assigned",
		zap.String("order_id", d.OrderID),
		zap.String("driver_id", req.DriverID.String()))

	s.broadcast(Event{
		DeliveryID: d.ID,
		OrderID:    d.OrderID,
		Kind:       "status",
		Status:     string(d.Status),
		Timestamp:  d.UpdatedAt,
	})
	return ToDeliveryResponse(d), nil
}

// UpdateLocation records a position ping from the assigned driver. The
// status does not change.
func (s *Service) UpdateLocation(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *UpdateLocationRequest) (*DeliveryResponse, error) {
	if principal.Role != domUser.RoleDriver {
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Only drivers can update delivery location", nil)
	}

	d, err := s.repo.Mutate(ctx, id, func(d *domDelivery.Delivery) error {
		if d.DriverID == nil || *d.DriverID != principal.ID {
			return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to update this delivery", nil)
		}
		d.ApplyLocation(req.Location, s.now())
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to update location")
	}

	location := req.Location
	s.broadcast(Event{
		DeliveryID: d.ID,
		OrderID:    d.OrderID,
		Kind:       "location",
		Status:     string(d.Status),
		Location:   &location,
		Timestamp:  d.UpdatedAt,
	})
	return ToDeliveryResponse(d), nil
}

// AddRating stores cross-party feedback on a delivered order: the MSME rates
// the driver, the assigned driver rates the MSME.
func (s *Service) AddRating(ctx context.Context, principal domUser.Principal, id uuid.UUID, req *AddRatingRequest) (*DeliveryResponse, error) {
	d, err := s.repo.Mutate(ctx, id, func(d *domDelivery.Delivery) error {
		if d.Status != domDelivery.StatusDelivered {
			return appErrors.NewAppError(appErrors.CodeInvalidTransition, "Can only rate completed deliveries", nil)
		}

		entry := &domDelivery.RatingEntry{
			Score:    req.Score,
			Feedback: req.Feedback,
			RatedAt:  s.now(),
		}
		switch {
		case principal.Role == domUser.RoleMSME && d.MSMEID == principal.ID && req.RatingType == "driver":
			d.Rating.DriverRating = entry
		case principal.Role == domUser.RoleDriver && d.DriverID != nil && *d.DriverID == principal.ID && req.RatingType == "msme":
			d.Rating.MSMERating = entry
		default:
			return appErrors.NewAppError(appErrors.CodeUnauthorized, "Not authorized to add this rating", nil)
		}
		d.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return nil, mutateFailure(err, "Failed to add rating")
	}
	return ToDeliveryResponse(d), nil
}

// Summary aggregates the caller's deliveries over the trailing period in
// days.
func (s *Service) Summary(ctx context.Context, principal domUser.Principal, periodDays int) (*domDelivery.Summary, error) {
	if periodDays <= 0 {
		periodDays = 30
	}

	filter := domDelivery.Filter{}
	id := principal.ID
	switch principal.Role {
	case domUser.RoleMSME:
		filter.MSMEID = &id
	case domUser.RoleDriver:
		filter.DriverID = &id
	case domUser.RoleWarehouse:
		filter.WarehouseID = &id
	default:
		return nil, appErrors.NewAppError(appErrors.CodeUnauthorized, "Invalid user role", nil)
	}

	summary, err := s.repo.Summarize(ctx, filter, periodDays)
	if err != nil {
		return nil, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch analytics", err)
	}
	return summary, nil
}

// RecordDriverLocation applies a GPS ping from a driver to every delivery
// the driver is actively moving. Used by the telemetry ingestion path, which
// authenticates at the broker rather than with a bearer token.
func (s *Service) RecordDriverLocation(ctx context.Context, driverID uuid.UUID, location geo.Point, at time.Time) (int, error) {
	statuses := []domDelivery.Status{domDelivery.StatusPicked, domDelivery.StatusInTransit}

	applied := 0
	for _, status := range statuses {
		status := status
		id := driverID
		deliveries, _, err := s.repo.List(ctx, domDelivery.Filter{
			DriverID: &id,
			Status:   &status,
			Page:     1,
			Limit:    50,
		})
		if err != nil {
			return applied, appErrors.NewAppError(appErrors.CodePersistenceFailure, "Failed to fetch active deliveries", err)
		}

		for _, d := range deliveries {
			updated, err := s.repo.Mutate(ctx, d.ID, func(d *domDelivery.Delivery) error {
				d.ApplyLocation(location, at)
				return nil
			})
			if err != nil {
				s.logger.Warn("failed to apply driver location",
					zap.String("order_id", d.OrderID),
					zap.Error(err))
				continue
			}
			applied++

			point := location
			s.broadcast(Event{
				DeliveryID: updated.ID,
				OrderID:    updated.OrderID,
				Kind:       "location",
				Status:     string(updated.Status),
				Location:   &point,
				Timestamp:  at,
			})
		}
	}
	return applied, nil
}

func (s *Service) broadcast(event Event) {
	if s.broadcaster != nil {
		s.broadcaster.Broadcast(event)
	}
}

// mutateFailure keeps AppError codes raised inside Mutate callbacks intact
// and wraps everything else as a persistence failure.
func mutateFailure(err error, message string) error {
	if appErrors.CodeOf(err) != "" {
		return err
	}
	return notFoundOrFailure(err, message)
}

func notFoundOrFailure(err error, message string) error {
	if errors.Is(err, domDelivery.ErrDeliveryNotFound) {
		return appErrors.NewAppError(appErrors.CodeNotFound, "Delivery not found", err)
	}
	return appErrors.NewAppError(appErrors.CodePersistenceFailure, message, err)
}
