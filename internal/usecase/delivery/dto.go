package delivery

import (
	"time"

	"github.com/google/uuid"

	domDelivery "msme-logistics/internal/domain/delivery"
	"msme-logistics/pkg/geo"
)

// Wire shapes use camelCase keys, matching the public API contract.

type LocationRequest struct {
	Address       string    `json:"address" validate:"required"`
	Coordinates   geo.Point `json:"coordinates" validate:"required"`
	ContactPerson string    `json:"contactPerson" validate:"omitempty,max=100"`
	ContactPhone  string    `json:"contactPhone" validate:"omitempty,phone"`
	Instructions  string    `json:"instructions" validate:"omitempty,max=500"`
}

type CargoRequest struct {
	Type                string                 `json:"type" validate:"required,cargo_type"`
	Weight              float64                `json:"weight" validate:"required,min=0"`
	Dimensions          domDelivery.Dimensions `json:"dimensions"`
	Value               float64                `json:"value" validate:"omitempty,min=0"`
	Description         string                 `json:"description" validate:"omitempty,max=1000"`
	SpecialInstructions string                 `json:"specialInstructions" validate:"omitempty,max=500"`
}

type CreateDeliveryRequest struct {
	PickupLocation      LocationRequest `json:"pickupLocation" validate:"required"`
	DropLocation        LocationRequest `json:"dropLocation" validate:"required"`
	Cargo               CargoRequest    `json:"cargo" validate:"required"`
	VehicleType         string          `json:"vehicleType" validate:"required,vehicle_type"`
	ScheduledPickupTime time.Time       `json:"scheduledPickupTime" validate:"required"`
	WarehouseID         *uuid.UUID      `json:"warehouseId" validate:"omitempty"`
	Priority            string          `json:"priority" validate:"omitempty,oneof=low medium high urgent"`
	Notes               string          `json:"notes" validate:"omitempty,max=1000"`
}

type UpdateStatusRequest struct {
	Status   string     `json:"status" validate:"required"`
	Location *geo.Point `json:"location" validate:"omitempty"`
	Notes    string     `json:"notes" validate:"omitempty,max=500"`
}

type AssignDriverRequest struct {
	DriverID uuid.UUID `json:"driverId" validate:"required"`
}

type UpdateLocationRequest struct {
	Location geo.Point `json:"location" validate:"required"`
}

type AddRatingRequest struct {
	Score      int    `json:"score" validate:"required,min=1,max=5"`
	Feedback   string `json:"feedback" validate:"omitempty,max=1000"`
	RatingType string `json:"ratingType" validate:"required,oneof=msme driver"`
}

type ListFilterRequest struct {
	Status    string `form:"status"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sortBy,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc"`
}

type DeliveryResponse struct {
	ID      uuid.UUID `json:"id"`
	OrderID string    `json:"orderId"`

	MSMEID      uuid.UUID  `json:"msmeId"`
	DriverID    *uuid.UUID `json:"driverId"`
	WarehouseID *uuid.UUID `json:"warehouseId"`

	PickupLocation domDelivery.Location `json:"pickupLocation"`
	DropLocation   domDelivery.Location `json:"dropLocation"`

	Cargo       domDelivery.Cargo `json:"cargo"`
	VehicleType string            `json:"vehicleType"`

	ScheduledPickupTime   time.Time  `json:"scheduledPickupTime"`
	ActualPickupTime      *time.Time `json:"actualPickupTime,omitempty"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actualDeliveryTime,omitempty"`

	Status   string                `json:"status"`
	Pricing  domDelivery.Pricing   `json:"pricing"`
	Route    domDelivery.RouteInfo `json:"route"`
	Tracking domDelivery.Tracking  `json:"tracking"`
	Rating   domDelivery.Rating    `json:"rating"`

	Priority string `json:"priority"`
	Notes    string `json:"notes,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListResponse struct {
	Deliveries []*DeliveryResponse `json:"deliveries"`
	Pagination Pagination          `json:"pagination"`
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

func ToDeliveryResponse(d *domDelivery.Delivery) *DeliveryResponse {
	return &DeliveryResponse{
		ID:                    d.ID,
		OrderID:               d.OrderID,
		MSMEID:                d.MSMEID,
		DriverID:              d.DriverID,
		WarehouseID:           d.WarehouseID,
		PickupLocation:        d.PickupLocation,
		DropLocation:          d.DropLocation,
		Cargo:                 d.Cargo,
		VehicleType:           string(d.VehicleType),
		ScheduledPickupTime:   d.ScheduledPickupTime,
		ActualPickupTime:      d.ActualPickupTime,
		EstimatedDeliveryTime: d.EstimatedDeliveryTime,
		ActualDeliveryTime:    d.ActualDeliveryTime,
		Status:                string(d.Status),
		Pricing:               d.Pricing,
		Route:                 d.Route,
		Tracking:              d.Tracking,
		Rating:                d.Rating,
		Priority:              string(d.Priority),
		Notes:                 d.Notes,
		CreatedAt:             d.CreatedAt,
		UpdatedAt:             d.UpdatedAt,
	}
}
