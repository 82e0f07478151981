package delivery

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"msme-logistics/pkg/geo"
)

// Status is the closed set of delivery states.
type Status string

const (
	StatusPending   Status = "pending"
	StatusAssigned  Status = "assigned"
	StatusPicked    Status = "picked"
	StatusInTransit Status = "in-transit"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
	StatusDelayed   Status = "delayed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAssigned, StatusPicked, StatusInTransit,
		StatusDelivered, StatusCancelled, StatusDelayed:
		return true
	}
	return false
}

type VehicleType string

const (
	VehicleTwoWheeler VehicleType = "2-wheeler"
	VehicleTempo      VehicleType = "tempo"
	VehicleTruck      VehicleType = "truck"
)

func (v VehicleType) Valid() bool {
	switch v {
	case VehicleTwoWheeler, VehicleTempo, VehicleTruck:
		return true
	}
	return false
}

type CargoType string

const (
	CargoElectronics CargoType = "electronics"
	CargoTextiles    CargoType = "textiles"
	CargoAutomotive  CargoType = "automotive"
	CargoFood        CargoType = "food"
	CargoChemicals   CargoType = "chemicals"
	CargoGeneral     CargoType = "general"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

type Location struct {
	Address       string    `json:"address"`
	Coordinates   geo.Point `json:"coordinates"`
	ContactPerson string    `json:"contactPerson,omitempty"`
	ContactPhone  string    `json:"contactPhone,omitempty"`
	Instructions  string    `json:"instructions,omitempty"`
}

type Dimensions struct {
	Length float64 `json:"length,omitempty"`
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
}

type Cargo struct {
	Type                CargoType  `json:"type"`
	Weight              float64    `json:"weight"`
	Dimensions          Dimensions `json:"dimensions"`
	Value               float64    `json:"value,omitempty"`
	Description         string     `json:"description,omitempty"`
	SpecialInstructions string     `json:"specialInstructions,omitempty"`
}

type Pricing struct {
	BaseFare       float64 `json:"baseFare"`
	DistanceCharge float64 `json:"distanceCharge"`
	WeightCharge   float64 `json:"weightCharge"`
	TotalAmount    float64 `json:"totalAmount"`
	Currency       string  `json:"currency"`
}

type RouteInfo struct {
	Distance      float64     `json:"distance,omitempty"` // kilometers
	Duration      float64     `json:"duration,omitempty"` // minutes
	OptimizedPath []geo.Point `json:"optimizedPath,omitempty"`
}

// TrackingEntry is one element of the append-only tracking trail. Every
// status change appends exactly one entry.
type TrackingEntry struct {
	Location  *geo.Point `json:"location"`
	Timestamp time.Time  `json:"timestamp"`
	Status    Status     `json:"status"`
	Notes     string     `json:"notes,omitempty"`
}

type Tracking struct {
	CurrentLocation *geo.Point      `json:"currentLocation"`
	LastUpdated     *time.Time      `json:"lastUpdated,omitempty"`
	History         []TrackingEntry `json:"trackingHistory"`
}

type RatingEntry struct {
	Score    int       `json:"score"`
	Feedback string    `json:"feedback,omitempty"`
	RatedAt  time.Time `json:"ratedAt"`
}

type Rating struct {
	MSMERating   *RatingEntry `json:"msmeRating,omitempty"`
	DriverRating *RatingEntry `json:"driverRating,omitempty"`
}

type Delivery struct {
	ID      uuid.UUID
	OrderID string

	MSMEID      uuid.UUID
	DriverID    *uuid.UUID
	WarehouseID *uuid.UUID

	PickupLocation Location
	DropLocation   Location

	Cargo       Cargo
	VehicleType VehicleType

	ScheduledPickupTime   time.Time
	ActualPickupTime      *time.Time
	EstimatedDeliveryTime *time.Time
	ActualDeliveryTime    *time.Time

	Status   Status
	Pricing  Pricing
	Route    RouteInfo
	Tracking Tracking
	Rating   Rating

	Priority Priority
	Notes    string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// ApplyStatus sets the new status, appends one tracking entry and stamps the
// pickup/delivery times. The entry reuses the last known location when none
// is supplied.
func (d *Delivery) ApplyStatus(newStatus Status, location *geo.Point, notes string, now time.Time) {
	d.Status = newStatus
	d.UpdatedAt = now

	entryLocation := location
	if entryLocation == nil {
		entryLocation = d.Tracking.CurrentLocation
	}
	d.Tracking.History = append(d.Tracking.History, TrackingEntry{
		Location:  entryLocation,
		Timestamp: now,
		Status:    newStatus,
		Notes:     notes,
	})

	if location != nil {
		d.Tracking.CurrentLocation = location
		d.Tracking.LastUpdated = &now
	}

	switch newStatus {
	case StatusPicked:
		d.ActualPickupTime = &now
	case StatusDelivered:
		d.ActualDeliveryTime = &now
	}
}

// ApplyLocation records a position update without changing status. The
// tracking entry is tagged with the current status.
func (d *Delivery) ApplyLocation(location geo.Point, now time.Time) {
	d.Tracking.CurrentLocation = &location
	d.Tracking.LastUpdated = &now
	d.Tracking.History = append(d.Tracking.History, TrackingEntry{
		Location:  &location,
		Timestamp: now,
		Status:    d.Status,
		Notes:     "Location updated",
	})
	d.UpdatedAt = now
}

// RouteDistanceKm is the haversine pickup-to-drop distance rounded to two
// decimals.
func (d *Delivery) RouteDistanceKm() float64 {
	return geo.RoundKm(geo.DistanceKm(d.PickupLocation.Coordinates, d.DropLocation.Coordinates))
}

// NewOrderID builds an order id of the form DEL<6-digit-time><3-digit-random>.
// Uniqueness is enforced by the store's unique index, not here.
func NewOrderID(now time.Time) string {
	ts := fmt.Sprintf("%d", now.UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return fmt.Sprintf("DEL%s%03d", ts, rand.Intn(1000))
}
