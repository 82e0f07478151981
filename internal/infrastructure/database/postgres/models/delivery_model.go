package models

import (
	"time"

	"github.com/google/uuid"

	domDelivery "msme-logistics/internal/domain/delivery"
)

// DeliveryModel is the database row for delivery orders. Locations, cargo,
// pricing, route, tracking and ratings are document-shaped and stored as
// jsonb; the tracking history grows in place with the row.
type DeliveryModel struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	OrderID string    `gorm:"type:varchar(20);not null;uniqueIndex"`

	MSMEID      uuid.UUID  `gorm:"type:uuid;not null;index"`
	DriverID    *uuid.UUID `gorm:"type:uuid;index"`
	WarehouseID *uuid.UUID `gorm:"type:uuid;index"`

	PickupLocation domDelivery.Location `gorm:"type:jsonb;serializer:json;not null"`
	DropLocation   domDelivery.Location `gorm:"type:jsonb;serializer:json;not null"`

	Cargo       domDelivery.Cargo `gorm:"type:jsonb;serializer:json;not null"`
	VehicleType string            `gorm:"type:varchar(20);not null"`

	ScheduledPickupTime   time.Time  `gorm:"type:timestamptz;not null"`
	ActualPickupTime      *time.Time `gorm:"type:timestamptz"`
	EstimatedDeliveryTime *time.Time `gorm:"type:timestamptz"`
	ActualDeliveryTime    *time.Time `gorm:"type:timestamptz"`

	Status   string                `gorm:"type:varchar(20);not null;default:'pending';index"`
	Pricing  domDelivery.Pricing   `gorm:"type:jsonb;serializer:json"`
	Route    domDelivery.RouteInfo `gorm:"type:jsonb;serializer:json"`
	Tracking domDelivery.Tracking  `gorm:"type:jsonb;serializer:json"`
	Rating   domDelivery.Rating    `gorm:"type:jsonb;serializer:json"`

	Priority string `gorm:"type:varchar(10);default:'medium'"`
	Notes    string `gorm:"type:text"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	MSME      *UserModel `gorm:"foreignKey:MSMEID"`
	Driver    *UserModel `gorm:"foreignKey:DriverID"`
	Warehouse *UserModel `gorm:"foreignKey:WarehouseID"`
}

func (DeliveryModel) TableName() string {
	return "deliveries"
}

func ToDeliveryModel(d *domDelivery.Delivery) *DeliveryModel {
	return &DeliveryModel{
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

func (m *DeliveryModel) ToEntity() *domDelivery.Delivery {
	return &domDelivery.Delivery{
		ID:                    m.ID,
		OrderID:               m.OrderID,
		MSMEID:                m.MSMEID,
		DriverID:              m.DriverID,
		WarehouseID:           m.WarehouseID,
		PickupLocation:        m.PickupLocation,
		DropLocation:          m.DropLocation,
		Cargo:                 m.Cargo,
		VehicleType:           domDelivery.VehicleType(m.VehicleType),
		ScheduledPickupTime:   m.ScheduledPickupTime,
		ActualPickupTime:      m.ActualPickupTime,
		EstimatedDeliveryTime: m.EstimatedDeliveryTime,
		ActualDeliveryTime:    m.ActualDeliveryTime,
		Status:                domDelivery.Status(m.Status),
		Pricing:               m.Pricing,
		Route:                 m.Route,
		Tracking:              m.Tracking,
		Rating:                m.Rating,
		Priority:              domDelivery.Priority(m.Priority),
		Notes:                 m.Notes,
		CreatedAt:             m.CreatedAt,
		UpdatedAt:             m.UpdatedAt,
	}
}
