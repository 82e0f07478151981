package models

import (
	"time"

	"github.com/google/uuid"

	domInventory "msme-logistics/internal/domain/inventory"
)

// InventoryModel is the database row for warehouse stock. Movement history
// and alerts are document-shaped and stored as jsonb.
type InventoryModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	ItemID      string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	SKU         string    `gorm:"type:varchar(30);not null;uniqueIndex"`
	WarehouseID uuid.UUID `gorm:"type:uuid;not null;index"`

	ItemName    string `gorm:"type:varchar(200);not null"`
	Category    string `gorm:"type:varchar(20);not null;index"`
	Description string `gorm:"type:text"`

	Quantity          int `gorm:"not null;default:0"`
	MinThreshold      int `gorm:"not null;default:0"`
	MaxCapacity       int `gorm:"not null"`
	ReservedQuantity  int `gorm:"not null;default:0"`
	AvailableQuantity int `gorm:"not null;default:0"`

	UnitPrice  float64 `gorm:"type:decimal(12,2);not null"`
	TotalValue float64 `gorm:"type:decimal(14,2);not null;default:0"`
	Currency   string  `gorm:"type:varchar(3);default:'INR'"`

	Dimensions domInventory.ItemDimensions  `gorm:"type:jsonb;serializer:json"`
	Location   domInventory.StorageLocation `gorm:"type:jsonb;serializer:json"`
	Supplier   domInventory.Supplier        `gorm:"type:jsonb;serializer:json"`

	ArrivalDate      time.Time  `gorm:"type:timestamptz;not null"`
	ExpiryDate       *time.Time `gorm:"type:timestamptz"`
	LastMovementDate time.Time  `gorm:"type:timestamptz"`

	Status    string `gorm:"type:varchar(20);not null;default:'in-stock';index"`
	Condition string `gorm:"type:varchar(10);default:'new'"`

	MovementHistory []domInventory.Movement `gorm:"type:jsonb;serializer:json"`
	Alerts          []domInventory.Alert    `gorm:"type:jsonb;serializer:json"`

	Tags    []string `gorm:"type:jsonb;serializer:json"`
	Barcode string   `gorm:"type:varchar(100)"`

	CreatedAt time.Time `gorm:"not null;index"`
	UpdatedAt time.Time `gorm:"not null"`

	Warehouse *UserModel `gorm:"foreignKey:WarehouseID"`
}

func (InventoryModel) TableName() string {
	return "inventory_items"
}

func ToInventoryModel(item *domInventory.Item) *InventoryModel {
	return &InventoryModel{
		ID:                item.ID,
		ItemID:            item.ItemID,
		SKU:               item.SKU,
		WarehouseID:       item.WarehouseID,
		ItemName:          item.ItemName,
		Category:          string(item.Category),
		Description:       item.Description,
		Quantity:          item.Quantity,
		MinThreshold:      item.MinThreshold,
		MaxCapacity:       item.MaxCapacity,
		ReservedQuantity:  item.ReservedQuantity,
		AvailableQuantity: item.AvailableQuantity,
		UnitPrice:         item.UnitPrice,
		TotalValue:        item.TotalValue,
		Currency:          item.Currency,
		Dimensions:        item.Dimensions,
		Location:          item.Location,
		Supplier:          item.Supplier,
		ArrivalDate:       item.ArrivalDate,
		ExpiryDate:        item.ExpiryDate,
		LastMovementDate:  item.LastMovementDate,
		Status:            string(item.Status),
		Condition:         string(item.Condition),
		MovementHistory:   item.MovementHistory,
		Alerts:            item.Alerts,
		Tags:              item.Tags,
		Barcode:           item.Barcode,
		CreatedAt:         item.CreatedAt,
		UpdatedAt:         item.UpdatedAt,
	}
}

func (m *InventoryModel) ToEntity() *domInventory.Item {
	return &domInventory.Item{
		ID:                m.ID,
		ItemID:            m.ItemID,
		SKU:               m.SKU,
		WarehouseID:       m.WarehouseID,
		ItemName:          m.ItemName,
		Category:          domInventory.Category(m.Category),
		Description:       m.Description,
		Quantity:          m.Quantity,
		MinThreshold:      m.MinThreshold,
		MaxCapacity:       m.MaxCapacity,
		ReservedQuantity:  m.ReservedQuantity,
		AvailableQuantity: m.AvailableQuantity,
		UnitPrice:         m.UnitPrice,
		TotalValue:        m.TotalValue,
		Currency:          m.Currency,
		Dimensions:        m.Dimensions,
		Location:          m.Location,
		Supplier:          m.Supplier,
		ArrivalDate:       m.ArrivalDate,
		ExpiryDate:        m.ExpiryDate,
		LastMovementDate:  m.LastMovementDate,
		Status:            domInventory.Status(m.Status),
		Condition:         domInventory.Condition(m.Condition),
		MovementHistory:   m.MovementHistory,
		Alerts:            m.Alerts,
		Tags:              m.Tags,
		Barcode:           m.Barcode,
		CreatedAt:         m.CreatedAt,
		UpdatedAt:         m.UpdatedAt,
	}
}
