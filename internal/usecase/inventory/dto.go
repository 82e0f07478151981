package inventory

import (
	"time"

	"github.com/google/uuid"

	domInventory "msme-logistics/internal/domain/inventory"
)

type CreateItemRequest struct {
	ItemName     string                       `json:"itemName" validate:"required,min=1,max=200"`
	Category     string                       `json:"category" validate:"required,oneof=electronics textiles automotive tools chemicals food general"`
	Description  string                       `json:"description" validate:"omitempty,max=1000"`
	Quantity     int                          `json:"quantity" validate:"min=0"`
	MinThreshold int                          `json:"minThreshold" validate:"min=0"`
	MaxCapacity  int                          `json:"maxCapacity" validate:"required,min=1"`
	UnitPrice    float64                      `json:"unitPrice" validate:"required,min=0"`
	Dimensions   domInventory.ItemDimensions  `json:"dimensions"`
	Location     domInventory.StorageLocation `json:"location" validate:"required"`
	Supplier     domInventory.Supplier        `json:"supplier" validate:"required"`
	ArrivalDate  time.Time                    `json:"arrivalDate" validate:"required"`
	ExpiryDate   *time.Time                   `json:"expiryDate"`
	Condition    string                       `json:"condition" validate:"omitempty,oneof=new good fair damaged"`
	Tags         []string                     `json:"tags"`
	Barcode      string                       `json:"barcode" validate:"omitempty,max=100"`
}

// UpdateItemRequest carries the whitelisted descriptive fields. Quantity and
// reservations go through their dedicated operations.
type UpdateItemRequest struct {
	ItemName     *string                       `json:"itemName" validate:"omitempty,min=1,max=200"`
	Category     *string                       `json:"category" validate:"omitempty,oneof=electronics textiles automotive tools chemicals food general"`
	Description  *string                       `json:"description" validate:"omitempty,max=1000"`
	MinThreshold *int                          `json:"minThreshold" validate:"omitempty,min=0"`
	MaxCapacity  *int                          `json:"maxCapacity" validate:"omitempty,min=1"`
	UnitPrice    *float64                      `json:"unitPrice" validate:"omitempty,min=0"`
	Dimensions   *domInventory.ItemDimensions  `json:"dimensions"`
	Location     *domInventory.StorageLocation `json:"location"`
	Supplier     *domInventory.Supplier        `json:"supplier"`
	ExpiryDate   *time.Time                    `json:"expiryDate"`
	Condition    *string                       `json:"condition" validate:"omitempty,oneof=new good fair damaged"`
	Tags         []string                      `json:"tags"`
}

type UpdateQuantityRequest struct {
	Quantity  int    `json:"quantity" validate:"min=0"`
	Type      string `json:"type" validate:"omitempty,oneof=inbound outbound adjustment transfer damaged expired"`
	Reason    string `json:"reason" validate:"omitempty,max=500"`
	Reference string `json:"reference" validate:"omitempty,max=200"`
}

type ReserveRequest struct {
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Reason    string `json:"reason" validate:"omitempty,max=500"`
	Reference string `json:"reference" validate:"omitempty,max=200"`
}

type ReleaseRequest struct {
	Quantity  int    `json:"quantity" validate:"required,min=1"`
	Reason    string `json:"reason" validate:"omitempty,max=500"`
	Reference string `json:"reference" validate:"omitempty,max=200"`
}

type ListFilterRequest struct {
	Category  string `form:"category"`
	Status    string `form:"status"`
	Search    string `form:"search"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=10"`
	SortBy    string `form:"sortBy,default=createdAt"`
	SortOrder string `form:"sortOrder,default=desc"`
}

type ItemResponse struct {
	ID          uuid.UUID `json:"id"`
	ItemID      string    `json:"itemId"`
	SKU         string    `json:"sku"`
	WarehouseID uuid.UUID `json:"warehouseId"`

	ItemName    string `json:"itemName"`
	Category    string `json:"category"`
	Description string `json:"description,omitempty"`

	Quantity          int `json:"quantity"`
	MinThreshold      int `json:"minThreshold"`
	MaxCapacity       int `json:"maxCapacity"`
	ReservedQuantity  int `json:"reservedQuantity"`
	AvailableQuantity int `json:"availableQuantity"`

	UnitPrice  float64 `json:"unitPrice"`
	TotalValue float64 `json:"totalValue"`
	Currency   string  `json:"currency"`

	Dimensions domInventory.ItemDimensions  `json:"dimensions"`
	Location   domInventory.StorageLocation `json:"location"`
	Supplier   domInventory.Supplier        `json:"supplier"`

	ArrivalDate      time.Time  `json:"arrivalDate"`
	ExpiryDate       *time.Time `json:"expiryDate,omitempty"`
	DaysUntilExpiry  *int       `json:"daysUntilExpiry,omitempty"`
	LastMovementDate time.Time  `json:"lastMovementDate"`

	Status    string `json:"status"`
	Condition string `json:"condition"`

	MovementHistory []domInventory.Movement `json:"movementHistory"`
	Alerts          []domInventory.Alert    `json:"alerts"`

	Tags    []string `json:"tags,omitempty"`
	Barcode string   `json:"barcode,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListResponse struct {
	Items      []*ItemResponse `json:"inventory"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

// AlertView is one flattened row of the active-alert listing, sorted newest
// first across all the warehouse's items.
type AlertView struct {
	ItemID       uuid.UUID `json:"itemId"`
	ItemName     string    `json:"itemName"`
	SKU          string    `json:"sku"`
	LocationCode string    `json:"locationCode"`
	AlertType    string    `json:"alertType"`
	Message      string    `json:"message"`
	CreatedAt    time.Time `json:"createdAt"`
	Quantity     int       `json:"quantity"`
	MinThreshold int       `json:"minThreshold"`
}

func ToItemResponse(item *domInventory.Item, now time.Time) *ItemResponse {
	return &ItemResponse{
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
		DaysUntilExpiry:   item.DaysUntilExpiry(now),
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
