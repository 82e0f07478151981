package inventory

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows inventory listings.
type Filter struct {
	WarehouseID *uuid.UUID
	Category    *Category
	Status      *Status
	Search      string
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

// CategoryBreakdown is one row of the analytics grouping.
type CategoryBreakdown struct {
	Category      Category `json:"category"`
	Count         int64    `json:"count"`
	TotalValue    float64  `json:"totalValue"`
	TotalQuantity int64    `json:"totalQuantity"`
}

// Summary aggregates a warehouse's stock position.
type Summary struct {
	TotalItems        int64               `json:"totalItems"`
	TotalValue        float64             `json:"totalValue"`
	TotalQuantity     int64               `json:"totalQuantity"`
	LowStockItems     int64               `json:"lowStockItems"`
	OutOfStockItems   int64               `json:"outOfStockItems"`
	AverageValue      float64             `json:"averageValue"`
	CategoryBreakdown []CategoryBreakdown `json:"categoryBreakdown"`
}

// Repository is the persistence port for inventory items. Mutate runs fn
// against the current row under a write lock so two reservations cannot both
// pass the availability check.
type Repository interface {
	Create(ctx context.Context, item *Item) error
	GetByID(ctx context.Context, id uuid.UUID) (*Item, error)
	List(ctx context.Context, filter Filter) ([]*Item, int64, error)
	Mutate(ctx context.Context, id uuid.UUID, fn func(*Item) error) (*Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListWithActiveAlerts(ctx context.Context, warehouseID uuid.UUID) ([]*Item, error)
	Summarize(ctx context.Context, warehouseID uuid.UUID) (*Summary, error)
}
