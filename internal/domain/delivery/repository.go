package delivery

import (
	"context"

	"github.com/google/uuid"
)

// Filter scopes delivery listings to one party and optional status.
type Filter struct {
	MSMEID      *uuid.UUID
	DriverID    *uuid.UUID
	WarehouseID *uuid.UUID
	Status      *Status
	Page        int
	Limit       int
	SortBy      string
	SortOrder   string
}

// Summary aggregates deliveries for the analytics endpoint.
type Summary struct {
	TotalDeliveries     int64   `json:"totalDeliveries"`
	CompletedDeliveries int64   `json:"completedDeliveries"`
	PendingDeliveries   int64   `json:"pendingDeliveries"`
	InTransitDeliveries int64   `json:"inTransitDeliveries"`
	TotalRevenue        float64 `json:"totalRevenue"`
	AverageRating       float64 `json:"averageRating"`
}

// Repository is the persistence port for deliveries. Mutate runs fn against
// the current row under a write lock and persists the result atomically, so
// read-modify-write sequences cannot interleave.
type Repository interface {
	Create(ctx context.Context, d *Delivery) error
	GetByID(ctx context.Context, id uuid.UUID) (*Delivery, error)
	List(ctx context.Context, filter Filter) ([]*Delivery, int64, error)
	Mutate(ctx context.Context, id uuid.UUID, fn func(*Delivery) error) (*Delivery, error)
	Summarize(ctx context.Context, filter Filter, since int) (*Summary, error)
}
