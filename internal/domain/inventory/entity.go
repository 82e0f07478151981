package inventory

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status is the closed set of stock states. The first three are derived
// from quantity vs threshold; the rest are explicit overrides.
type Status string

const (
	StatusInStock    Status = "in-stock"
	StatusLowStock   Status = "low-stock"
	StatusOutOfStock Status = "out-of-stock"
	StatusReserved   Status = "reserved"
	StatusDamaged    Status = "damaged"
	StatusExpired    Status = "expired"
)

func (s Status) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock,
		StatusReserved, StatusDamaged, StatusExpired:
		return true
	}
	return false
}

// Override reports whether the status was set explicitly rather than derived
// from stock levels.
func (s Status) Override() bool {
	switch s {
	case StatusReserved, StatusDamaged, StatusExpired:
		return true
	}
	return false
}

type Category string

const (
	CategoryElectronics Category = "electronics"
	CategoryTextiles    Category = "textiles"
	CategoryAutomotive  Category = "automotive"
	CategoryTools       Category = "tools"
	CategoryChemicals   Category = "chemicals"
	CategoryFood        Category = "food"
	CategoryGeneral     Category = "general"
)

type Condition string

const (
	ConditionNew     Condition = "new"
	ConditionGood    Condition = "good"
	ConditionFair    Condition = "fair"
	ConditionDamaged Condition = "damaged"
)

type MovementType string

const (
	MovementInbound    MovementType = "inbound"
	MovementOutbound   MovementType = "outbound"
	MovementAdjustment MovementType = "adjustment"
	MovementTransfer   MovementType = "transfer"
	MovementDamaged    MovementType = "damaged"
	MovementExpired    MovementType = "expired"
)

// Movement is one entry of the append-only audit trail. Quantity is a signed
// delta reconciling the before/after change.
type Movement struct {
	Type        MovementType `json:"type"`
	Quantity    int          `json:"quantity"`
	Reason      string       `json:"reason,omitempty"`
	Reference   string       `json:"reference,omitempty"`
	PerformedBy uuid.UUID    `json:"performedBy"`
	Timestamp   time.Time    `json:"timestamp"`
	Notes       string       `json:"notes,omitempty"`
}

type AlertType string

const (
	AlertLowStock      AlertType = "low-stock"
	AlertOutOfStock    AlertType = "out-of-stock"
	AlertExpiryWarning AlertType = "expiry-warning"
)

// Alert is an entity-local snapshot; the active set is recomputed wholesale,
// never patched incrementally.
type Alert struct {
	Type      AlertType `json:"type"`
	Message   string    `json:"message"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
}

type ItemDimensions struct {
	Length float64 `json:"length,omitempty"` // cm
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`
	Weight float64 `json:"weight,omitempty"` // kg
}

type StorageLocation struct {
	Zone         string `json:"zone"`
	Aisle        string `json:"aisle,omitempty"`
	Shelf        string `json:"shelf,omitempty"`
	Bin          string `json:"bin,omitempty"`
	LocationCode string `json:"locationCode"`
}

type Supplier struct {
	Name          string `json:"name"`
	ContactPerson string `json:"contactPerson,omitempty"`
	Phone         string `json:"phone,omitempty"`
	Email         string `json:"email,omitempty"`
	Address       string `json:"address,omitempty"`
}

type Item struct {
	ID          uuid.UUID
	ItemID      string
	SKU         string
	WarehouseID uuid.UUID

	ItemName    string
	Category    Category
	Description string

	Quantity          int
	MinThreshold      int
	MaxCapacity       int
	ReservedQuantity  int
	AvailableQuantity int

	UnitPrice  float64
	TotalValue float64
	Currency   string

	Dimensions ItemDimensions
	Location   StorageLocation
	Supplier   Supplier

	ArrivalDate      time.Time
	ExpiryDate       *time.Time
	LastMovementDate time.Time

	Status    Status
	Condition Condition

	MovementHistory []Movement
	Alerts          []Alert

	Tags    []string
	Barcode string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StockStatus derives the stock state from quantity vs threshold.
func (i *Item) StockStatus() Status {
	switch {
	case i.Quantity == 0:
		return StatusOutOfStock
	case i.Quantity <= i.MinThreshold:
		return StatusLowStock
	default:
		return StatusInStock
	}
}

// DaysUntilExpiry returns the ceiling of the time to expiry in days, or nil
// when no expiry date is set.
func (i *Item) DaysUntilExpiry(now time.Time) *int {
	if i.ExpiryDate == nil {
		return nil
	}
	days := int(math.Ceil(i.ExpiryDate.Sub(now).Hours() / 24))
	return &days
}

// RecomputeDerived refreshes every derived field from the authoritative
// ones. Derived values are stored, never left to be computed lazily on read.
func (i *Item) RecomputeDerived() {
	i.AvailableQuantity = i.Quantity - i.ReservedQuantity
	if i.AvailableQuantity < 0 {
		i.AvailableQuantity = 0
	}
	i.TotalValue = float64(i.Quantity) * i.UnitPrice
	if !i.Status.Override() {
		i.Status = i.StockStatus()
	}
}

// RecomputeAlerts replaces the active alert set from current thresholds.
// Inactive leftovers are discarded first.
func (i *Item) RecomputeAlerts(now time.Time) {
	i.Alerts = i.Alerts[:0]

	if i.Quantity > 0 && i.Quantity <= i.MinThreshold {
		i.Alerts = append(i.Alerts, Alert{
			Type:      AlertLowStock,
			Message:   fmt.Sprintf("Stock is running low. Current: %d, Minimum: %d", i.Quantity, i.MinThreshold),
			IsActive:  true,
			CreatedAt: now,
		})
	}

	if i.Quantity == 0 {
		i.Alerts = append(i.Alerts, Alert{
			Type:      AlertOutOfStock,
			Message:   "Item is out of stock",
			IsActive:  true,
			CreatedAt: now,
		})
	}

	if days := i.DaysUntilExpiry(now); days != nil && *days > 0 && *days <= 30 {
		i.Alerts = append(i.Alerts, Alert{
			Type:      AlertExpiryWarning,
			Message:   fmt.Sprintf("Item expires in %d days", *days),
			IsActive:  true,
			CreatedAt: now,
		})
	}
}

// AppendMovement records one audit entry and bumps the movement timestamp.
func (i *Item) AppendMovement(m Movement) {
	i.MovementHistory = append(i.MovementHistory, m)
	i.LastMovementDate = m.Timestamp
}

// NewItemID builds an item id of the form INV<6-digit-time><3-digit-random>.
func NewItemID(now time.Time) string {
	ts := fmt.Sprintf("%d", now.UnixMilli())
	if len(ts) > 6 {
		ts = ts[len(ts)-6:]
	}
	return fmt.Sprintf("INV%s%03d", ts, rand.Intn(1000))
}

// NewSKU builds <CAT3>-<NAME3>-<4-digit-random> from category and item name.
// Collisions are left to the store's unique index.
func NewSKU(category Category, itemName string) string {
	categoryCode := strings.ToUpper(firstN(string(category), 3))
	nameCode := strings.ToUpper(firstN(strings.ReplaceAll(itemName, " ", ""), 3))
	return fmt.Sprintf("%s-%s-%04d", categoryCode, nameCode, rand.Intn(10000))
}

func firstN(s string, n int) string {
	if len(s) < n {
		return s
	}
	return s[:n]
}
