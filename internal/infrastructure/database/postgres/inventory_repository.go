package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domInventory "msme-logistics/internal/domain/inventory"
	"msme-logistics/internal/infrastructure/database/postgres/models"
)

type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) Create(ctx context.Context, item *domInventory.Item) error {
	model := models.ToInventoryModel(item)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domInventory.ErrDuplicateIdentifier
		}
		return fmt.Errorf("failed to create inventory item: %w", err)
	}
	return nil
}

func (r *InventoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domInventory.Item, error) {
	var model models.InventoryModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domInventory.ErrItemNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	return model.ToEntity(), nil
}

func (r *InventoryRepository) List(ctx context.Context, filter domInventory.Filter) ([]*domInventory.Item, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.InventoryModel{})

	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Category != nil {
		query = query.Where("category = ?", string(*filter.Category))
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(item_name) LIKE ? OR LOWER(sku) LIKE ? OR LOWER(supplier->>'name') LIKE ? OR LOWER(location->>'locationCode') LIKE ?",
			pattern, pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count inventory: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var rows []models.InventoryModel
	err := query.
		Order(sortClause(filter.SortBy, filter.SortOrder)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list inventory: %w", err)
	}

	items := make([]*domInventory.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToEntity())
	}
	return items, total, nil
}

// Mutate loads the row FOR UPDATE inside a transaction, applies fn to the
// entity and writes the result back. The availability check in a reservation
// and its write are one atomic step under the row lock.
func (r *InventoryRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*domInventory.Item) error) (*domInventory.Item, error) {
	var mutated *domInventory.Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.InventoryModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domInventory.ErrItemNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock inventory item: %w", err)
		}

		entity := model.ToEntity()
		if err := fn(entity); err != nil {
			return err
		}

		updated := models.ToInventoryModel(entity)
		if err := tx.
			Model(&models.InventoryModel{}).
			Where("id = ?", id).
			Select("*").
			Omit("id", "created_at").
			Updates(updated).Error; err != nil {
			return fmt.Errorf("failed to update inventory item: %w", err)
		}

		mutated = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

func (r *InventoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.InventoryModel{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete inventory item: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domInventory.ErrItemNotFound
	}
	return nil
}

// ListWithActiveAlerts returns the warehouse's items whose alert document
// contains at least one active entry.
func (r *InventoryRepository) ListWithActiveAlerts(ctx context.Context, warehouseID uuid.UUID) ([]*domInventory.Item, error) {
	var rows []models.InventoryModel
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Where(`EXISTS (
			SELECT 1 FROM jsonb_array_elements(alerts) AS alert
			WHERE (alert->>'isActive')::boolean
		)`).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list items with alerts: %w", err)
	}

	items := make([]*domInventory.Item, 0, len(rows))
	for i := range rows {
		items = append(items, rows[i].ToEntity())
	}
	return items, nil
}

func (r *InventoryRepository) Summarize(ctx context.Context, warehouseID uuid.UUID) (*domInventory.Summary, error) {
	var summary domInventory.Summary
	err := r.db.WithContext(ctx).
		Model(&models.InventoryModel{}).
		Where("warehouse_id = ?", warehouseID).
		Select(`
			COUNT(*) AS total_items,
			COALESCE(SUM(total_value), 0) AS total_value,
			COALESCE(SUM(quantity), 0) AS total_quantity,
			COUNT(*) FILTER (WHERE status = 'low-stock') AS low_stock_items,
			COUNT(*) FILTER (WHERE status = 'out-of-stock') AS out_of_stock_items,
			COALESCE(AVG(total_value), 0) AS average_value`).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize inventory: %w", err)
	}

	var breakdown []domInventory.CategoryBreakdown
	err = r.db.WithContext(ctx).
		Model(&models.InventoryModel{}).
		Where("warehouse_id = ?", warehouseID).
		Select(`
			category,
			COUNT(*) AS count,
			COALESCE(SUM(total_value), 0) AS total_value,
			COALESCE(SUM(quantity), 0) AS total_quantity`).
		Group("category").
		Order("total_value DESC").
		Scan(&breakdown).Error
	if err != nil {
		return nil, fmt.Errorf("failed to build category breakdown: %w", err)
	}
	summary.CategoryBreakdown = breakdown

	return &summary, nil
}
