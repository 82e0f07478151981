package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domDelivery "msme-logistics/internal/domain/delivery"
	"msme-logistics/internal/infrastructure/database/postgres/models"
)

type DeliveryRepository struct {
	db *gorm.DB
}

func NewDeliveryRepository(db *gorm.DB) *DeliveryRepository {
	return &DeliveryRepository{db: db}
}

func (r *DeliveryRepository) Create(ctx context.Context, d *domDelivery.Delivery) error {
	model := models.ToDeliveryModel(d)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domDelivery.ErrDuplicateOrderID
		}
		return fmt.Errorf("failed to create delivery: %w", err)
	}
	return nil
}

func (r *DeliveryRepository) GetByID(ctx context.Context, id uuid.UUID) (*domDelivery.Delivery, error) {
	var model models.DeliveryModel
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domDelivery.ErrDeliveryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get delivery: %w", err)
	}
	return model.ToEntity(), nil
}

func (r *DeliveryRepository) List(ctx context.Context, filter domDelivery.Filter) ([]*domDelivery.Delivery, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.DeliveryModel{})

	if filter.MSMEID != nil {
		query = query.Where("msme_id = ?", *filter.MSMEID)
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", string(*filter.Status))
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count deliveries: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var rows []models.DeliveryModel
	err := query.
		Order(sortClause(filter.SortBy, filter.SortOrder)).
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list deliveries: %w", err)
	}

	deliveries := make([]*domDelivery.Delivery, 0, len(rows))
	for i := range rows {
		deliveries = append(deliveries, rows[i].ToEntity())
	}
	return deliveries, total, nil
}

// Mutate loads the row FOR UPDATE inside a transaction, applies fn to the
// entity and writes the result back. Concurrent mutations of the same
// delivery serialize on the row lock.
func (r *DeliveryRepository) Mutate(ctx context.Context, id uuid.UUID, fn func(*domDelivery.Delivery) error) (*domDelivery.Delivery, error) {
	var mutated *domDelivery.Delivery
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var model models.DeliveryModel
		err := tx.
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			First(&model).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domDelivery.ErrDeliveryNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock delivery: %w", err)
		}

		entity := model.ToEntity()
		if err := fn(entity); err != nil {
			return err
		}

		updated := models.ToDeliveryModel(entity)
		if err := tx.
			Model(&models.DeliveryModel{}).
			Where("id = ?", id).
			Select("*").
			Omit("id", "created_at").
			Updates(updated).Error; err != nil {
			return fmt.Errorf("failed to update delivery: %w", err)
		}

		mutated = entity
		return nil
	})
	if err != nil {
		return nil, err
	}
	return mutated, nil
}

// Summarize aggregates the filtered deliveries since `since` days ago. The
// average rating reads the driver rating score out of the jsonb document.
func (r *DeliveryRepository) Summarize(ctx context.Context, filter domDelivery.Filter, since int) (*domDelivery.Summary, error) {
	query := r.db.WithContext(ctx).
		Model(&models.DeliveryModel{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -since))

	if filter.MSMEID != nil {
		query = query.Where("msme_id = ?", *filter.MSMEID)
	}
	if filter.DriverID != nil {
		query = query.Where("driver_id = ?", *filter.DriverID)
	}
	if filter.WarehouseID != nil {
		query = query.Where("warehouse_id = ?", *filter.WarehouseID)
	}

	var summary domDelivery.Summary
	err := query.
		Select(`
			COUNT(*) AS total_deliveries,
			COUNT(*) FILTER (WHERE status = 'delivered') AS completed_deliveries,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_deliveries,
			COUNT(*) FILTER (WHERE status IN ('picked', 'in-transit')) AS in_transit_deliveries,
			COALESCE(SUM((pricing->>'totalAmount')::numeric), 0) AS total_revenue,
			COALESCE(AVG((rating->'driverRating'->>'score')::numeric), 0) AS average_rating`).
		Scan(&summary).Error
	if err != nil {
		return nil, fmt.Errorf("failed to summarize deliveries: %w", err)
	}
	return &summary, nil
}

// sortClause whitelists the sortable columns; anything else falls back to
// creation time.
func sortClause(sortBy, sortOrder string) string {
	column := "created_at"
	switch sortBy {
	case "updatedAt":
		column = "updated_at"
	case "status":
		column = "status"
	case "scheduledPickupTime":
		column = "scheduled_pickup_time"
	case "createdAt", "":
	}

	direction := "DESC"
	if sortOrder == "asc" {
		direction = "ASC"
	}
	return column + " " + direction
}
