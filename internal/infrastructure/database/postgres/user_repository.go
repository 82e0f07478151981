package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	domUser "msme-logistics/internal/domain/user"
	"msme-logistics/internal/infrastructure/database/postgres/models"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, u *domUser.User) error {
	model := models.ToUserModel(u)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return domUser.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*domUser.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return model.ToEntity(), nil
}

func (r *UserRepository) GetByID(ctx context.Context, userID uuid.UUID) (*domUser.User, error) {
	var model models.UserModel
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&model).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domUser.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return model.ToEntity(), nil
}

func (r *UserRepository) List(ctx context.Context, filter domUser.Filter) ([]*domUser.User, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.UserModel{})

	if len(filter.Roles) > 0 {
		roles := make([]string, 0, len(filter.Roles))
		for _, role := range filter.Roles {
			roles = append(roles, string(role))
		}
		query = query.Where("role IN ?", roles)
	}
	if filter.OnlyActive {
		query = query.Where("is_active = ?", true)
	}
	if filter.Search != "" {
		pattern := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count users: %w", err)
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	limit := filter.Limit
	if limit < 1 {
		limit = 10
	}

	var rows []models.UserModel
	err := query.
		Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list users: %w", err)
	}

	users := make([]*domUser.User, 0, len(rows))
	for i := range rows {
		users = append(users, rows[i].ToEntity())
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, u *domUser.User) error {
	model := models.ToUserModel(u)
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", u.ID).
		Select("*").
		Omit("id", "created_at").
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domUser.ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) Deactivate(ctx context.Context, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Model(&models.UserModel{}).
		Where("id = ?", userID).
		Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domUser.ErrUserNotFound
	}
	return nil
}
