package models

import (
	"time"

	"github.com/google/uuid"

	domUser "msme-logistics/internal/domain/user"
)

// UserModel is the database row for platform accounts. Role-specific detail
// blocks are document-shaped and stored as jsonb.
type UserModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name         string    `gorm:"type:varchar(100);not null"`
	Email        string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	Phone        string    `gorm:"type:varchar(20);not null;uniqueIndex"`
	PasswordHash string    `gorm:"type:varchar(255);not null"`
	Role         string    `gorm:"type:varchar(20);not null;index"`
	Language     string    `gorm:"type:varchar(10);default:'en'"`
	IsActive     bool      `gorm:"default:true;not null;index"`
	IsVerified   bool      `gorm:"default:false;not null"`

	Address          domUser.Address           `gorm:"type:jsonb;serializer:json"`
	MSMEDetails      *domUser.MSMEDetails      `gorm:"type:jsonb;serializer:json"`
	DriverDetails    *domUser.DriverDetails    `gorm:"type:jsonb;serializer:json"`
	WarehouseDetails *domUser.WarehouseDetails `gorm:"type:jsonb;serializer:json"`

	LastLogin *time.Time `gorm:"type:timestamptz"`
	CreatedAt time.Time  `gorm:"not null"`
	UpdatedAt time.Time  `gorm:"not null"`
}

func (UserModel) TableName() string {
	return "users"
}

func ToUserModel(u *domUser.User) *UserModel {
	return &UserModel{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		PasswordHash:     u.PasswordHash,
		Role:             string(u.Role),
		Language:         u.Language,
		IsActive:         u.IsActive,
		IsVerified:       u.IsVerified,
		Address:          u.Address,
		MSMEDetails:      u.MSMEDetails,
		DriverDetails:    u.DriverDetails,
		WarehouseDetails: u.WarehouseDetails,
		LastLogin:        u.LastLogin,
		CreatedAt:        u.CreatedAt,
		UpdatedAt:        u.UpdatedAt,
	}
}

func (m *UserModel) ToEntity() *domUser.User {
	return &domUser.User{
		ID:               m.ID,
		Name:             m.Name,
		Email:            m.Email,
		Phone:            m.Phone,
		PasswordHash:     m.PasswordHash,
		Role:             domUser.Role(m.Role),
		Language:         m.Language,
		IsActive:         m.IsActive,
		IsVerified:       m.IsVerified,
		Address:          m.Address,
		MSMEDetails:      m.MSMEDetails,
		DriverDetails:    m.DriverDetails,
		WarehouseDetails: m.WarehouseDetails,
		LastLogin:        m.LastLogin,
		CreatedAt:        m.CreatedAt,
		UpdatedAt:        m.UpdatedAt,
	}
}
