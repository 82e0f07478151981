package user

import (
	"time"

	"github.com/google/uuid"

	domUser "msme-logistics/internal/domain/user"
)

type RegisterRequest struct {
	Name     string          `json:"name" validate:"required,min=2,max=100"`
	Email    string          `json:"email" validate:"required,email"`
	Phone    string          `json:"phone" validate:"required,phone"`
	Password string          `json:"password" validate:"required,min=6"`
	Role     string          `json:"role" validate:"required,user_role"`
	Language string          `json:"language" validate:"omitempty,max=10"`
	Address  domUser.Address `json:"address"`

	MSMEDetails      *domUser.MSMEDetails      `json:"msmeDetails"`
	DriverDetails    *domUser.DriverDetails    `json:"driverDetails"`
	WarehouseDetails *domUser.WarehouseDetails `json:"warehouseDetails"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateProfileRequest struct {
	Name     *string          `json:"name" validate:"omitempty,min=2,max=100"`
	Phone    *string          `json:"phone" validate:"omitempty,phone"`
	Language *string          `json:"language" validate:"omitempty,max=10"`
	Address  *domUser.Address `json:"address"`

	MSMEDetails      *domUser.MSMEDetails      `json:"msmeDetails"`
	DriverDetails    *domUser.DriverDetails    `json:"driverDetails"`
	WarehouseDetails *domUser.WarehouseDetails `json:"warehouseDetails"`
}

type ListFilterRequest struct {
	Role   string `form:"role"`
	Search string `form:"search"`
	Page   int    `form:"page,default=1"`
	Limit  int    `form:"limit,default=10"`
}

type UserResponse struct {
	ID       uuid.UUID       `json:"id"`
	Name     string          `json:"name"`
	Email    string          `json:"email"`
	Phone    string          `json:"phone"`
	Role     string          `json:"role"`
	Language string          `json:"language,omitempty"`
	IsActive bool            `json:"isActive"`
	Address  domUser.Address `json:"address"`

	MSMEDetails      *domUser.MSMEDetails      `json:"msmeDetails,omitempty"`
	DriverDetails    *domUser.DriverDetails    `json:"driverDetails,omitempty"`
	WarehouseDetails *domUser.WarehouseDetails `json:"warehouseDetails,omitempty"`

	LastLogin *time.Time `json:"lastLogin,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

type AuthResponse struct {
	User  *UserResponse `json:"user"`
	Token string        `json:"token"`
}

type ListResponse struct {
	Users      []*UserResponse `json:"users"`
	Pagination Pagination      `json:"pagination"`
}

type Pagination struct {
	Current int   `json:"current"`
	Pages   int   `json:"pages"`
	Total   int64 `json:"total"`
	Limit   int   `json:"limit"`
}

func ToUserResponse(u *domUser.User) *UserResponse {
	return &UserResponse{
		ID:               u.ID,
		Name:             u.Name,
		Email:            u.Email,
		Phone:            u.Phone,
		Role:             string(u.Role),
		Language:         u.Language,
		IsActive:         u.IsActive,
		Address:          u.Address,
		MSMEDetails:      u.MSMEDetails,
		DriverDetails:    u.DriverDetails,
		WarehouseDetails: u.WarehouseDetails,
		LastLogin:        u.LastLogin,
		CreatedAt:        u.CreatedAt,
	}
}
