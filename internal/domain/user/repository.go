package user

import (
	"context"

	"github.com/google/uuid"
)

// Filter narrows user listings.
type Filter struct {
	Roles      []Role
	Search     string
	OnlyActive bool
	Page       int
	Limit      int
}

// Repository is the persistence port for users.
type Repository interface {
	Create(ctx context.Context, user *User) error
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByID(ctx context.Context, userID uuid.UUID) (*User, error)
	List(ctx context.Context, filter Filter) ([]*User, int64, error)
	Update(ctx context.Context, user *User) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
}
