package repository

import (
	"context"

	"sms-gateway/backend/internal/user/domain"
)

// Repository defines persistence for login accounts.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	// Create returns domain.ErrUsernameTaken when the username exists.
	Create(ctx context.Context, u *domain.User) error
	// Update overwrites username, password hash, role, validUpto and phone. Returns domain.ErrUsernameTaken on rename conflicts.
	Update(ctx context.Context, u *domain.User) error
	Delete(ctx context.Context, id string) error
	// UpdatePasswordIfMatch swaps the hash only when the stored hash still equals oldHash. Returns false when nothing changed.
	UpdatePasswordIfMatch(ctx context.Context, id, oldHash, newHash string) (bool, error)
	UpdatePhone(ctx context.Context, id, phone string) error
}
