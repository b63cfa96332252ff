package repository

import (
	"context"

	"sms-gateway/backend/internal/entry/domain"
)

// Repository defines persistence for entries.
type Repository interface {
	// GetByKey returns the entry with the client key, or nil if not found.
	GetByKey(ctx context.Context, key string) (*domain.Entry, error)
	// Upsert inserts e or merges its fields into the existing entry with the same key.
	// created reports whether a new row was inserted.
	Upsert(ctx context.Context, e *domain.Entry) (created bool, err error)
	// ListByUser returns the user's entries, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Entry, error)
	ListByUserAndDevice(ctx context.Context, userID, deviceID string) ([]*domain.Entry, error)
	// DeleteForUser removes the entry with record id owned by userID. Missing rows are not an error.
	DeleteForUser(ctx context.Context, userID, id string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
}
