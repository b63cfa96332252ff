package repository

import (
	"context"
	"time"

	"sms-gateway/backend/internal/device/domain"
)

// Repository defines persistence for device snapshots.
type Repository interface {
	// Upsert inserts or replaces the snapshot keyed by DeviceID. created reports whether a new row was inserted.
	Upsert(ctx context.Context, d *domain.Device) (created bool, err error)
	// GetByDeviceID returns the device whoever owns it, or nil if not found.
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.Device, error)
	// GetForUser returns the device owned by userID, or nil if not found.
	GetForUser(ctx context.Context, userID, deviceID string) (*domain.Device, error)
	// ListByUser returns the user's devices, most recently active first.
	ListByUser(ctx context.Context, userID string) ([]*domain.Device, error)
	DeleteForUser(ctx context.Context, userID, deviceID string) error
	CountByUser(ctx context.Context, userID string) (int64, error)
	// MarkInactiveBefore flips isActive to false on every active device last seen before cutoff and returns the count.
	MarkInactiveBefore(ctx context.Context, cutoff time.Time) (int64, error)
}
