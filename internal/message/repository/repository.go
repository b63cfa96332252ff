package repository

import (
	"context"

	"sms-gateway/backend/internal/message/domain"
)

// Repository defines persistence for inbound messages. Lists are newest first
// (created_at desc, then insert order desc).
type Repository interface {
	Create(ctx context.Context, m *domain.Message) error
	ListByUser(ctx context.Context, userID string) ([]*domain.Message, error)
	ListByUserAndDevice(ctx context.Context, userID, deviceID string) ([]*domain.Message, error)
	DeleteByUser(ctx context.Context, userID string) (int64, error)
	DeleteByUserAndDevice(ctx context.Context, userID, deviceID string) (int64, error)
	CountByUser(ctx context.Context, userID string) (int64, error)
	// TrimUser deletes all but the newest keep messages of the user and returns how many were removed.
	TrimUser(ctx context.Context, userID string, keep int) (int64, error)
	// TrimDevice deletes all but the newest keep messages of the device and returns how many were removed.
	TrimDevice(ctx context.Context, deviceID string, keep int) (int64, error)
}
