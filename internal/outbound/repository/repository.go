package repository

import (
	"context"

	"sms-gateway/backend/internal/outbound/domain"
)

// Repository defines persistence for the outbound SMS queue.
type Repository interface {
	Create(ctx context.Context, o *domain.OutboundSMS) error
	// ListPendingByDevice returns unsent rows for the device, oldest first.
	ListPendingByDevice(ctx context.Context, deviceID string) ([]*domain.OutboundSMS, error)
	// ListByUser returns the user's queued rows, newest first.
	ListByUser(ctx context.Context, userID string) ([]*domain.OutboundSMS, error)
	// Delete removes the row. Missing rows are not an error.
	Delete(ctx context.Context, id string) error
}
