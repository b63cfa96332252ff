package repository

import (
	"context"

	"sms-gateway/backend/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	// List returns audit logs newest first, paginated by limit and offset.
	List(ctx context.Context, limit, offset int) ([]*domain.AuditLog, error)
}
