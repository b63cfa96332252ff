package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sms-gateway/backend/internal/outbound/domain"
	"sms-gateway/backend/internal/outbound/repository"
)

// OutboundService manages the queue of SMS the dashboard asks phones to send.
type OutboundService struct {
	repo repository.Repository
	now  func() time.Time
}

func NewOutboundService(repo repository.Repository) *OutboundService {
	return &OutboundService{repo: repo, now: func() time.Time { return time.Now().UTC() }}
}

// Queue validates and enqueues an SMS for userID.
func (s *OutboundService) Queue(ctx context.Context, userID string, o *domain.OutboundSMS) error {
	if err := o.Validate(); err != nil {
		return err
	}
	o.ID = uuid.New().String()
	o.UserID = userID
	o.Sent = false
	o.CreatedAt = s.now()
	return s.repo.Create(ctx, o)
}

// Pending returns the unsent SMS for a device, oldest first.
func (s *OutboundService) Pending(ctx context.Context, deviceID string) ([]*domain.OutboundSMS, error) {
	return s.repo.ListPendingByDevice(ctx, deviceID)
}

// MarkSent removes a delivered SMS from the queue. Unknown ids are ignored.
func (s *OutboundService) MarkSent(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// ListForUser returns the SMS the user has queued, newest first.
func (s *OutboundService) ListForUser(ctx context.Context, userID string) ([]*domain.OutboundSMS, error) {
	return s.repo.ListByUser(ctx, userID)
}
