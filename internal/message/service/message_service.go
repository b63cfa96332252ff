package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/message/domain"
	"sms-gateway/backend/internal/message/repository"
	"sms-gateway/backend/internal/telemetry"
)

// StatsInvalidator drops cached dashboard counters for a user.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// MessageService stores inbound messages and keeps each user's and each device's log
// within the retention limit.
type MessageService struct {
	repo    repository.Repository
	limit   int
	stats   StatsInvalidator
	emitter telemetry.EventEmitter
	now     func() time.Time
}

// NewMessageService returns a MessageService keeping the newest limit messages per user and per device.
// A non-positive limit falls back to domain.DefaultRetentionLimit. stats and emitter may be nil.
func NewMessageService(repo repository.Repository, limit int, stats StatsInvalidator, emitter telemetry.EventEmitter) *MessageService {
	if limit <= 0 {
		limit = domain.DefaultRetentionLimit
	}
	return &MessageService{
		repo:    repo,
		limit:   limit,
		stats:   stats,
		emitter: emitter,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Limit returns the retention window size.
func (s *MessageService) Limit() int { return s.limit }

// Store inserts m and then trims the owning user's and device's logs to the newest limit rows.
// When Store returns nil both counts are at most limit.
func (s *MessageService) Store(ctx context.Context, m *domain.Message) error {
	if err := m.Validate(); err != nil {
		return err
	}
	m.ID = uuid.New().String()
	if m.CreatedAt.IsZero() {
		m.CreatedAt = s.now()
	}
	if err := s.repo.Create(ctx, m); err != nil {
		return err
	}

	var trimmed int64
	if m.UserID != "" {
		n, err := s.repo.TrimUser(ctx, m.UserID, s.limit)
		if err != nil {
			return err
		}
		trimmed += n
	}
	n, err := s.repo.TrimDevice(ctx, m.DeviceID, s.limit)
	if err != nil {
		return err
	}
	trimmed += n

	if trimmed > 0 {
		log.WithFields(log.Fields{"user_id": m.UserID, "device_id": m.DeviceID, "trimmed": trimmed}).Debug("message: retention applied")
	}
	if m.UserID != "" && s.stats != nil {
		s.stats.Invalidate(ctx, m.UserID)
	}
	if ev, err := telemetry.NewEvent(telemetry.EventMessageStored, "api", map[string]any{"trimmed": trimmed}); err == nil {
		ev.UserID = m.UserID
		ev.DeviceID = m.DeviceID
		telemetry.EmitAsync(s.emitter, ctx, ev)
	}
	return nil
}

// ListForUser returns the user's messages, newest first.
func (s *MessageService) ListForUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	return s.repo.ListByUser(ctx, userID)
}

// ListForDevice returns the user's messages from one device, newest first.
func (s *MessageService) ListForDevice(ctx context.Context, userID, deviceID string) ([]*domain.Message, error) {
	return s.repo.ListByUserAndDevice(ctx, userID, deviceID)
}

// DeleteAllForUser removes every message of the user.
func (s *MessageService) DeleteAllForUser(ctx context.Context, userID string) (int64, error) {
	n, err := s.repo.DeleteByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	return n, nil
}

// DeleteAllForDevice removes the user's messages from one device.
func (s *MessageService) DeleteAllForDevice(ctx context.Context, userID, deviceID string) (int64, error) {
	n, err := s.repo.DeleteByUserAndDevice(ctx, userID, deviceID)
	if err != nil {
		return 0, err
	}
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	return n, nil
}
