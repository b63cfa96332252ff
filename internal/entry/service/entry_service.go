package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sms-gateway/backend/internal/entry/domain"
	"sms-gateway/backend/internal/entry/repository"
)

// StatsInvalidator drops cached dashboard counters for a user.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// EntryService stores and queries free-form entries.
type EntryService struct {
	repo  repository.Repository
	stats StatsInvalidator
	now   func() time.Time
}

// NewEntryService returns an EntryService. stats may be nil.
func NewEntryService(repo repository.Repository, stats StatsInvalidator) *EntryService {
	return &EntryService{repo: repo, stats: stats, now: func() time.Time { return time.Now().UTC() }}
}

// Store upserts the payload by its "id" field. created is false when an existing entry was updated.
// Moving an entry to another userId drops the cached counters of both users.
func (s *EntryService) Store(ctx context.Context, payload map[string]any) (bool, error) {
	e, err := domain.FromPayload(payload)
	if err != nil {
		return false, err
	}
	prev, err := s.repo.GetByKey(ctx, e.Key)
	if err != nil {
		return false, err
	}
	now := s.now()
	e.ID = uuid.New().String()
	e.CreatedAt = now
	e.UpdatedAt = now
	created, err := s.repo.Upsert(ctx, e)
	if err != nil {
		return false, err
	}
	if s.stats == nil {
		return created, nil
	}
	prevOwner, owner := "", e.UserID
	if prev != nil {
		prevOwner = prev.UserID
	}
	if owner == "" {
		owner = prevOwner
	}
	if created || owner != prevOwner {
		if prevOwner != "" && prevOwner != owner {
			s.stats.Invalidate(ctx, prevOwner)
		}
		if owner != "" {
			s.stats.Invalidate(ctx, owner)
		}
	}
	return created, nil
}

func (s *EntryService) ListForUser(ctx context.Context, userID string) ([]*domain.Entry, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *EntryService) ListForDevice(ctx context.Context, userID, deviceID string) ([]*domain.Entry, error) {
	return s.repo.ListByUserAndDevice(ctx, userID, deviceID)
}

// Delete removes one of the user's entries by record id. Idempotent.
func (s *EntryService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteForUser(ctx, userID, id); err != nil {
		return err
	}
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	return nil
}
