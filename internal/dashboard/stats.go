// Package dashboard computes the per-user counters shown on the dashboard and by the admin user views.
package dashboard

import (
	"context"
	"fmt"
)

// Stats are the per-user totals.
type Stats struct {
	TotalData     int64 `json:"totalData"`
	TotalDevices  int64 `json:"totalDevices"`
	TotalMessages int64 `json:"totalMessages"`
}

// Counter counts the rows owned by a user. Implemented by the entry, device and message repositories.
type Counter interface {
	CountByUser(ctx context.Context, userID string) (int64, error)
}

// Cache stores computed stats. Implementations are best-effort and never fail the request.
type Cache interface {
	Get(ctx context.Context, userID string) (*Stats, bool)
	Set(ctx context.Context, userID string, s *Stats)
	Invalidate(ctx context.Context, userID string)
}

// Service computes stats, consulting the cache first when one is configured.
type Service struct {
	entries  Counter
	devices  Counter
	messages Counter
	cache    Cache
}

// NewService returns a stats Service. cache may be nil.
func NewService(entries, devices, messages Counter, cache Cache) *Service {
	return &Service{entries: entries, devices: devices, messages: messages, cache: cache}
}

// ForUser returns the counters for userID.
func (s *Service) ForUser(ctx context.Context, userID string) (*Stats, error) {
	if s.cache != nil {
		if st, ok := s.cache.Get(ctx, userID); ok {
			return st, nil
		}
	}
	var (
		st  Stats
		err error
	)
	if st.TotalData, err = s.entries.CountByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("count entries: %w", err)
	}
	if st.TotalDevices, err = s.devices.CountByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("count devices: %w", err)
	}
	if st.TotalMessages, err = s.messages.CountByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("count messages: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(ctx, userID, &st)
	}
	return &st, nil
}

// Invalidate drops cached stats for userID. Services call it after writes that change a count.
func (s *Service) Invalidate(ctx context.Context, userID string) {
	if s == nil || s.cache == nil || userID == "" {
		return
	}
	s.cache.Invalidate(ctx, userID)
}
