package memory

import (
	"context"
	"sort"
	"sync"

	"sms-gateway/backend/internal/outbound/domain"
)

type outboundStore struct {
	store map[string]domain.OutboundSMS
	sync.RWMutex
}

func newOutboundStore() *outboundStore {
	return &outboundStore{store: make(map[string]domain.OutboundSMS)}
}

func (s *outboundStore) Create(_ context.Context, o *domain.OutboundSMS) error {
	s.Lock()
	defer s.Unlock()
	s.store[o.ID] = *o
	return nil
}

func (s *outboundStore) ListPendingByDevice(_ context.Context, deviceID string) ([]*domain.OutboundSMS, error) {
	s.RLock()
	defer s.RUnlock()
	out := s.filter(func(o *domain.OutboundSMS) bool { return o.DeviceID == deviceID && !o.Sent })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *outboundStore) ListByUser(_ context.Context, userID string) ([]*domain.OutboundSMS, error) {
	s.RLock()
	defer s.RUnlock()
	out := s.filter(func(o *domain.OutboundSMS) bool { return o.UserID == userID })
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *outboundStore) Delete(_ context.Context, id string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.store, id)
	return nil
}

func (s *outboundStore) filter(match func(*domain.OutboundSMS) bool) []*domain.OutboundSMS {
	out := []*domain.OutboundSMS{}
	for _, o := range s.store {
		o := o
		if match(&o) {
			out = append(out, &o)
		}
	}
	return out
}
