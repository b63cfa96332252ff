package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sms-gateway/backend/internal/device/domain"
)

// deviceStore is keyed by the hardware DeviceID, mirroring the unique index in Postgres.
type deviceStore struct {
	store map[string]domain.Device
	sync.RWMutex
}

func newDeviceStore() *deviceStore {
	return &deviceStore{store: make(map[string]domain.Device)}
}

func (s *deviceStore) Upsert(_ context.Context, d *domain.Device) (bool, error) {
	s.Lock()
	defer s.Unlock()
	existing, ok := s.store[d.DeviceID]
	if !ok {
		s.store[d.DeviceID] = *d
		return true, nil
	}
	next := *d
	next.ID = existing.ID
	next.CreatedAt = existing.CreatedAt
	if next.UserID == "" {
		next.UserID = existing.UserID
	}
	s.store[d.DeviceID] = next
	return false, nil
}

func (s *deviceStore) GetByDeviceID(_ context.Context, deviceID string) (*domain.Device, error) {
	s.RLock()
	defer s.RUnlock()
	if d, ok := s.store[deviceID]; ok {
		return &d, nil
	}
	return nil, nil
}

func (s *deviceStore) GetForUser(_ context.Context, userID, deviceID string) (*domain.Device, error) {
	s.RLock()
	defer s.RUnlock()
	if d, ok := s.store[deviceID]; ok && d.UserID == userID {
		return &d, nil
	}
	return nil, nil
}

func (s *deviceStore) ListByUser(_ context.Context, userID string) ([]*domain.Device, error) {
	s.RLock()
	defer s.RUnlock()
	out := []*domain.Device{}
	for _, d := range s.store {
		if d.UserID == userID {
			d := d
			out = append(out, &d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LastActive.After(out[j].LastActive) })
	return out, nil
}

func (s *deviceStore) DeleteForUser(_ context.Context, userID, deviceID string) error {
	s.Lock()
	defer s.Unlock()
	if d, ok := s.store[deviceID]; ok && d.UserID == userID {
		delete(s.store, deviceID)
	}
	return nil
}

func (s *deviceStore) CountByUser(_ context.Context, userID string) (int64, error) {
	s.RLock()
	defer s.RUnlock()
	var n int64
	for _, d := range s.store {
		if d.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *deviceStore) MarkInactiveBefore(_ context.Context, cutoff time.Time) (int64, error) {
	s.Lock()
	defer s.Unlock()
	var n int64
	for id, d := range s.store {
		if d.IsActive && d.LastActive.Before(cutoff) {
			d.IsActive = false
			s.store[id] = d
			n++
		}
	}
	return n, nil
}
