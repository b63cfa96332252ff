package memory

import (
	"context"
	"sort"
	"sync"

	"sms-gateway/backend/internal/entry/domain"
)

// entryStore is keyed by the client key.
type entryStore struct {
	store map[string]*domain.Entry
	sync.RWMutex
}

func newEntryStore() *entryStore {
	return &entryStore{store: make(map[string]*domain.Entry)}
}

func (s *entryStore) GetByKey(_ context.Context, key string) (*domain.Entry, error) {
	s.RLock()
	defer s.RUnlock()
	if e, ok := s.store[key]; ok {
		return cloneEntry(e), nil
	}
	return nil, nil
}

func (s *entryStore) Upsert(_ context.Context, e *domain.Entry) (bool, error) {
	s.Lock()
	defer s.Unlock()
	existing, ok := s.store[e.Key]
	if !ok {
		s.store[e.Key] = cloneEntry(e)
		return true, nil
	}
	existing.Merge(e)
	return false, nil
}

func (s *entryStore) ListByUser(_ context.Context, userID string) ([]*domain.Entry, error) {
	s.RLock()
	defer s.RUnlock()
	return s.newestFirst(func(e *domain.Entry) bool { return e.UserID == userID }), nil
}

func (s *entryStore) ListByUserAndDevice(_ context.Context, userID, deviceID string) ([]*domain.Entry, error) {
	s.RLock()
	defer s.RUnlock()
	return s.newestFirst(func(e *domain.Entry) bool { return e.UserID == userID && e.DeviceID == deviceID }), nil
}

func (s *entryStore) DeleteForUser(_ context.Context, userID, id string) error {
	s.Lock()
	defer s.Unlock()
	for key, e := range s.store {
		if e.ID == id && e.UserID == userID {
			delete(s.store, key)
		}
	}
	return nil
}

func (s *entryStore) CountByUser(_ context.Context, userID string) (int64, error) {
	s.RLock()
	defer s.RUnlock()
	var n int64
	for _, e := range s.store {
		if e.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *entryStore) newestFirst(match func(*domain.Entry) bool) []*domain.Entry {
	out := []*domain.Entry{}
	for _, e := range s.store {
		if match(e) {
			out = append(out, cloneEntry(e))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func cloneEntry(e *domain.Entry) *domain.Entry {
	c := *e
	c.Data = make(map[string]any, len(e.Data))
	for k, v := range e.Data {
		c.Data[k] = v
	}
	return &c
}
