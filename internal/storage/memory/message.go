package memory

import (
	"context"
	"sort"
	"sync"

	"sms-gateway/backend/internal/message/domain"
)

type messageStore struct {
	store   map[string]domain.Message
	nextSeq int64
	sync.RWMutex
}

func newMessageStore() *messageStore {
	return &messageStore{store: make(map[string]domain.Message), nextSeq: 1}
}

func (s *messageStore) Create(_ context.Context, m *domain.Message) error {
	s.Lock()
	defer s.Unlock()
	m.Seq = s.nextSeq
	s.nextSeq++
	s.store[m.ID] = *m
	return nil
}

func (s *messageStore) ListByUser(_ context.Context, userID string) ([]*domain.Message, error) {
	s.RLock()
	defer s.RUnlock()
	return s.newestFirst(func(m *domain.Message) bool { return m.UserID == userID }), nil
}

func (s *messageStore) ListByUserAndDevice(_ context.Context, userID, deviceID string) ([]*domain.Message, error) {
	s.RLock()
	defer s.RUnlock()
	return s.newestFirst(func(m *domain.Message) bool { return m.UserID == userID && m.DeviceID == deviceID }), nil
}

func (s *messageStore) DeleteByUser(_ context.Context, userID string) (int64, error) {
	s.Lock()
	defer s.Unlock()
	return s.deleteWhere(func(m *domain.Message) bool { return m.UserID == userID }), nil
}

func (s *messageStore) DeleteByUserAndDevice(_ context.Context, userID, deviceID string) (int64, error) {
	s.Lock()
	defer s.Unlock()
	return s.deleteWhere(func(m *domain.Message) bool { return m.UserID == userID && m.DeviceID == deviceID }), nil
}

func (s *messageStore) CountByUser(_ context.Context, userID string) (int64, error) {
	s.RLock()
	defer s.RUnlock()
	var n int64
	for _, m := range s.store {
		if m.UserID == userID {
			n++
		}
	}
	return n, nil
}

func (s *messageStore) TrimUser(_ context.Context, userID string, keep int) (int64, error) {
	s.Lock()
	defer s.Unlock()
	return s.trim(func(m *domain.Message) bool { return m.UserID == userID }, keep), nil
}

func (s *messageStore) TrimDevice(_ context.Context, deviceID string, keep int) (int64, error) {
	s.Lock()
	defer s.Unlock()
	return s.trim(func(m *domain.Message) bool { return m.DeviceID == deviceID }, keep), nil
}

// The helpers below must be called with the lock held.

func (s *messageStore) newestFirst(match func(*domain.Message) bool) []*domain.Message {
	out := []*domain.Message{}
	for _, m := range s.store {
		m := m
		if match(&m) {
			out = append(out, &m)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].Seq > out[j].Seq
	})
	return out
}

func (s *messageStore) trim(match func(*domain.Message) bool, keep int) int64 {
	ordered := s.newestFirst(match)
	if len(ordered) <= keep {
		return 0
	}
	for _, m := range ordered[keep:] {
		delete(s.store, m.ID)
	}
	return int64(len(ordered) - keep)
}

func (s *messageStore) deleteWhere(match func(*domain.Message) bool) int64 {
	var n int64
	for id, m := range s.store {
		if match(&m) {
			delete(s.store, id)
			n++
		}
	}
	return n
}
