package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"sms-gateway/backend/internal/user/domain"
)

type userStore struct {
	store map[string]domain.User
	sync.RWMutex
}

func newUserStore() *userStore {
	return &userStore{store: make(map[string]domain.User)}
}

func (s *userStore) GetByID(_ context.Context, id string) (*domain.User, error) {
	s.RLock()
	defer s.RUnlock()
	if u, ok := s.store[id]; ok {
		return &u, nil
	}
	return nil, nil
}

func (s *userStore) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	s.RLock()
	defer s.RUnlock()
	for _, u := range s.store {
		if u.Username == username {
			return &u, nil
		}
	}
	return nil, nil
}

func (s *userStore) List(_ context.Context) ([]*domain.User, error) {
	s.RLock()
	defer s.RUnlock()
	out := make([]*domain.User, 0, len(s.store))
	for _, u := range s.store {
		u := u
		out = append(out, &u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *userStore) Create(_ context.Context, u *domain.User) error {
	s.Lock()
	defer s.Unlock()
	if s.usernameTaken(u.Username, u.ID) {
		return domain.ErrUsernameTaken
	}
	s.store[u.ID] = *u
	return nil
}

func (s *userStore) Update(_ context.Context, u *domain.User) error {
	s.Lock()
	defer s.Unlock()
	if _, ok := s.store[u.ID]; !ok {
		return nil
	}
	if s.usernameTaken(u.Username, u.ID) {
		return domain.ErrUsernameTaken
	}
	s.store[u.ID] = *u
	return nil
}

func (s *userStore) Delete(_ context.Context, id string) error {
	s.Lock()
	defer s.Unlock()
	delete(s.store, id)
	return nil
}

func (s *userStore) UpdatePasswordIfMatch(_ context.Context, id, oldHash, newHash string) (bool, error) {
	s.Lock()
	defer s.Unlock()
	u, ok := s.store[id]
	if !ok || u.PasswordHash != oldHash {
		return false, nil
	}
	u.PasswordHash = newHash
	u.UpdatedAt = time.Now().UTC()
	s.store[id] = u
	return true, nil
}

func (s *userStore) UpdatePhone(_ context.Context, id, phone string) error {
	s.Lock()
	defer s.Unlock()
	if u, ok := s.store[id]; ok {
		u.PhoneNumber = phone
		u.UpdatedAt = time.Now().UTC()
		s.store[id] = u
	}
	return nil
}

// usernameTaken must be called with the lock held.
func (s *userStore) usernameTaken(username, exceptID string) bool {
	for id, u := range s.store {
		if id != exceptID && u.Username == username {
			return true
		}
	}
	return false
}
