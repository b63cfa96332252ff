// Package service implements the admin operations on login accounts.
package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"sms-gateway/backend/internal/dashboard"
	"sms-gateway/backend/internal/security"
	"sms-gateway/backend/internal/user/domain"
	"sms-gateway/backend/internal/user/repository"
)

// StatsProvider returns the per-user counters. Implemented by dashboard.Service.
type StatsProvider interface {
	ForUser(ctx context.Context, userID string) (*dashboard.Stats, error)
}

// MessagePurger deletes every stored message of a user.
type MessagePurger interface {
	DeleteAllForUser(ctx context.Context, userID string) (int64, error)
}

// UserWithStats is a user plus its counters, serialized as one flat object.
type UserWithStats struct {
	*domain.User
	dashboard.Stats
}

// CreateInput holds the fields for a new account. All are required.
type CreateInput struct {
	Username  string
	Password  string
	ValidUpto time.Time
}

// UpdateInput holds optional changes; blank fields keep the current value.
type UpdateInput struct {
	Username  string
	Password  string
	ValidUpto time.Time
}

// UserService manages dashboard accounts on behalf of the admin.
type UserService struct {
	repo     repository.Repository
	hasher   *security.Hasher
	stats    StatsProvider
	messages MessagePurger
	now      func() time.Time
}

// NewUserService returns a UserService.
func NewUserService(repo repository.Repository, hasher *security.Hasher, stats StatsProvider, messages MessagePurger) *UserService {
	return &UserService{
		repo:     repo,
		hasher:   hasher,
		stats:    stats,
		messages: messages,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create adds an account. Returns domain.ErrMissingFields or domain.ErrUsernameTaken.
func (s *UserService) Create(ctx context.Context, in CreateInput) (*domain.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" || in.ValidUpto.IsZero() {
		return nil, domain.ErrMissingFields
	}
	existing, err := s.repo.GetByUsername(ctx, in.Username)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrUsernameTaken
	}
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := s.now()
	u := &domain.User{
		ID:           uuid.New().String(),
		Username:     in.Username,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		ValidUpto:    in.ValidUpto.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := u.Validate(); err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// List returns every account with its counters.
func (s *UserService) List(ctx context.Context) ([]UserWithStats, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]UserWithStats, 0, len(users))
	for _, u := range users {
		st, err := s.stats.ForUser(ctx, u.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, UserWithStats{User: u, Stats: *st})
	}
	return out, nil
}

// Get returns the account with its counters, or domain.ErrNotFound.
func (s *UserService) Get(ctx context.Context, id string) (*UserWithStats, error) {
	u, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	st, err := s.stats.ForUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserWithStats{User: u, Stats: *st}, nil
}

// Update applies the non-blank fields of in.
func (s *UserService) Update(ctx context.Context, id string, in UpdateInput) (*domain.User, error) {
	u, err := s.mustGet(ctx, id)
	if err != nil {
		return nil, err
	}
	if name := strings.TrimSpace(in.Username); name != "" {
		u.Username = name
	}
	if in.Password != "" {
		hash, err := s.hasher.Hash(in.Password)
		if err != nil {
			return nil, err
		}
		u.PasswordHash = hash
	}
	if !in.ValidUpto.IsZero() {
		u.ValidUpto = in.ValidUpto.UTC()
	}
	u.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}

// Delete removes the account. Idempotent. Devices, messages and entries of the user stay.
func (s *UserService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

// Stats returns only the counters of an existing account.
func (s *UserService) Stats(ctx context.Context, id string) (*dashboard.Stats, error) {
	if _, err := s.mustGet(ctx, id); err != nil {
		return nil, err
	}
	return s.stats.ForUser(ctx, id)
}

// PurgeMessages deletes every message of an existing account and returns how many were removed.
func (s *UserService) PurgeMessages(ctx context.Context, id string) (int64, error) {
	if _, err := s.mustGet(ctx, id); err != nil {
		return 0, err
	}
	return s.messages.DeleteAllForUser(ctx, id)
}

func (s *UserService) mustGet(ctx context.Context, id string) (*domain.User, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, domain.ErrNotFound
	}
	return u, nil
}
