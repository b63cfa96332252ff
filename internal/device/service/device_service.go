package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"sms-gateway/backend/internal/device/domain"
)

// Repo is the device persistence needed by the service.
type Repo interface {
	Upsert(ctx context.Context, d *domain.Device) (bool, error)
	GetByDeviceID(ctx context.Context, deviceID string) (*domain.Device, error)
	GetForUser(ctx context.Context, userID, deviceID string) (*domain.Device, error)
	ListByUser(ctx context.Context, userID string) ([]*domain.Device, error)
	DeleteForUser(ctx context.Context, userID, deviceID string) error
}

// StatsInvalidator drops cached dashboard counters for a user.
type StatsInvalidator interface {
	Invalidate(ctx context.Context, userID string)
}

// DeviceService handles snapshots reported by phones and device queries from the dashboard.
type DeviceService struct {
	repo  Repo
	stats StatsInvalidator
	now   func() time.Time
}

// NewDeviceService returns a DeviceService. stats may be nil.
func NewDeviceService(repo Repo, stats StatsInvalidator) *DeviceService {
	return &DeviceService{repo: repo, stats: stats, now: func() time.Time { return time.Now().UTC() }}
}

// Report stores a snapshot. Every report counts as a heartbeat: lastActive becomes now and the device is active again.
// created is true when the deviceId was not known before.
func (s *DeviceService) Report(ctx context.Context, d *domain.Device) (bool, error) {
	if err := d.Normalize(); err != nil {
		return false, err
	}
	prev, err := s.repo.GetByDeviceID(ctx, d.DeviceID)
	if err != nil {
		return false, err
	}
	now := s.now()
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	d.LastActive = now
	d.IsActive = true
	if d.CreatedAt.IsZero() {
		d.CreatedAt = now
	}
	created, err := s.repo.Upsert(ctx, d)
	if err != nil {
		return false, err
	}
	s.invalidateOwners(ctx, created, prev, d.UserID)
	return created, nil
}

// invalidateOwners drops the counters of every user whose device count the upsert changed.
// An empty owner on the snapshot keeps the stored one.
func (s *DeviceService) invalidateOwners(ctx context.Context, created bool, prev *domain.Device, owner string) {
	if s.stats == nil {
		return
	}
	prevOwner := ""
	if prev != nil {
		prevOwner = prev.UserID
	}
	if owner == "" {
		owner = prevOwner
	}
	if !created && owner == prevOwner {
		return
	}
	if prevOwner != "" && prevOwner != owner {
		s.stats.Invalidate(ctx, prevOwner)
	}
	if owner != "" {
		s.stats.Invalidate(ctx, owner)
	}
}

// ListForUser returns the user's devices, most recently active first.
func (s *DeviceService) ListForUser(ctx context.Context, userID string) ([]*domain.Device, error) {
	return s.repo.ListByUser(ctx, userID)
}

// GetForUser returns domain.ErrNotFound when the user owns no such device.
func (s *DeviceService) GetForUser(ctx context.Context, userID, deviceID string) (*domain.Device, error) {
	d, err := s.repo.GetForUser(ctx, userID, deviceID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, domain.ErrNotFound
	}
	return d, nil
}

// DeleteForUser removes the device. Idempotent.
func (s *DeviceService) DeleteForUser(ctx context.Context, userID, deviceID string) error {
	if err := s.repo.DeleteForUser(ctx, userID, deviceID); err != nil {
		return err
	}
	if s.stats != nil {
		s.stats.Invalidate(ctx, userID)
	}
	return nil
}
