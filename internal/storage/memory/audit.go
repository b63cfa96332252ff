package memory

import (
	"context"
	"sync"

	"sms-gateway/backend/internal/audit/domain"
)

// auditStore is append-only; List walks it backwards.
type auditStore struct {
	logs []domain.AuditLog
	sync.RWMutex
}

func newAuditStore() *auditStore {
	return &auditStore{}
}

func (s *auditStore) Create(_ context.Context, a *domain.AuditLog) error {
	s.Lock()
	defer s.Unlock()
	s.logs = append(s.logs, *a)
	return nil
}

func (s *auditStore) List(_ context.Context, limit, offset int) ([]*domain.AuditLog, error) {
	s.RLock()
	defer s.RUnlock()
	out := []*domain.AuditLog{}
	for i := len(s.logs) - 1 - offset; i >= 0 && len(out) < limit; i-- {
		a := s.logs[i]
		out = append(out, &a)
	}
	return out, nil
}
