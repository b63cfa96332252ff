// Package memory implements every repository in process memory. It backs the server when
// DATABASE_URL is empty and the service tests.
package memory

import (
	auditrepo "sms-gateway/backend/internal/audit/repository"
	devicerepo "sms-gateway/backend/internal/device/repository"
	entryrepo "sms-gateway/backend/internal/entry/repository"
	messagerepo "sms-gateway/backend/internal/message/repository"
	outboundrepo "sms-gateway/backend/internal/outbound/repository"
	userrepo "sms-gateway/backend/internal/user/repository"
)

// Store contains all memory-based sub-stores.
type Store struct {
	users     *userStore
	devices   *deviceStore
	messages  *messageStore
	outbound  *outboundStore
	entries   *entryStore
	auditLogs *auditStore
}

// NewStore creates an empty memory store.
func NewStore() *Store {
	return &Store{
		users:     newUserStore(),
		devices:   newDeviceStore(),
		messages:  newMessageStore(),
		outbound:  newOutboundStore(),
		entries:   newEntryStore(),
		auditLogs: newAuditStore(),
	}
}

// Users returns the sub-store for login accounts.
func (s *Store) Users() userrepo.Repository { return s.users }

// Devices returns the sub-store for device snapshots.
func (s *Store) Devices() devicerepo.Repository { return s.devices }

// Messages returns the sub-store for inbound messages.
func (s *Store) Messages() messagerepo.Repository { return s.messages }

// Outbound returns the sub-store for the outbound SMS queue.
func (s *Store) Outbound() outboundrepo.Repository { return s.outbound }

// Entries returns the sub-store for free-form entries.
func (s *Store) Entries() entryrepo.Repository { return s.entries }

// AuditLogs returns the sub-store for audit logs.
func (s *Store) AuditLogs() auditrepo.Repository { return s.auditLogs }
