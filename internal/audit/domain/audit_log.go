package domain

import "time"

// AuditLog represents an audit event. Actor is the principal subject (user id or admin name)
// and Kind its principal kind ("user", "admin", or "anonymous").
type AuditLog struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Kind      string    `json:"kind"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	IP        string    `json:"ip"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
