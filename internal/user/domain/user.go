package domain

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrUsernameTaken is returned by repositories when the username is already in use.
	ErrUsernameTaken = errors.New("User already exists")
	ErrNotFound      = errors.New("User not found")
	// ErrMissingFields is returned when a create request lacks username, password or validUpto.
	ErrMissingFields = errors.New("All fields are required")
	ErrInvalidDate   = errors.New("validUpto must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
)

// RoleUser is the default role for dashboard accounts.
const RoleUser = "user"

// User is a dashboard login account. PasswordHash is never serialized.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	ValidUpto    time.Time `json:"validUpto"`
	PhoneNumber  string    `json:"phoneNumber,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Validate validates the user for persistence. Returns an error describing the first validation failure.
func (u *User) Validate() error {
	u.Username = strings.TrimSpace(u.Username)
	if u.Username == "" {
		return errors.New("username is required")
	}
	if u.PasswordHash == "" {
		return errors.New("password is required")
	}
	if u.ValidUpto.IsZero() {
		return errors.New("validUpto is required")
	}
	if u.Role == "" {
		u.Role = RoleUser
	}
	return nil
}

// Expired reports whether the subscription ended before now.
func (u *User) Expired(now time.Time) bool {
	return u.ValidUpto.Before(now)
}

// ParseValidUpto accepts a calendar date, taken as the end of that day in UTC, or an RFC 3339 timestamp.
func ParseValidUpto(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	if d, err := time.Parse(time.DateOnly, s); err == nil {
		return d.Add(24*time.Hour - time.Nanosecond), nil
	}
	return time.Time{}, ErrInvalidDate
}
