package security

import (
	"crypto/sha256"
	"crypto/subtle"
)

// ConstantTimeEqual compares two secrets without leaking their length or the
// position of the first difference. Both sides are hashed first so inputs of
// different lengths take the same time.
func ConstantTimeEqual(provided, expected string) bool {
	if expected == "" {
		return false
	}
	a := sha256.Sum256([]byte(provided))
	b := sha256.Sum256([]byte(expected))
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
