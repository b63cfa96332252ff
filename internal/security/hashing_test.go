package security

import (
	"testing"
)

func TestHasher_HashAndMatch(t *testing.T) {
	h := NewHasher(4)
	hash, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	if hash == "" || hash == "secret123" {
		t.Fatalf("Hash returned %q", hash)
	}
	if !h.Matches(hash, "secret123") {
		t.Fatal("Matches should accept the original password")
	}
	if h.Matches(hash, "wrong") {
		t.Fatal("Matches should reject a wrong password")
	}
}

func TestHasher_EmptyInputs(t *testing.T) {
	h := NewHasher(4)
	if _, err := h.Hash(""); err != ErrEmptyPassword {
		t.Errorf("Hash(\"\") err = %v, want ErrEmptyPassword", err)
	}
	if h.Matches("", "x") {
		t.Error("empty hash must not match")
	}
	if h.Matches("not-a-bcrypt-hash", "x") {
		t.Error("malformed hash must not match")
	}
}

func TestHasher_Cost(t *testing.T) {
	if h := NewHasher(12); h.Cost != 12 {
		t.Errorf("Cost want 12, got %d", h.Cost)
	}
	if h := NewHasher(0); h.Cost < 4 {
		t.Errorf("zero cost should be clamped to at least MinCost, got %d", h.Cost)
	}
	if h := NewHasher(2); h.Cost != 4 {
		t.Errorf("cost 2 should clamp to 4, got %d", h.Cost)
	}
	if h := NewHasher(99); h.Cost != 31 {
		t.Errorf("cost 99 should clamp to 31, got %d", h.Cost)
	}
}
