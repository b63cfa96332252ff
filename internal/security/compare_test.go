package security

import "testing"

func TestConstantTimeEqual(t *testing.T) {
	testCases := []struct {
		name     string
		provided string
		expected string
		want     bool
	}{
		{"equal", "admin-pass", "admin-pass", true},
		{"different", "admin-pass", "admin-pasS", false},
		{"prefix", "admin", "admin-pass", false},
		{"empty expected never matches", "", "", false},
		{"empty provided", "", "admin-pass", false},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ConstantTimeEqual(tc.provided, tc.expected); got != tc.want {
				t.Errorf("ConstantTimeEqual(%q, %q) = %v, want %v", tc.provided, tc.expected, got, tc.want)
			}
		})
	}
}
