package security

import (
	"testing"
	"time"
)

func TestTokenProvider_IssueAndValidate(t *testing.T) {
	rsaProvider, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}
	providers := map[string]*TokenProvider{
		"rs256": rsaProvider,
		"hs256": NewTestHMACTokenProvider(),
	}
	for name, p := range providers {
		t.Run(name, func(t *testing.T) {
			token, exp, err := p.Issue("user-1", KindUser, "user")
			if err != nil {
				t.Fatalf("Issue: %v", err)
			}
			if token == "" {
				t.Fatal("token empty")
			}
			if exp.Before(time.Now()) {
				t.Fatal("expires at in the past")
			}
			got, err := p.Validate(token)
			if err != nil {
				t.Fatalf("Validate: %v", err)
			}
			if got.Subject != "user-1" || got.Kind != KindUser || got.Role != "user" {
				t.Errorf("Validate = %+v", got)
			}
		})
	}
}

func TestTokenProvider_AdminTTL(t *testing.T) {
	p := NewTestHMACTokenProvider()
	_, userExp, err := p.Issue("u", KindUser, "")
	if err != nil {
		t.Fatalf("Issue user: %v", err)
	}
	_, adminExp, err := p.Issue("admin", KindAdmin, "")
	if err != nil {
		t.Fatalf("Issue admin: %v", err)
	}
	if !adminExp.After(userExp) {
		t.Errorf("admin expiry %v should be after user expiry %v", adminExp, userExp)
	}
}

func TestTokenProvider_IssueInvalid(t *testing.T) {
	p := NewTestHMACTokenProvider()
	if _, _, err := p.Issue("", KindUser, ""); err != ErrInvalidToken {
		t.Errorf("empty subject err = %v, want ErrInvalidToken", err)
	}
	if _, _, err := p.Issue("u", Kind("robot"), ""); err != ErrInvalidToken {
		t.Errorf("unknown kind err = %v, want ErrInvalidToken", err)
	}
}

func TestTokenProvider_ValidateRejects(t *testing.T) {
	p := NewTestHMACTokenProvider()
	other, _ := NewHMACTokenProvider([]byte("another-secret"), "test-issuer", "test-audience", time.Hour, time.Hour)
	wrongAud, _ := NewHMACTokenProvider([]byte("test-secret-test-secret-test-secret"), "test-issuer", "other-aud", time.Hour, time.Hour)
	expired, _ := NewHMACTokenProvider([]byte("test-secret-test-secret-test-secret"), "test-issuer", "test-audience", -time.Minute, time.Hour)
	rsaProvider, err := NewTestTokenProvider()
	if err != nil {
		t.Fatalf("NewTestTokenProvider: %v", err)
	}

	foreign, _, _ := other.Issue("u", KindUser, "")
	audToken, _, _ := wrongAud.Issue("u", KindUser, "")
	expiredToken, _, _ := expired.Issue("u", KindUser, "")
	rsaToken, _, _ := rsaProvider.Issue("u", KindUser, "")

	testCases := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"wrong secret", foreign},
		{"wrong audience", audToken},
		{"expired", expiredToken},
		{"wrong algorithm", rsaToken},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := p.Validate(tc.token); err != ErrInvalidToken {
				t.Errorf("Validate err = %v, want ErrInvalidToken", err)
			}
		})
	}
}

func TestNewHMACTokenProvider_EmptySecret(t *testing.T) {
	if _, err := NewHMACTokenProvider(nil, "i", "a", time.Hour, time.Hour); err != ErrNoSigningKey {
		t.Errorf("err = %v, want ErrNoSigningKey", err)
	}
}
