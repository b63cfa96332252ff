package security

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadPEM_Inline(t *testing.T) {
	pemBytes, err := LoadPEM(testPrivateKeyPEM)
	if err != nil {
		t.Fatalf("LoadPEM: %v", err)
	}
	if !strings.Contains(string(pemBytes), "-----BEGIN") {
		t.Error("LoadPEM did not return PEM content")
	}
}

func TestLoadPEM_EscapedNewlines(t *testing.T) {
	oneLine := strings.ReplaceAll(testPublicKeyPEM, "\n", `\n`)
	pub, err := ParsePublicKey(oneLine)
	if err != nil {
		t.Fatalf("ParsePublicKey with escaped newlines: %v", err)
	}
	if pub == nil {
		t.Fatal("ParsePublicKey returned nil key")
	}
}

func TestLoadPEM_FilePath(t *testing.T) {
	tmpFile := filepath.Join(t.TempDir(), "test.pem")
	if err := os.WriteFile(tmpFile, []byte(testPrivateKeyPEM), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	signer, err := ParsePrivateKey(tmpFile)
	if err != nil {
		t.Fatalf("ParsePrivateKey from file: %v", err)
	}
	if signer == nil {
		t.Fatal("ParsePrivateKey returned nil signer")
	}
}

func TestLoadPEM_Errors(t *testing.T) {
	if _, err := LoadPEM("   "); err != ErrInvalidKey {
		t.Errorf("LoadPEM(blank) err = %v, want ErrInvalidKey", err)
	}
	if _, err := LoadPEM(filepath.Join(t.TempDir(), "missing.pem")); err == nil {
		t.Error("LoadPEM(missing file) should fail")
	}
	if _, err := ParsePrivateKey("-----BEGIN NOPE-----\nabc\n-----END NOPE-----"); err == nil {
		t.Error("ParsePrivateKey should reject unknown block")
	}
	if _, err := ParsePublicKey(testPrivateKeyPEM); err != ErrInvalidKey {
		t.Errorf("ParsePublicKey(private key) err = %v, want ErrInvalidKey", err)
	}
}

func TestLoadTokenProvider(t *testing.T) {
	kp, err := LoadTokenProvider(testPrivateKeyPEM, testPublicKeyPEM, "", "iss", "aud", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("LoadTokenProvider(key pair): %v", err)
	}
	if kp.method.Alg() != "RS256" {
		t.Errorf("key pair alg = %s, want RS256", kp.method.Alg())
	}

	hs, err := LoadTokenProvider("", "", "shared-secret", "iss", "aud", time.Hour, time.Hour)
	if err != nil {
		t.Fatalf("LoadTokenProvider(secret): %v", err)
	}
	if hs.method.Alg() != "HS256" {
		t.Errorf("secret alg = %s, want HS256", hs.method.Alg())
	}

	if _, err := LoadTokenProvider("", "", "", "iss", "aud", time.Hour, time.Hour); err != ErrNoSigningKey {
		t.Errorf("LoadTokenProvider(nothing) err = %v, want ErrNoSigningKey", err)
	}
}
