package security

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/rand"
	"crypto/rsa"
	"encoding/hex"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken is returned when a token is malformed, expired, or signed by someone else.
	ErrInvalidToken = errors.New("invalid token")
	// ErrNoSigningKey is returned when a provider is built without a secret or key.
	ErrNoSigningKey = errors.New("no signing key configured")
)

// Kind separates dashboard users from the single admin principal.
type Kind string

const (
	KindUser  Kind = "user"
	KindAdmin Kind = "admin"
)

// Claims holds JWT claims for both user and admin tokens. Subject is the user id
// for users and the admin username for admins.
type Claims struct {
	jwt.RegisteredClaims
	Kind Kind   `json:"kind"`
	Role string `json:"role,omitempty"`
}

// Principal is the validated identity carried by a token.
type Principal struct {
	Subject   string
	Kind      Kind
	Role      string
	ExpiresAt time.Time
}

// TokenProvider issues and validates signed tokens, either HS256 with a shared
// secret or RS256/ES256 with a key pair.
type TokenProvider struct {
	method    jwt.SigningMethod
	signKey   interface{}
	verifyKey interface{}
	issuer    string
	audience  string
	userTTL   time.Duration
	adminTTL  time.Duration
}

// NewHMACTokenProvider returns a provider that signs with HS256 using secret.
func NewHMACTokenProvider(secret []byte, issuer, audience string, userTTL, adminTTL time.Duration) (*TokenProvider, error) {
	if len(secret) == 0 {
		return nil, ErrNoSigningKey
	}
	return &TokenProvider{
		method:    jwt.SigningMethodHS256,
		signKey:   secret,
		verifyKey: secret,
		issuer:    issuer,
		audience:  audience,
		userTTL:   userTTL,
		adminTTL:  adminTTL,
	}, nil
}

// NewKeyPairTokenProvider returns a provider that signs with the given private key
// (RS256 for RSA, ES256 for ECDSA) and verifies with publicKey.
func NewKeyPairTokenProvider(privateKey crypto.Signer, publicKey crypto.PublicKey, issuer, audience string, userTTL, adminTTL time.Duration) (*TokenProvider, error) {
	if privateKey == nil || publicKey == nil {
		return nil, ErrNoSigningKey
	}
	var method jwt.SigningMethod
	switch privateKey.Public().(type) {
	case *rsa.PublicKey:
		method = jwt.SigningMethodRS256
	case *ecdsa.PublicKey:
		method = jwt.SigningMethodES256
	default:
		return nil, ErrInvalidKey
	}
	return &TokenProvider{
		method:    method,
		signKey:   privateKey,
		verifyKey: publicKey,
		issuer:    issuer,
		audience:  audience,
		userTTL:   userTTL,
		adminTTL:  adminTTL,
	}, nil
}

// TTL returns the token lifetime for kind.
func (p *TokenProvider) TTL(kind Kind) time.Duration {
	if kind == KindAdmin {
		return p.adminTTL
	}
	return p.userTTL
}

// Issue signs a token for subject. Returns the token string and its expiration time.
func (p *TokenProvider) Issue(subject string, kind Kind, role string) (token string, expiresAt time.Time, err error) {
	if subject == "" || (kind != KindUser && kind != KindAdmin) {
		return "", time.Time{}, ErrInvalidToken
	}
	jti, err := generateJTI()
	if err != nil {
		return "", time.Time{}, err
	}
	now := time.Now().UTC()
	expiresAt = now.Add(p.TTL(kind))
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   subject,
			Issuer:    p.issuer,
			Audience:  jwt.ClaimStrings{p.audience},
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		Kind: kind,
		Role: role,
	}
	token, err = jwt.NewWithClaims(p.method, claims).SignedString(p.signKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return token, expiresAt, nil
}

// Validate parses and validates tokenString (signature, algorithm, exp, iss, aud).
func (p *TokenProvider) Validate(tokenString string) (*Principal, error) {
	if tokenString == "" {
		return nil, ErrInvalidToken
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return p.verifyKey, nil
	},
		jwt.WithValidMethods([]string{p.method.Alg()}),
		jwt.WithIssuer(p.issuer),
		jwt.WithAudience(p.audience),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, ErrInvalidToken
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	if claims.Kind != KindUser && claims.Kind != KindAdmin {
		return nil, ErrInvalidToken
	}
	out := &Principal{Subject: claims.Subject, Kind: claims.Kind, Role: claims.Role}
	if claims.ExpiresAt != nil {
		out.ExpiresAt = claims.ExpiresAt.Time
	}
	return out, nil
}

func generateJTI() (string, error) {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
