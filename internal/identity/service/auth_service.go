package service

import (
	"context"
	"errors"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"sms-gateway/backend/internal/security"
	userdomain "sms-gateway/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the HTTP layer maps them to status codes.
var (
	ErrInvalidCredentials   = errors.New("Invalid credentials")
	ErrSubscriptionExpired  = errors.New("User subscription has expired")
	ErrOldPasswordIncorrect = errors.New("Old password is incorrect")
	ErrPasswordRequired     = errors.New("New password is required")
	ErrPhoneRequired        = errors.New("Phone number is required")
)

// LoginResult is a signed token plus what the dashboard needs to route the caller.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	Kind      security.Kind
	Role      string
	// Subject is the token subject: the user id, or the admin username.
	Subject string
	UserID  string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id string) (*userdomain.User, error)
	GetByUsername(ctx context.Context, username string) (*userdomain.User, error)
	UpdatePasswordIfMatch(ctx context.Context, id, oldHash, newHash string) (bool, error)
	UpdatePhone(ctx context.Context, id, phone string) error
}

// AdminCredentials is the single configured admin account.
type AdminCredentials struct {
	Username string
	Password string
}

// AuthService implements user and admin login, password change and the phone number endpoints.
type AuthService struct {
	users  UserRepo
	hasher *security.Hasher
	tokens *security.TokenProvider
	admin  AdminCredentials
	now    func() time.Time
}

// NewAuthService returns an AuthService with the given dependencies.
func NewAuthService(users UserRepo, hasher *security.Hasher, tokens *security.TokenProvider, admin AdminCredentials) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
		admin:  admin,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// UserLogin checks the password and the subscription and issues a user token.
// Missing fields, unknown usernames and wrong passwords all return ErrInvalidCredentials.
func (s *AuthService) UserLogin(ctx context.Context, username, password string) (*LoginResult, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	u, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	if u == nil || !s.hasher.Matches(u.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	if u.Expired(s.now()) {
		return nil, ErrSubscriptionExpired
	}
	token, exp, err := s.tokens.Issue(u.ID, security.KindUser, u.Role)
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Kind: security.KindUser, Role: u.Role, Subject: u.ID, UserID: u.ID}, nil
}

// AdminLogin compares against the configured admin credentials in constant time.
// An unconfigured admin account never matches.
func (s *AuthService) AdminLogin(username, password string) (*LoginResult, error) {
	if s.admin.Username == "" || s.admin.Password == "" {
		log.Warn("identity: admin login attempted but admin credentials are not configured")
		return nil, ErrInvalidCredentials
	}
	userOK := security.ConstantTimeEqual(username, s.admin.Username)
	passOK := security.ConstantTimeEqual(password, s.admin.Password)
	if !userOK || !passOK {
		return nil, ErrInvalidCredentials
	}
	token, exp, err := s.tokens.Issue(s.admin.Username, security.KindAdmin, string(security.KindAdmin))
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: exp, Kind: security.KindAdmin, Role: string(security.KindAdmin), Subject: s.admin.Username}, nil
}

// ChangePassword replaces the password after verifying oldPassword. The swap only applies if
// the stored hash did not change since it was read.
func (s *AuthService) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if newPassword == "" {
		return ErrPasswordRequired
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return userdomain.ErrNotFound
	}
	if !s.hasher.Matches(u.PasswordHash, oldPassword) {
		return ErrOldPasswordIncorrect
	}
	newHash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return err
	}
	ok, err := s.users.UpdatePasswordIfMatch(ctx, userID, u.PasswordHash, newHash)
	if err != nil {
		return err
	}
	if !ok {
		return ErrOldPasswordIncorrect
	}
	return nil
}

// GetPhone returns the caller's phone number, which may be empty.
func (s *AuthService) GetPhone(ctx context.Context, userID string) (string, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", userdomain.ErrNotFound
	}
	return u.PhoneNumber, nil
}

// UpdatePhone sets the caller's phone number.
func (s *AuthService) UpdatePhone(ctx context.Context, userID, phone string) error {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return ErrPhoneRequired
	}
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if u == nil {
		return userdomain.ErrNotFound
	}
	return s.users.UpdatePhone(ctx, userID, phone)
}

// SubscriptionActive reports whether userID exists and its subscription has not ended.
// The access middleware calls it on every user request so an expiry takes effect before the token does.
func (s *AuthService) SubscriptionActive(ctx context.Context, userID string) (exists, active bool, err error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return false, false, err
	}
	if u == nil {
		return false, false, nil
	}
	return true, !u.Expired(s.now()), nil
}
