package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakheart/bazaar/internal/auth"
	"github.com/oakheart/bazaar/internal/domain"
)

// sessionTTL is how long a login session stays valid.
const sessionTTL = 30 * 24 * time.Hour

// UserStore is the persistence contract for user accounts.
type UserStore interface {
	InsertUser(ctx context.Context, user *domain.User) (*domain.User, error)
	UserByEmail(ctx context.Context, email string) (*domain.User, error)
	UserByID(ctx context.Context, userID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error
	DeleteUser(ctx context.Context, userID string) error
}

// SessionStore is the persistence contract for login sessions.
type SessionStore interface {
	InsertSession(ctx context.Context, session *domain.Session) error
	SessionByToken(ctx context.Context, token string) (*domain.Session, error)
	DeleteSession(ctx context.Context, token string) error
}

// ProfileUpdate carries optional display-field changes; nil fields are left
// untouched.
type ProfileUpdate struct {
	Username      *string
	Bio           *string
	ProfilePicURL *string
}

// UserService implements the session gate: registration, credential checks,
// and token sessions. Administrators authenticate through the same hashed
// credential path as everyone else.
type UserService struct {
	users    UserStore
	sessions SessionStore
}

// NewUserService creates a new UserService instance.
func NewUserService(users UserStore, sessions SessionStore) *UserService {
	return &UserService{
		users:    users,
		sessions: sessions,
	}
}

// NormalizeEmail lowercases and trims an email address. All email lookups
// and writes go through this so the unique index actually means unique.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a new customer account with an empty cart.
func (s *UserService) Register(ctx context.Context, username, email, password, profilePicURL string) (*domain.User, error) {
	email = NormalizeEmail(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, domain.Invalid("user.register", "a valid email address is required")
	}

	passwordHash, err := auth.HashPassword(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooShort) {
			return nil, domain.Errorf(domain.EINVALID, "user.register", "password must be at least %d characters", auth.MinPasswordLength)
		}
		return nil, domain.Internal(err, "user.register", "failed to hash password")
	}

	user := &domain.User{
		Username:      strings.TrimSpace(username),
		Email:         email,
		PasswordHash:  passwordHash,
		ProfilePicURL: strings.TrimSpace(profilePicURL),
		Role:          domain.RoleCustomer,
		Cart:          []domain.CartLine{},
	}

	return s.users.InsertUser(ctx, user)
}

// Authenticate verifies email/password and returns the user if valid. The
// caller cannot tell an unknown email from a wrong password.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := s.users.UserByEmail(ctx, NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, err
	}

	if err := auth.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, auth.ErrPasswordMismatch) {
			return nil, domain.ErrInvalidPassword
		}
		return nil, domain.Internal(err, "user.authenticate", "failed to verify password")
	}

	return user, nil
}

// CreateSession establishes a login session for the user and returns the
// opaque token for the cookie.
func (s *UserService) CreateSession(ctx context.Context, userID primitive.ObjectID) (string, error) {
	token, err := auth.NewSessionToken()
	if err != nil {
		return "", domain.Internal(err, "session.create", "failed to generate session token")
	}

	session := &domain.Session{
		Token:     token,
		UserID:    userID,
		ExpiresAt: time.Now().UTC().Add(sessionTTL),
	}
	if err := s.sessions.InsertSession(ctx, session); err != nil {
		return "", err
	}

	return token, nil
}

// UserBySessionToken resolves a session token to its user. Expired sessions
// behave like missing ones.
func (s *UserService) UserBySessionToken(ctx context.Context, token string) (*domain.User, error) {
	session, err := s.sessions.SessionByToken(ctx, token)
	if err != nil {
		return nil, err
	}

	if session.Expired(time.Now().UTC()) {
		return nil, domain.ErrSessionExpired
	}

	return s.users.UserByID(ctx, session.UserID.Hex())
}

// DeleteSession logs the user out by discarding the session token.
func (s *UserService) DeleteSession(ctx context.Context, token string) error {
	return s.sessions.DeleteSession(ctx, token)
}

// GetUser loads a user by id.
func (s *UserService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	return s.users.UserByID(ctx, userID)
}

// UpdateProfile applies profile field changes.
func (s *UserService) UpdateProfile(ctx context.Context, userID string, update ProfileUpdate) error {
	return s.users.UpdateProfile(ctx, userID, update)
}

// DeleteAccount destroys the user record, its embedded cart with it, and the
// session used to make the request.
func (s *UserService) DeleteAccount(ctx context.Context, userID, sessionToken string) error {
	if err := s.users.DeleteUser(ctx, userID); err != nil {
		return err
	}
	if sessionToken != "" {
		return s.sessions.DeleteSession(ctx, sessionToken)
	}
	return nil
}
