package service_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

type memUserStore struct {
	mu      sync.Mutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func (m *memUserStore) InsertUser(_ context.Context, user *domain.User) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	user.ID = primitive.NewObjectID()
	user.CreatedAt = time.Now().UTC()
	m.byID[user.ID.Hex()] = user
	m.byEmail[user.Email] = user
	return user, nil
}

func (m *memUserStore) UserByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserStore) UserByID(_ context.Context, userID string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return u, nil
}

func (m *memUserStore) UpdateProfile(_ context.Context, userID string, update service.ProfileUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if update.Username != nil {
		u.Username = *update.Username
	}
	if update.Bio != nil {
		u.Bio = *update.Bio
	}
	if update.ProfilePicURL != nil {
		u.ProfilePicURL = *update.ProfilePicURL
	}
	return nil
}

func (m *memUserStore) DeleteUser(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.byID[userID]
	if !ok {
		return domain.ErrUserNotFound
	}
	delete(m.byID, userID)
	delete(m.byEmail, u.Email)
	return nil
}

type memSessionStore struct {
	mu       sync.Mutex
	byToken  map[string]*domain.Session
	inserted int
}

func newMemSessionStore() *memSessionStore {
	return &memSessionStore{byToken: make(map[string]*domain.Session)}
}

func (m *memSessionStore) InsertSession(_ context.Context, session *domain.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byToken[session.Token] = session
	m.inserted++
	return nil
}

func (m *memSessionStore) SessionByToken(_ context.Context, token string) (*domain.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.byToken[token]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return s, nil
}

func (m *memSessionStore) DeleteSession(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.byToken, token)
	return nil
}

func newUserService() (*service.UserService, *memUserStore, *memSessionStore) {
	users := newMemUserStore()
	sessions := newMemSessionStore()
	return service.NewUserService(users, sessions), users, sessions
}

func TestUserService_Register(t *testing.T) {
	svc, _, _ := newUserService()

	user, err := svc.Register(context.Background(), "Ada", "  Ada@Example.COM ", "correcthorse", "")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", user.Email, "email is lowercased and trimmed")
	assert.Equal(t, domain.RoleCustomer, user.Role)
	assert.NotEmpty(t, user.PasswordHash)
	assert.NotEqual(t, "correcthorse", user.PasswordHash)
	assert.NotNil(t, user.Cart)
	assert.Empty(t, user.Cart, "new accounts start with an empty cart")
}

func TestUserService_Register_DuplicateEmail(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	_, err := svc.Register(ctx, "Ada", "ada@example.com", "correcthorse", "")
	require.NoError(t, err)

	// Same address with different casing still collides.
	_, err = svc.Register(ctx, "Imposter", "ADA@example.com", "battery-staple", "")
	assert.ErrorIs(t, err, domain.ErrUserExists)
}

func TestUserService_Register_Validation(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"empty email", "", "correcthorse"},
		{"email without at sign", "not-an-email", "correcthorse"},
		{"short password", "ada@example.com", "short"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(ctx, "Ada", tt.email, tt.password, "")
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestUserService_Authenticate(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, "Ada", "ada@example.com", "correcthorse", "")
	require.NoError(t, err)

	user, err := svc.Authenticate(ctx, "Ada@Example.com", "correcthorse")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	_, err = svc.Authenticate(ctx, "ada@example.com", "wrong-password")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)

	// Unknown email looks exactly like a wrong password.
	_, err = svc.Authenticate(ctx, "ghost@example.com", "correcthorse")
	assert.ErrorIs(t, err, domain.ErrInvalidPassword)
}

func TestUserService_Sessions(t *testing.T) {
	svc, _, sessions := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "correcthorse", "")
	require.NoError(t, err)

	token, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, 1, sessions.inserted)

	got, err := svc.UserBySessionToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	require.NoError(t, svc.DeleteSession(ctx, token))
	_, err = svc.UserBySessionToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_ExpiredSession(t *testing.T) {
	svc, _, sessions := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "correcthorse", "")
	require.NoError(t, err)

	token, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	sessions.byToken[token].ExpiresAt = time.Now().UTC().Add(-time.Minute)

	_, err = svc.UserBySessionToken(ctx, token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
}

func TestUserService_UpdateProfile(t *testing.T) {
	svc, _, _ := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "correcthorse", "")
	require.NoError(t, err)

	bio := "I collect brass lamps."
	require.NoError(t, svc.UpdateProfile(ctx, user.ID.Hex(), service.ProfileUpdate{Bio: &bio}))

	got, err := svc.GetUser(ctx, user.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, bio, got.Bio)
	assert.Equal(t, "Ada", got.Username, "fields left nil stay untouched")
}

func TestUserService_DeleteAccount(t *testing.T) {
	svc, _, sessions := newUserService()
	ctx := context.Background()

	user, err := svc.Register(ctx, "Ada", "ada@example.com", "correcthorse", "")
	require.NoError(t, err)
	token, err := svc.CreateSession(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, svc.DeleteAccount(ctx, user.ID.Hex(), token))

	_, err = svc.GetUser(ctx, user.ID.Hex())
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
	assert.Empty(t, sessions.byToken, "session is discarded with the account")
}
