package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

// SessionStore persists login sessions keyed by opaque token.
type SessionStore struct {
	db *DB
}

var _ service.SessionStore = (*SessionStore)(nil)

// NewSessionStore creates a session store backed by db.
func NewSessionStore(db *DB) *SessionStore {
	return &SessionStore{db: db}
}

// InsertSession stores a new session document.
func (s *SessionStore) InsertSession(ctx context.Context, session *domain.Session) error {
	session.CreatedAt = time.Now().UTC()
	if _, err := s.db.sessions().InsertOne(ctx, session); err != nil {
		return domain.Internal(err, "session.insert", "failed to create session")
	}
	return nil
}

// SessionByToken loads a session by its token. Expiry is checked by the
// caller; the TTL index only cleans up eventually.
func (s *SessionStore) SessionByToken(ctx context.Context, token string) (*domain.Session, error) {
	var session domain.Session
	err := s.db.sessions().FindOne(ctx, bson.M{"token": token}).Decode(&session)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "session.byToken", "failed to load session")
	}
	return &session, nil
}

// DeleteSession removes a session by token. Deleting a token that is already
// gone is not an error.
func (s *SessionStore) DeleteSession(ctx context.Context, token string) error {
	if _, err := s.db.sessions().DeleteOne(ctx, bson.M{"token": token}); err != nil {
		return domain.Internal(err, "session.delete", "failed to delete session")
	}
	return nil
}
