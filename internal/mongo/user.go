package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

// mergeRetries bounds the retry loop in MergeLine. One retry is enough to
// absorb a concurrent first-add of the same product; more is pathological.
const mergeRetries = 3

// UserStore persists user documents, including the embedded cart array.
type UserStore struct {
	db *DB
}

// Compile-time checks against the service-layer contracts.
var (
	_ service.UserStore = (*UserStore)(nil)
	_ service.CartStore = (*UserStore)(nil)
)

// NewUserStore creates a user store backed by db.
func NewUserStore(db *DB) *UserStore {
	return &UserStore{db: db}
}

// =============================================================================
// User accounts
// =============================================================================

// InsertUser stores a new user document and returns it with its assigned ID.
// A duplicate email surfaces as domain.ErrUserExists via the unique index.
func (s *UserStore) InsertUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if user.Cart == nil {
		user.Cart = []domain.CartLine{}
	}

	res, err := s.db.users().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrUserExists
		}
		return nil, domain.Internal(err, "user.insert", "failed to create user")
	}

	user.ID = res.InsertedID.(primitive.ObjectID)
	return user, nil
}

// UserByEmail loads a user by their normalized email address.
func (s *UserStore) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	var user domain.User
	err := s.db.users().FindOne(ctx, bson.M{"email": email}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "user.byEmail", "failed to load user")
	}
	return &user, nil
}

// UserByID loads a user by the hex form of their document ID.
func (s *UserStore) UserByID(ctx context.Context, userID string) (*domain.User, error) {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, domain.ErrUserNotFound
	}

	var user domain.User
	err = s.db.users().FindOne(ctx, bson.M{"_id": oid}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, domain.Internal(err, "user.byID", "failed to load user")
	}
	return &user, nil
}

// UpdateProfile applies the display-field changes to a user document.
func (s *UserStore) UpdateProfile(ctx context.Context, userID string, update service.ProfileUpdate) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	set := bson.M{"updated_at": time.Now().UTC()}
	if update.Username != nil {
		set["username"] = *update.Username
	}
	if update.Bio != nil {
		set["bio"] = *update.Bio
	}
	if update.ProfilePicURL != nil {
		set["profile_pic_url"] = *update.ProfilePicURL
	}

	res, err := s.db.users().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return domain.Internal(err, "user.updateProfile", "failed to update profile")
	}
	if res.MatchedCount == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

// DeleteUser removes the user document. The embedded cart dies with it.
func (s *UserStore) DeleteUser(ctx context.Context, userID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	res, err := s.db.users().DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return domain.Internal(err, "user.delete", "failed to delete user")
	}
	if res.DeletedCount == 0 {
		return domain.ErrUserNotFound
	}

	// Sessions for the deleted user are dead weight; drop them in the same
	// request rather than waiting for the TTL index.
	if _, err := s.db.sessions().DeleteMany(ctx, bson.M{"user_id": oid}); err != nil {
		return domain.Internal(err, "user.delete", "failed to delete user sessions")
	}
	return nil
}

// =============================================================================
// Cart mutations
//
// Every mutation is a single filtered update. The filter does the semantic
// work: a missing line, a quantity already at the floor, or a line added by
// a concurrent request all fall out as matched-count zero instead of a lost
// update. This replaces the read-modify-write full-array overwrite that
// made two concurrent requests for the same user clobber each other.
// =============================================================================

// Cart returns the user's current cart lines.
func (s *UserStore) Cart(ctx context.Context, userID string) ([]domain.CartLine, error) {
	user, err := s.UserByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return user.Cart, nil
}

// MergeLine increments the quantity of an existing line for the product, or
// appends the snapshot line with quantity 1. Two concurrent merges of a
// brand-new product converge on a single line with quantity 2: the guarded
// push admits only one writer, and the loser retries the increment path.
func (s *UserStore) MergeLine(ctx context.Context, userID string, line domain.CartLine) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	for attempt := 0; attempt < mergeRetries; attempt++ {
		res, err := s.db.users().UpdateOne(ctx,
			bson.M{"_id": oid, "cart.product_id": line.ProductID},
			bson.M{
				"$inc": bson.M{"cart.$.quantity": 1},
				"$set": bson.M{"updated_at": time.Now().UTC()},
			},
		)
		if err != nil {
			return domain.Internal(err, "cart.merge", "failed to update cart")
		}
		if res.MatchedCount > 0 {
			return nil
		}

		line.Quantity = 1
		res, err = s.db.users().UpdateOne(ctx,
			bson.M{"_id": oid, "cart.product_id": bson.M{"$ne": line.ProductID}},
			bson.M{
				"$push": bson.M{"cart": line},
				"$set":  bson.M{"updated_at": time.Now().UTC()},
			},
		)
		if err != nil {
			return domain.Internal(err, "cart.merge", "failed to update cart")
		}
		if res.MatchedCount > 0 {
			return nil
		}
		// Neither update matched: either the user is gone, or a concurrent
		// request appended the line between our two updates. Retry decides.
	}

	if _, err := s.UserByID(ctx, userID); err != nil {
		return err
	}
	return domain.Internal(nil, "cart.merge", "cart merge did not converge")
}

// AdjustQuantity changes a line's quantity by one in the given direction.
// Decrease is floored at 1 by the filter itself; a line-key miss matches
// nothing and is a silent no-op, per the cart contract.
func (s *UserStore) AdjustQuantity(ctx context.Context, userID, productID string, dir domain.Direction) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	var filter bson.M
	var delta int64
	switch dir {
	case domain.DirectionIncrease:
		filter = bson.M{"_id": oid, "cart.product_id": productID}
		delta = 1
	case domain.DirectionDecrease:
		filter = bson.M{"_id": oid, "cart": bson.M{"$elemMatch": bson.M{
			"product_id": productID,
			"quantity":   bson.M{"$gt": 1},
		}}}
		delta = -1
	default:
		return domain.Invalid("cart.adjust", "unknown direction")
	}

	_, err = s.db.users().UpdateOne(ctx, filter, bson.M{
		"$inc": bson.M{"cart.$.quantity": delta},
		"$set": bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return domain.Internal(err, "cart.adjust", "failed to update cart")
	}
	return nil
}

// RemoveLine pulls the line keyed by productID out of the cart. No match is
// a silent no-op.
func (s *UserStore) RemoveLine(ctx context.Context, userID, productID string) error {
	oid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return domain.ErrUserNotFound
	}

	_, err = s.db.users().UpdateOne(ctx, bson.M{"_id": oid}, bson.M{
		"$pull": bson.M{"cart": bson.M{"product_id": productID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	})
	if err != nil {
		return domain.Internal(err, "cart.remove", "failed to update cart")
	}
	return nil
}
