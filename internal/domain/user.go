package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User roles. The administrator is an ordinary user document carrying the
// admin role; there is no separate credential path.
const (
	RoleCustomer = "customer"
	RoleAdmin    = "admin"
)

var (
	ErrUserNotFound    = &Error{Code: ENOTFOUND, Message: "User not found"}
	ErrUserExists      = &Error{Code: ECONFLICT, Message: "An account with this email already exists"}
	ErrInvalidPassword = &Error{Code: EUNAUTHORIZED, Message: "Invalid email or password"}
	ErrSessionExpired  = &Error{Code: EUNAUTHORIZED, Message: "Session expired"}
)

// User is the account document. The cart is embedded: an ordered sequence of
// lines, at most one per distinct product id.
type User struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Username      string             `bson:"username"`
	Email         string             `bson:"email"`
	PasswordHash  string             `bson:"password_hash"`
	Bio           string             `bson:"bio,omitempty"`
	ProfilePicURL string             `bson:"profile_pic_url,omitempty"`
	Role          string             `bson:"role"`
	Cart          []CartLine         `bson:"cart"`
	CreatedAt     time.Time          `bson:"created_at"`
	UpdatedAt     time.Time          `bson:"updated_at"`
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}

// CartLine is one product's entry within a user's cart. Name, price, image
// and category are a snapshot of the catalog taken at add time; they are
// never resynced if the product changes later.
type CartLine struct {
	ProductID  string `bson:"product_id"`
	Name       string `bson:"name"`
	PriceCents int64  `bson:"price_cents"`
	ImageURL   string `bson:"image_url,omitempty"`
	Category   string `bson:"category,omitempty"`
	Quantity   int64  `bson:"quantity"`
}

// LineSubtotal returns price * quantity for the line, in cents.
func (l CartLine) LineSubtotal() int64 {
	return l.PriceCents * l.Quantity
}

// Session is a server-side login session. The browser cookie carries only
// the opaque token.
type Session struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Token     string             `bson:"token"`
	UserID    primitive.ObjectID `bson:"user_id"`
	ExpiresAt time.Time          `bson:"expires_at"`
	CreatedAt time.Time          `bson:"created_at"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired(now time.Time) bool {
	return now.After(s.ExpiresAt)
}
