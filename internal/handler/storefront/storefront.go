// Package storefront holds the customer-facing HTTP handlers: browsing,
// auth, cart, reviews, and profile pages.
package storefront

import (
	"context"
	"net/http"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/service"
)

// sessionMaxAge matches the server-side session TTL, in seconds.
const sessionMaxAge = 30 * 24 * 60 * 60

// Renderer renders a named page template to the response.
type Renderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data any)
}

// UserService is the slice of account operations the storefront needs.
type UserService interface {
	Register(ctx context.Context, username, email, password, profilePicURL string) (*domain.User, error)
	Authenticate(ctx context.Context, email, password string) (*domain.User, error)
	CreateSession(ctx context.Context, userID primitive.ObjectID) (string, error)
	DeleteSession(ctx context.Context, token string) error
	UpdateProfile(ctx context.Context, userID string, update service.ProfileUpdate) error
	DeleteAccount(ctx context.Context, userID, sessionToken string) error
}

// CartService is the slice of cart operations the storefront needs.
type CartService interface {
	AddToCart(ctx context.Context, userID, productID string) (*domain.Product, error)
	AdjustQuantity(ctx context.Context, userID, productID string, dir domain.Direction) error
	RemoveLine(ctx context.Context, userID, productID string) error
	Summary(ctx context.Context, userID string) (*service.CartSummary, error)
}

// CatalogService is the slice of catalog operations the storefront needs.
type CatalogService interface {
	Get(ctx context.Context, productID string) (*domain.Product, error)
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	AppendReview(ctx context.Context, productID, userName string, rating int, comment string) error
}

// BaseTemplateData returns the data every page template expects: the year,
// the authenticated user if any, and a pending flash message.
func BaseTemplateData(w http.ResponseWriter, r *http.Request, cookies *cookie.Config) map[string]any {
	data := map[string]any{
		"Year": time.Now().Year(),
	}

	if user := middleware.GetUser(r.Context()); user != nil {
		data["User"] = user
	}

	if flash := cookies.PopFlash(w, r); flash != nil {
		data["Flash"] = flash
	}

	return data
}
