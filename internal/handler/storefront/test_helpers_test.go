package storefront

import (
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/service"
)

// fakeRenderer records which template was rendered with what data.
type fakeRenderer struct {
	name string
	data map[string]any
}

func (f *fakeRenderer) RenderHTTP(w http.ResponseWriter, name string, data any) {
	f.name = name
	if m, ok := data.(map[string]any); ok {
		f.data = m
	}
	w.WriteHeader(http.StatusOK)
}

// mockUserService implements UserService with overridable funcs.
type mockUserService struct {
	registerFunc      func(ctx context.Context, username, email, password, profilePicURL string) (*domain.User, error)
	authenticateFunc  func(ctx context.Context, email, password string) (*domain.User, error)
	createSessionFunc func(ctx context.Context, userID primitive.ObjectID) (string, error)
	deleteSessionFunc func(ctx context.Context, token string) error
	updateProfileFunc func(ctx context.Context, userID string, update service.ProfileUpdate) error
	deleteAccountFunc func(ctx context.Context, userID, sessionToken string) error
}

func (m *mockUserService) Register(ctx context.Context, username, email, password, profilePicURL string) (*domain.User, error) {
	if m.registerFunc != nil {
		return m.registerFunc(ctx, username, email, password, profilePicURL)
	}
	return &domain.User{Username: username, Email: email}, nil
}

func (m *mockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	if m.authenticateFunc != nil {
		return m.authenticateFunc(ctx, email, password)
	}
	return &domain.User{Email: email}, nil
}

func (m *mockUserService) CreateSession(ctx context.Context, userID primitive.ObjectID) (string, error) {
	if m.createSessionFunc != nil {
		return m.createSessionFunc(ctx, userID)
	}
	return "test-token", nil
}

func (m *mockUserService) DeleteSession(ctx context.Context, token string) error {
	if m.deleteSessionFunc != nil {
		return m.deleteSessionFunc(ctx, token)
	}
	return nil
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID string, update service.ProfileUpdate) error {
	if m.updateProfileFunc != nil {
		return m.updateProfileFunc(ctx, userID, update)
	}
	return nil
}

func (m *mockUserService) DeleteAccount(ctx context.Context, userID, sessionToken string) error {
	if m.deleteAccountFunc != nil {
		return m.deleteAccountFunc(ctx, userID, sessionToken)
	}
	return nil
}

// mockCartService implements CartService with overridable funcs.
type mockCartService struct {
	addToCartFunc      func(ctx context.Context, userID, productID string) (*domain.Product, error)
	adjustQuantityFunc func(ctx context.Context, userID, productID string, dir domain.Direction) error
	removeLineFunc     func(ctx context.Context, userID, productID string) error
	summaryFunc        func(ctx context.Context, userID string) (*service.CartSummary, error)
}

func (m *mockCartService) AddToCart(ctx context.Context, userID, productID string) (*domain.Product, error) {
	if m.addToCartFunc != nil {
		return m.addToCartFunc(ctx, userID, productID)
	}
	return &domain.Product{ID: productID, Name: "Test Product"}, nil
}

func (m *mockCartService) AdjustQuantity(ctx context.Context, userID, productID string, dir domain.Direction) error {
	if m.adjustQuantityFunc != nil {
		return m.adjustQuantityFunc(ctx, userID, productID, dir)
	}
	return nil
}

func (m *mockCartService) RemoveLine(ctx context.Context, userID, productID string) error {
	if m.removeLineFunc != nil {
		return m.removeLineFunc(ctx, userID, productID)
	}
	return nil
}

func (m *mockCartService) Summary(ctx context.Context, userID string) (*service.CartSummary, error) {
	if m.summaryFunc != nil {
		return m.summaryFunc(ctx, userID)
	}
	return &service.CartSummary{}, nil
}

// mockCatalogService implements CatalogService with overridable funcs.
type mockCatalogService struct {
	getFunc          func(ctx context.Context, productID string) (*domain.Product, error)
	listFunc         func(ctx context.Context, category, search string) ([]domain.Product, error)
	appendReviewFunc func(ctx context.Context, productID, userName string, rating int, comment string) error
}

func (m *mockCatalogService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, productID)
	}
	return &domain.Product{ID: productID}, nil
}

func (m *mockCatalogService) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, category, search)
	}
	return nil, nil
}

func (m *mockCatalogService) AppendReview(ctx context.Context, productID, userName string, rating int, comment string) error {
	if m.appendReviewFunc != nil {
		return m.appendReviewFunc(ctx, productID, userName, rating, comment)
	}
	return nil
}

// withUser installs a user in the request context the way the auth
// middleware does.
func withUser(r *http.Request, user *domain.User) *http.Request {
	ctx := context.WithValue(r.Context(), middleware.UserContextKey, user)
	return r.WithContext(ctx)
}
