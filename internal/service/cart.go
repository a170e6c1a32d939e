package service

import (
	"context"

	"github.com/oakheart/bazaar/internal/domain"
)

// CartStore is the persistence contract for a user's embedded cart.
// Implementations must make each mutation atomic per line: two concurrent
// MergeLine calls for the same new product end up as one line with
// quantity 2, never two divergent lines.
type CartStore interface {
	Cart(ctx context.Context, userID string) ([]domain.CartLine, error)
	MergeLine(ctx context.Context, userID string, line domain.CartLine) error
	AdjustQuantity(ctx context.Context, userID, productID string, dir domain.Direction) error
	RemoveLine(ctx context.Context, userID, productID string) error
}

// ProductGetter is the slice of the catalog the cart engine needs: snapshot
// lookups by product id.
type ProductGetter interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
}

// CartSummary aggregates a cart with its display totals.
type CartSummary struct {
	Lines      []domain.CartLine
	TotalCents int64
	ItemCount  int
}

// CartService coordinates cart mutations: catalog lookup, snapshot capture,
// store mutation. It holds no state of its own.
type CartService struct {
	store    CartStore
	products ProductGetter
}

// NewCartService creates a new CartService instance.
func NewCartService(store CartStore, products ProductGetter) *CartService {
	return &CartService{
		store:    store,
		products: products,
	}
}

// AddToCart merges one unit of the product into the user's cart. The catalog
// lookup happens first: an unknown product id is rejected before any cart
// mutation, and the snapshot is captured at this instant. Each call adds
// exactly one unit; a retried request adds another. Returns the product so
// callers can name it in a confirmation message.
func (s *CartService) AddToCart(ctx context.Context, userID, productID string) (*domain.Product, error) {
	product, err := s.products.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	if err := s.store.MergeLine(ctx, userID, product.Snapshot()); err != nil {
		return nil, err
	}
	return product, nil
}

// AdjustQuantity moves a line's quantity one step in the given direction.
// Decrease holds a floor of 1 and never removes the line; a missing line is
// a silent no-op. Only the direction itself is validated.
func (s *CartService) AdjustQuantity(ctx context.Context, userID, productID string, dir domain.Direction) error {
	if !dir.Valid() {
		return domain.Invalid("cart.adjust", "direction must be increase or decrease")
	}
	return s.store.AdjustQuantity(ctx, userID, productID, dir)
}

// RemoveLine deletes the line keyed by productID. Removal is the only path
// by which a line leaves the cart; a missing key is a silent no-op.
func (s *CartService) RemoveLine(ctx context.Context, userID, productID string) error {
	return s.store.RemoveLine(ctx, userID, productID)
}

// Summary loads the cart and computes its display totals. The total is
// derived, never stored.
func (s *CartService) Summary(ctx context.Context, userID string) (*CartSummary, error) {
	lines, err := s.store.Cart(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &CartSummary{
		Lines:      lines,
		TotalCents: domain.TotalPrice(lines),
		ItemCount:  domain.ItemCount(lines),
	}, nil
}
