package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/oakheart/bazaar/internal/domain"
)

// ProductStore is the persistence contract for the catalog.
type ProductStore interface {
	GetProduct(ctx context.Context, productID string) (*domain.Product, error)
	ListProducts(ctx context.Context, category, search string) ([]domain.Product, error)
	InsertProduct(ctx context.Context, product *domain.Product) error
	DeleteProduct(ctx context.Context, productID string) error
	AppendReview(ctx context.Context, productID string, review domain.Review) error
}

// ProductInput is the admin product creation form. Price is in cents.
type ProductInput struct {
	Name             string `validate:"required,min=1,max=200"`
	Description      string `validate:"max=5000"`
	PriceCents       int64  `validate:"required,gt=0"`
	Category         string `validate:"required,min=1,max=100"`
	ImageURL         string `validate:"omitempty,url"`
	AdditionalImages string
}

// CatalogService owns product browsing, admin catalog management, and the
// review ledger.
type CatalogService struct {
	store    ProductStore
	validate *validator.Validate
}

// NewCatalogService creates a new CatalogService instance.
func NewCatalogService(store ProductStore) *CatalogService {
	return &CatalogService{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// Get loads a single product by its catalog id.
func (s *CatalogService) Get(ctx context.Context, productID string) (*domain.Product, error) {
	return s.store.GetProduct(ctx, productID)
}

// List returns products filtered by exact category and/or case-insensitive
// name search. Empty filters match everything.
func (s *CatalogService) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	return s.store.ListProducts(ctx, strings.TrimSpace(category), strings.TrimSpace(search))
}

// Create validates the form and inserts a new product with a fresh catalog
// id. The additional images field is a newline-separated list of URLs.
func (s *CatalogService) Create(ctx context.Context, input ProductInput) (*domain.Product, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, domain.Invalid("catalog.create", "invalid product: "+err.Error())
	}

	var extras []string
	for _, line := range strings.Split(input.AdditionalImages, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			extras = append(extras, line)
		}
	}

	product := &domain.Product{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(input.Name),
		Description:      strings.TrimSpace(input.Description),
		PriceCents:       input.PriceCents,
		Category:         strings.TrimSpace(input.Category),
		ImageURL:         strings.TrimSpace(input.ImageURL),
		AdditionalImages: extras,
		Reviews:          []domain.Review{},
		CreatedAt:        time.Now().UTC(),
	}
	if err := s.store.InsertProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// Delete removes a product from the catalog. Existing cart lines keep their
// snapshots; nothing is coordinated.
func (s *CatalogService) Delete(ctx context.Context, productID string) error {
	return s.store.DeleteProduct(ctx, productID)
}

// AppendReview attaches a review to a product. Ratings run 1 through 5.
func (s *CatalogService) AppendReview(ctx context.Context, productID, userName string, rating int, comment string) error {
	if rating < 1 || rating > 5 {
		return domain.ErrInvalidRating
	}

	review := domain.Review{
		User:      strings.TrimSpace(userName),
		Rating:    rating,
		Comment:   strings.TrimSpace(comment),
		CreatedAt: time.Now().UTC(),
	}
	return s.store.AppendReview(ctx, productID, review)
}

// GroupByCategory buckets products by category and returns category names in
// sorted order alongside the grouping. The admin home renders this.
func GroupByCategory(products []domain.Product) ([]string, map[string][]domain.Product) {
	groups := make(map[string][]domain.Product)
	for _, p := range products {
		groups[p.Category] = append(groups[p.Category], p)
	}

	names := make([]string, 0, len(groups))
	for name := range groups {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, groups
}
