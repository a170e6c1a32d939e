package service_test

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

type memProductStore struct {
	mu       sync.Mutex
	products map[string]*domain.Product
}

func newMemProductStore() *memProductStore {
	return &memProductStore{products: make(map[string]*domain.Product)}
}

func (m *memProductStore) GetProduct(_ context.Context, productID string) (*domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return nil, domain.ErrProductNotFound
	}
	return p, nil
}

func (m *memProductStore) ListProducts(_ context.Context, category, search string) ([]domain.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Product
	for _, p := range m.products {
		if category != "" && p.Category != category {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(search)) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memProductStore) InsertProduct(_ context.Context, product *domain.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.products[product.ID]; exists {
		return domain.Conflict("product.insert", "duplicate product id")
	}
	m.products[product.ID] = product
	return nil
}

func (m *memProductStore) DeleteProduct(_ context.Context, productID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[productID]; !ok {
		return domain.NotFound("catalog.delete", "product", productID)
	}
	delete(m.products, productID)
	return nil
}

func (m *memProductStore) AppendReview(_ context.Context, productID string, review domain.Review) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[productID]
	if !ok {
		return domain.ErrProductNotFound
	}
	p.Reviews = append(p.Reviews, review)
	return nil
}

func TestCatalogService_Create(t *testing.T) {
	store := newMemProductStore()
	svc := service.NewCatalogService(store)

	product, err := svc.Create(context.Background(), service.ProductInput{
		Name:             "  Walnut Desk ",
		Description:      "Solid walnut, four drawers.",
		PriceCents:       14900,
		Category:         "furniture",
		ImageURL:         "https://img.example.com/desk.jpg",
		AdditionalImages: "https://img.example.com/desk-2.jpg\n\n  https://img.example.com/desk-3.jpg  \n",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, product.ID, "products get a generated catalog id")
	assert.Equal(t, "Walnut Desk", product.Name)
	assert.Equal(t, []string{
		"https://img.example.com/desk-2.jpg",
		"https://img.example.com/desk-3.jpg",
	}, product.AdditionalImages)
	assert.NotNil(t, product.Reviews)

	got, err := svc.Get(context.Background(), product.ID)
	require.NoError(t, err)
	assert.Equal(t, product.ID, got.ID)
}

func TestCatalogService_Create_Validation(t *testing.T) {
	svc := service.NewCatalogService(newMemProductStore())
	ctx := context.Background()

	tests := []struct {
		name  string
		input service.ProductInput
	}{
		{"missing name", service.ProductInput{PriceCents: 100, Category: "misc"}},
		{"zero price", service.ProductInput{Name: "Lamp", Category: "misc"}},
		{"negative price", service.ProductInput{Name: "Lamp", PriceCents: -50, Category: "misc"}},
		{"missing category", service.ProductInput{Name: "Lamp", PriceCents: 100}},
		{"bad image url", service.ProductInput{Name: "Lamp", PriceCents: 100, Category: "misc", ImageURL: "not a url"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.input)
			assert.Equal(t, domain.EINVALID, domain.ErrorCode(err))
		})
	}
}

func TestCatalogService_List(t *testing.T) {
	store := newMemProductStore()
	svc := service.NewCatalogService(store)
	ctx := context.Background()

	seed := []service.ProductInput{
		{Name: "Walnut Desk", PriceCents: 14900, Category: "furniture"},
		{Name: "Oak Chair", PriceCents: 6900, Category: "furniture"},
		{Name: "Brass Lamp", PriceCents: 4500, Category: "lighting"},
	}
	for _, in := range seed {
		_, err := svc.Create(ctx, in)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "", "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	furniture, err := svc.List(ctx, "furniture", "")
	require.NoError(t, err)
	assert.Len(t, furniture, 2)

	// Name search is case-insensitive.
	lamps, err := svc.List(ctx, "", "  LAMP ")
	require.NoError(t, err)
	require.Len(t, lamps, 1)
	assert.Equal(t, "Brass Lamp", lamps[0].Name)
}

func TestCatalogService_Delete(t *testing.T) {
	store := newMemProductStore()
	svc := service.NewCatalogService(store)
	ctx := context.Background()

	product, err := svc.Create(ctx, service.ProductInput{Name: "Lamp", PriceCents: 100, Category: "lighting"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, product.ID))

	err = svc.Delete(ctx, product.ID)
	assert.True(t, domain.IsCode(err, domain.ENOTFOUND), "second delete should report not found, got %v", err)
}

func TestCatalogService_AppendReview(t *testing.T) {
	store := newMemProductStore()
	svc := service.NewCatalogService(store)
	ctx := context.Background()

	product, err := svc.Create(ctx, service.ProductInput{Name: "Lamp", PriceCents: 100, Category: "lighting"})
	require.NoError(t, err)

	require.NoError(t, svc.AppendReview(ctx, product.ID, "ada", 5, "Bright and warm."))
	require.NoError(t, svc.AppendReview(ctx, product.ID, "grace", 3, "A bit wobbly."))

	got, err := svc.Get(ctx, product.ID)
	require.NoError(t, err)
	require.Len(t, got.Reviews, 2)
	assert.Equal(t, "ada", got.Reviews[0].User, "reviews keep arrival order")
	assert.Equal(t, 5, got.Reviews[0].Rating)
}

func TestCatalogService_AppendReview_InvalidRating(t *testing.T) {
	svc := service.NewCatalogService(newMemProductStore())
	ctx := context.Background()

	for _, rating := range []int{0, -1, 6} {
		err := svc.AppendReview(ctx, "p1", "ada", rating, "nope")
		assert.ErrorIs(t, err, domain.ErrInvalidRating)
	}
}

func TestCatalogService_AppendReview_UnknownProduct(t *testing.T) {
	svc := service.NewCatalogService(newMemProductStore())

	err := svc.AppendReview(context.Background(), "ghost", "ada", 4, "fine")
	assert.ErrorIs(t, err, domain.ErrProductNotFound)
}

func TestGroupByCategory(t *testing.T) {
	products := []domain.Product{
		{ID: "1", Name: "Lamp", Category: "lighting"},
		{ID: "2", Name: "Desk", Category: "furniture"},
		{ID: "3", Name: "Chair", Category: "furniture"},
	}

	names, groups := service.GroupByCategory(products)

	assert.Equal(t, []string{"furniture", "lighting"}, names)
	assert.Len(t, groups["furniture"], 2)
	assert.Len(t, groups["lighting"], 1)
}
