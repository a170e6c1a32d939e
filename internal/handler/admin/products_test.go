package admin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

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

type mockCatalogService struct {
	listFunc   func(ctx context.Context, category, search string) ([]domain.Product, error)
	createFunc func(ctx context.Context, input service.ProductInput) (*domain.Product, error)
	deleteFunc func(ctx context.Context, productID string) error
}

func (m *mockCatalogService) List(ctx context.Context, category, search string) ([]domain.Product, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, category, search)
	}
	return nil, nil
}

func (m *mockCatalogService) Create(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, input)
	}
	return &domain.Product{ID: "generated", Name: input.Name}, nil
}

func (m *mockCatalogService) Delete(ctx context.Context, productID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, productID)
	}
	return nil
}

func postForm(path string, form url.Values) *http.Request {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return r
}

func TestProductHandler_Home(t *testing.T) {
	catalog := &mockCatalogService{
		listFunc: func(ctx context.Context, category, search string) ([]domain.Product, error) {
			return []domain.Product{
				{ID: "p1", Name: "Walnut Desk", Category: "furniture"},
				{ID: "p2", Name: "Brass Lamp", Category: "lighting"},
				{ID: "p3", Name: "Oak Chair", Category: "furniture"},
			}, nil
		},
	}

	renderer := &fakeRenderer{}
	h := NewProductHandler(catalog, renderer, cookie.NewConfig(false))

	w := httptest.NewRecorder()
	h.Home(w, httptest.NewRequest(http.MethodGet, "/admin", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if renderer.name != "admin/home" {
		t.Errorf("expected admin/home template, got %q", renderer.name)
	}

	categories, ok := renderer.data["Categories"].([]string)
	if !ok || len(categories) != 2 {
		t.Fatalf("expected 2 categories, got %v", renderer.data["Categories"])
	}
	if categories[0] != "furniture" || categories[1] != "lighting" {
		t.Errorf("expected sorted categories, got %v", categories)
	}

	grouped, ok := renderer.data["Grouped"].(map[string][]domain.Product)
	if !ok || len(grouped["furniture"]) != 2 {
		t.Errorf("expected 2 furniture products, got %v", renderer.data["Grouped"])
	}
}

func TestProductHandler_Create(t *testing.T) {
	t.Run("valid form creates and redirects to admin home", func(t *testing.T) {
		var gotInput service.ProductInput
		catalog := &mockCatalogService{
			createFunc: func(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
				gotInput = input
				return &domain.Product{ID: "new-id", Name: input.Name}, nil
			},
		}

		h := NewProductHandler(catalog, &fakeRenderer{}, cookie.NewConfig(false))

		form := url.Values{
			"name":        {"Walnut Desk"},
			"description": {"Solid walnut."},
			"price_cents": {"14900"},
			"category":    {"furniture"},
			"image_url":   {"https://img.example.com/desk.jpg"},
		}
		w := httptest.NewRecorder()
		h.Create(w, postForm("/admin/products", form))

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/admin" {
			t.Errorf("expected redirect to /admin, got %q", loc)
		}
		if gotInput.PriceCents != 14900 {
			t.Errorf("expected price 14900, got %d", gotInput.PriceCents)
		}
		if gotInput.Name != "Walnut Desk" {
			t.Errorf("expected name Walnut Desk, got %q", gotInput.Name)
		}
	})

	t.Run("bad price sends back to the form", func(t *testing.T) {
		var called bool
		catalog := &mockCatalogService{
			createFunc: func(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
				called = true
				return nil, nil
			},
		}

		h := NewProductHandler(catalog, &fakeRenderer{}, cookie.NewConfig(false))

		form := url.Values{
			"name":        {"Walnut Desk"},
			"price_cents": {"a lot"},
			"category":    {"furniture"},
		}
		w := httptest.NewRecorder()
		h.Create(w, postForm("/admin/products", form))

		if w.Code != http.StatusSeeOther {
			t.Fatalf("expected 303, got %d", w.Code)
		}
		if loc := w.Header().Get("Location"); loc != "/admin/products/new" {
			t.Errorf("expected redirect to /admin/products/new, got %q", loc)
		}
		if called {
			t.Error("service must not be called for a non-numeric price")
		}
	})

	t.Run("validation failure sends back to the form", func(t *testing.T) {
		catalog := &mockCatalogService{
			createFunc: func(ctx context.Context, input service.ProductInput) (*domain.Product, error) {
				return nil, domain.Invalid("catalog.create", "invalid product")
			},
		}

		h := NewProductHandler(catalog, &fakeRenderer{}, cookie.NewConfig(false))

		form := url.Values{"name": {""}, "price_cents": {"100"}, "category": {""}}
		w := httptest.NewRecorder()
		h.Create(w, postForm("/admin/products", form))

		if loc := w.Header().Get("Location"); loc != "/admin/products/new" {
			t.Errorf("expected redirect to /admin/products/new, got %q", loc)
		}
	})
}

func TestProductHandler_Delete(t *testing.T) {
	tests := []struct {
		name      string
		deleteErr error
	}{
		{"existing product", nil},
		{"unknown product", domain.NotFound("catalog.delete", "product", "p1")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID string
			catalog := &mockCatalogService{
				deleteFunc: func(ctx context.Context, productID string) error {
					gotID = productID
					return tt.deleteErr
				},
			}

			h := NewProductHandler(catalog, &fakeRenderer{}, cookie.NewConfig(false))

			r := postForm("/admin/products/p1/delete", url.Values{})
			r.SetPathValue("id", "p1")
			w := httptest.NewRecorder()
			h.Delete(w, r)

			// Either way the admin lands back on the panel.
			if w.Code != http.StatusSeeOther {
				t.Fatalf("expected 303, got %d", w.Code)
			}
			if loc := w.Header().Get("Location"); loc != "/admin" {
				t.Errorf("expected redirect to /admin, got %q", loc)
			}
			if gotID != "p1" {
				t.Errorf("expected product id p1, got %q", gotID)
			}
		})
	}
}
