// Package admin holds the administrator HTTP handlers for catalog
// management. All routes sit behind RequireAdmin.
package admin

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/handler"
	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/service"
)

// Renderer renders a named page template to the response.
type Renderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data any)
}

// CatalogService is the slice of catalog operations the admin panel needs.
type CatalogService interface {
	List(ctx context.Context, category, search string) ([]domain.Product, error)
	Create(ctx context.Context, input service.ProductInput) (*domain.Product, error)
	Delete(ctx context.Context, productID string) error
}

// ProductHandler handles the admin product panel.
type ProductHandler struct {
	catalog  CatalogService
	renderer Renderer
	cookies  *cookie.Config
}

// NewProductHandler creates a new admin product handler.
func NewProductHandler(catalog CatalogService, renderer Renderer, cookies *cookie.Config) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		renderer: renderer,
		cookies:  cookies,
	}
}

// Home handles GET /admin: the full catalog grouped by category.
func (h *ProductHandler) Home(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	products, err := h.catalog.List(ctx, "", "")
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	categories, grouped := service.GroupByCategory(products)

	data := map[string]any{
		"Year":       time.Now().Year(),
		"User":       middleware.GetUser(ctx),
		"Categories": categories,
		"Grouped":    grouped,
	}
	if flash := h.cookies.PopFlash(w, r); flash != nil {
		data["Flash"] = flash
	}

	h.renderer.RenderHTTP(w, "admin/home", data)
}

// NewForm handles GET /admin/products/new.
func (h *ProductHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	data := map[string]any{
		"Year": time.Now().Year(),
		"User": middleware.GetUser(r.Context()),
	}
	if flash := h.cookies.PopFlash(w, r); flash != nil {
		data["Flash"] = flash
	}
	h.renderer.RenderHTTP(w, "admin/product_form", data)
}

// Create handles POST /admin/products. The price field arrives in cents.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	if err := r.ParseForm(); err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Invalid form data")
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	}

	priceCents, err := strconv.ParseInt(r.FormValue("price_cents"), 10, 64)
	if err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Price must be a whole number of cents")
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	}

	input := service.ProductInput{
		Name:             r.FormValue("name"),
		Description:      r.FormValue("description"),
		PriceCents:       priceCents,
		Category:         r.FormValue("category"),
		ImageURL:         r.FormValue("image_url"),
		AdditionalImages: r.FormValue("additional_images"),
	}

	product, err := h.catalog.Create(ctx, input)
	if err != nil {
		logger.Info("admin: product creation failed", "name", input.Name, "error", err)
		h.cookies.SetFlash(w, cookie.FlashError, domain.ErrorMessage(err))
		http.Redirect(w, r, "/admin/products/new", http.StatusSeeOther)
		return
	}

	logger.Info("admin: product created", "product_id", product.ID, "name", product.Name)

	h.cookies.SetFlash(w, cookie.FlashSuccess, product.Name+" added to the catalog")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}

// Delete handles POST /admin/products/{id}/delete. Cart lines holding the
// product keep their snapshots.
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	productID := r.PathValue("id")

	if err := h.catalog.Delete(ctx, productID); err != nil {
		middleware.GetLogger(ctx).Info("admin: product deletion failed", "product_id", productID, "error", err)
		h.cookies.SetFlash(w, cookie.FlashError, domain.ErrorMessage(err))
		http.Redirect(w, r, "/admin", http.StatusSeeOther)
		return
	}

	h.cookies.SetFlash(w, cookie.FlashSuccess, "Product removed from the catalog")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
}
