package storefront

import (
	"net/http"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/handler"
	"github.com/oakheart/bazaar/internal/middleware"
)

// ProductsHandler handles catalog browsing.
type ProductsHandler struct {
	catalog  CatalogService
	renderer Renderer
	cookies  *cookie.Config
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(catalog CatalogService, renderer Renderer, cookies *cookie.Config) *ProductsHandler {
	return &ProductsHandler{
		catalog:  catalog,
		renderer: renderer,
		cookies:  cookies,
	}
}

// List handles GET /home and GET /products. Supports ?category= exact
// filtering and ?q= case-insensitive name search. When exactly one product
// results, whichever filter produced it, the listing jumps straight to its
// detail page.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	category := r.URL.Query().Get("category")
	search := r.URL.Query().Get("q")

	products, err := h.catalog.List(ctx, category, search)
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	if len(products) == 1 {
		http.Redirect(w, r, "/products/"+products[0].ID, http.StatusSeeOther)
		return
	}

	data := BaseTemplateData(w, r, h.cookies)
	data["Products"] = products
	data["Category"] = category
	data["Search"] = search

	h.renderer.RenderHTTP(w, "products", data)
}

// Detail handles GET /products/{id}: the product page with its reviews.
func (h *ProductsHandler) Detail(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	product, err := h.catalog.Get(ctx, r.PathValue("id"))
	if err != nil {
		middleware.GetLogger(ctx).Info("product detail: lookup failed", "product_id", r.PathValue("id"), "error", err)
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(w, r, h.cookies)
	data["Product"] = product

	h.renderer.RenderHTTP(w, "product_detail", data)
}
