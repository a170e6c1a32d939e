package storefront

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/handler"
	"github.com/oakheart/bazaar/internal/middleware"
)

// CartHandler handles the cart page and its mutations. All routes sit behind
// RequireAuth, so the user is always present in the context.
type CartHandler struct {
	carts    CartService
	renderer Renderer
	cookies  *cookie.Config
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(carts CartService, renderer Renderer, cookies *cookie.Config) *CartHandler {
	return &CartHandler{
		carts:    carts,
		renderer: renderer,
		cookies:  cookies,
	}
}

// View handles GET /cart.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	summary, err := h.carts.Summary(ctx, user.ID.Hex())
	if err != nil {
		handler.ErrorResponse(w, r, err)
		return
	}

	data := BaseTemplateData(w, r, h.cookies)
	data["Summary"] = summary

	h.renderer.RenderHTTP(w, "cart", data)
}

// Add handles POST /cart/add. Success and failure both land back on the
// product listing, with a flash describing the outcome. The listing form
// submits the category it was filtered by so the redirect keeps the filter.
func (h *CartHandler) Add(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	logger := middleware.GetLogger(ctx)

	if err := r.ParseForm(); err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Invalid form data")
		http.Redirect(w, r, "/products", http.StatusSeeOther)
		return
	}

	productID := r.FormValue("product_id")
	listingURL := "/products"
	if category := r.FormValue("category"); category != "" {
		listingURL += "?category=" + url.QueryEscape(category)
	}

	product, err := h.carts.AddToCart(ctx, user.ID.Hex(), productID)
	if err != nil {
		logger.Info("cart: add failed", "product_id", productID, "error", err)
		if errors.Is(err, domain.ErrProductNotFound) {
			h.cookies.SetFlash(w, cookie.FlashError, "Product not found")
		} else {
			h.cookies.SetFlash(w, cookie.FlashError, "Could not add item to cart")
		}
		http.Redirect(w, r, listingURL, http.StatusSeeOther)
		return
	}

	h.cookies.SetFlash(w, cookie.FlashSuccess, product.Name+" added to your cart!")
	http.Redirect(w, r, listingURL, http.StatusSeeOther)
}

// Update handles POST /cart/update: one step up or down for a line. Both
// outcomes land back on the cart page.
func (h *CartHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := r.ParseForm(); err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Invalid form data")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	productID := r.FormValue("product_id")
	dir := domain.Direction(r.FormValue("action"))

	if err := h.carts.AdjustQuantity(ctx, user.ID.Hex(), productID, dir); err != nil {
		middleware.GetLogger(ctx).Info("cart: adjust failed", "product_id", productID, "error", err)
		h.cookies.SetFlash(w, cookie.FlashError, "Could not update quantity")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}

// Remove handles POST /cart/remove.
func (h *CartHandler) Remove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := r.ParseForm(); err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Invalid form data")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	productID := r.FormValue("product_id")

	if err := h.carts.RemoveLine(ctx, user.ID.Hex(), productID); err != nil {
		middleware.GetLogger(ctx).Info("cart: remove failed", "product_id", productID, "error", err)
		h.cookies.SetFlash(w, cookie.FlashError, "Could not remove item")
		http.Redirect(w, r, "/cart", http.StatusSeeOther)
		return
	}

	h.cookies.SetFlash(w, cookie.FlashSuccess, "Item removed from cart")
	http.Redirect(w, r, "/cart", http.StatusSeeOther)
}
