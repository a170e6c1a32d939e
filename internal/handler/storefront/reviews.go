package storefront

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/middleware"
)

// ReviewHandler handles posting reviews on product pages.
type ReviewHandler struct {
	catalog CatalogService
	cookies *cookie.Config
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(catalog CatalogService, cookies *cookie.Config) *ReviewHandler {
	return &ReviewHandler{
		catalog: catalog,
		cookies: cookies,
	}
}

// Create handles POST /products/{id}/reviews. Both outcomes land back on
// the product detail page.
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	productID := r.PathValue("id")
	detailURL := "/products/" + productID

	if err := r.ParseForm(); err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Invalid form data")
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	rating, err := strconv.Atoi(r.FormValue("rating"))
	if err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Rating must be a number between 1 and 5")
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}
	comment := r.FormValue("comment")

	if err := h.catalog.AppendReview(ctx, productID, user.Username, rating, comment); err != nil {
		middleware.GetLogger(ctx).Info("review: append failed", "product_id", productID, "error", err)
		switch {
		case errors.Is(err, domain.ErrInvalidRating):
			h.cookies.SetFlash(w, cookie.FlashError, "Rating must be between 1 and 5")
		case errors.Is(err, domain.ErrProductNotFound):
			h.cookies.SetFlash(w, cookie.FlashError, "Product not found")
		default:
			h.cookies.SetFlash(w, cookie.FlashError, "Could not submit review")
		}
		http.Redirect(w, r, detailURL, http.StatusSeeOther)
		return
	}

	h.cookies.SetFlash(w, cookie.FlashSuccess, "Thanks for your review!")
	http.Redirect(w, r, detailURL, http.StatusSeeOther)
}
