package routes

import (
	"net/http"

	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/router"
)

// RegisterStorefrontRoutes registers all customer-facing routes.
func RegisterStorefrontRoutes(r *router.Router, deps StorefrontDeps) {
	// The bare root goes to the product listing.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		if req.URL.Path != "/" {
			http.NotFound(w, req)
			return
		}
		http.Redirect(w, req, "/home", http.StatusSeeOther)
	})

	// Authentication
	r.Get("/signup", deps.SignupHandler.ShowForm)
	r.Post("/signup", deps.SignupHandler.HandleSubmit)
	r.Get("/login", deps.LoginHandler.ShowForm)
	r.Post("/login", deps.LoginHandler.HandleSubmit)
	r.Post("/logout", deps.LogoutHandler.Handle)

	// Catalog browsing
	r.Get("/home", deps.ProductsHandler.List)
	r.Get("/products", deps.ProductsHandler.List)
	r.Get("/products/{id}", deps.ProductsHandler.Detail)

	// Routes that need a logged-in user
	auth := r.Group(middleware.RequireAuth(deps.Cookies))

	// Reviews
	auth.Post("/products/{id}/reviews", deps.ReviewHandler.Create)

	// Cart
	auth.Get("/cart", deps.CartHandler.View)
	auth.Post("/cart/add", deps.CartHandler.Add)
	auth.Post("/cart/update", deps.CartHandler.Update)
	auth.Post("/cart/remove", deps.CartHandler.Remove)

	// Profile and account
	auth.Get("/profile", deps.ProfileHandler.View)
	auth.Get("/profile/edit", deps.ProfileHandler.ShowEditForm)
	auth.Post("/profile/edit", deps.ProfileHandler.HandleEdit)
	auth.Post("/account/delete", deps.ProfileHandler.HandleDelete)
}
