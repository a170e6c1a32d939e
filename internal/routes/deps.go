// Package routes wires handlers onto the router.
package routes

import (
	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/handler/admin"
	"github.com/oakheart/bazaar/internal/handler/storefront"
)

// StorefrontDeps contains dependencies for customer-facing routes.
type StorefrontDeps struct {
	Cookies *cookie.Config

	// Auth
	SignupHandler *storefront.SignupHandler
	LoginHandler  *storefront.LoginHandler
	LogoutHandler *storefront.LogoutHandler

	// Catalog browsing
	ProductsHandler *storefront.ProductsHandler
	ReviewHandler   *storefront.ReviewHandler

	// Cart
	CartHandler *storefront.CartHandler

	// Profile
	ProfileHandler *storefront.ProfileHandler
}

// AdminDeps contains dependencies for the admin panel routes.
type AdminDeps struct {
	Cookies        *cookie.Config
	ProductHandler *admin.ProductHandler
}
