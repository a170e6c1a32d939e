package routes

import (
	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/router"
)

// RegisterAdminRoutes registers the admin product panel behind RequireAdmin.
func RegisterAdminRoutes(r *router.Router, deps AdminDeps) {
	admin := r.Group(middleware.RequireAdmin(deps.Cookies))

	admin.Get("/admin", deps.ProductHandler.Home)
	admin.Get("/admin/products/new", deps.ProductHandler.NewForm)
	admin.Post("/admin/products", deps.ProductHandler.Create)
	admin.Post("/admin/products/{id}/delete", deps.ProductHandler.Delete)
}
