package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/oakheart/bazaar/internal"
	"github.com/oakheart/bazaar/internal/bootstrap"
	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/handler"
	"github.com/oakheart/bazaar/internal/handler/admin"
	"github.com/oakheart/bazaar/internal/handler/storefront"
	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/mongo"
	"github.com/oakheart/bazaar/internal/router"
	"github.com/oakheart/bazaar/internal/routes"
	"github.com/oakheart/bazaar/internal/service"
)

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := internal.NewConfig()
	if err != nil {
		return fmt.Errorf("config initialization failed: %w", err)
	}

	// Configure logger
	logger := internal.NewLogger(os.Stdout, cfg.Env, cfg.LogLevel)

	// Connect to the document store
	logger.Info("Connecting to database...")
	db, err := mongo.Connect(ctx, cfg.MongoURI, cfg.Database)
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	defer db.Close(ctx)

	if err := db.EnsureIndexes(ctx); err != nil {
		return fmt.Errorf("index creation failed: %w", err)
	}
	logger.Info("Database connection established")

	// Stores
	userStore := mongo.NewUserStore(db)
	sessionStore := mongo.NewSessionStore(db)
	productStore := mongo.NewProductStore(db)

	// Services
	userService := service.NewUserService(userStore, sessionStore)
	cartService := service.NewCartService(userStore, productStore)
	catalogService := service.NewCatalogService(productStore)

	// Create the initial admin account if configured
	if err := bootstrap.EnsureAdmin(ctx, userStore, bootstrap.AdminConfig(cfg.Admin), logger); err != nil {
		return err
	}

	// Load templates with renderer
	logger.Info("Loading templates...")
	renderer, err := handler.NewRenderer("web/templates")
	if err != nil {
		return fmt.Errorf("failed to initialize renderer: %w", err)
	}

	cookies := cookie.NewConfig(cfg.Env == "prod")
	metrics := middleware.NewMetrics("bazaar")

	// Router with the global middleware chain
	r := router.New(
		middleware.RequestID,
		metrics.Middleware,
		router.Recovery(logger),
		router.Logger(logger),
		middleware.WithUser(userService),
		middleware.WithRequestLogger(logger),
	)

	r.Static("/static", "web/static")

	routes.RegisterStorefrontRoutes(r, routes.StorefrontDeps{
		Cookies:         cookies,
		SignupHandler:   storefront.NewSignupHandler(userService, renderer, cookies),
		LoginHandler:    storefront.NewLoginHandler(userService, renderer, cookies),
		LogoutHandler:   storefront.NewLogoutHandler(userService, cookies),
		ProductsHandler: storefront.NewProductsHandler(catalogService, renderer, cookies),
		ReviewHandler:   storefront.NewReviewHandler(catalogService, cookies),
		CartHandler:     storefront.NewCartHandler(cartService, renderer, cookies),
		ProfileHandler:  storefront.NewProfileHandler(userService, renderer, cookies),
	})

	routes.RegisterAdminRoutes(r, routes.AdminDeps{
		Cookies:        cookies,
		ProductHandler: admin.NewProductHandler(catalogService, renderer, cookies),
	})

	// Operational endpoints
	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		if err := db.Ping(req.Context()); err != nil {
			http.Error(w, "unhealthy", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
	})
	r.Handle(http.MethodGet, "/metrics", metrics.Handler())

	addr := fmt.Sprintf(":%d", cfg.Port)
	logger.Info("Starting server", "address", addr, "env", cfg.Env)

	if err := http.ListenAndServe(addr, r); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}
