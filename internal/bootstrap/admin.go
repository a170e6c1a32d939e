// Package bootstrap handles one-time initialization tasks for the
// application.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/oakheart/bazaar/internal/auth"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/service"
)

// AdminConfig describes the initial admin account.
type AdminConfig struct {
	Email    string
	Password string
	Username string
}

// EnsureAdmin creates the initial admin account if it does not exist yet.
// Idempotent, safe to run on every startup. The admin is an ordinary user
// document with the admin role; its password goes through the same bcrypt
// path as everyone else's.
func EnsureAdmin(ctx context.Context, users service.UserStore, cfg AdminConfig, logger *slog.Logger) error {
	if cfg.Email == "" || cfg.Password == "" {
		logger.Warn("bootstrap: skipping admin creation, BAZAAR_ADMIN_EMAIL or BAZAAR_ADMIN_PASSWORD not set")
		return nil
	}

	email := service.NormalizeEmail(cfg.Email)

	existing, err := users.UserByEmail(ctx, email)
	if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
		return fmt.Errorf("bootstrap: failed to look up admin account: %w", err)
	}
	if existing != nil {
		if !existing.IsAdmin() {
			logger.Warn("bootstrap: account exists but does not carry the admin role", "email", email)
		}
		return nil
	}

	passwordHash, err := auth.HashPassword(cfg.Password)
	if err != nil {
		return fmt.Errorf("bootstrap: failed to hash admin password: %w", err)
	}

	username := cfg.Username
	if username == "" {
		username = "admin"
	}

	admin := &domain.User{
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         domain.RoleAdmin,
		Cart:         []domain.CartLine{},
	}

	if _, err := users.InsertUser(ctx, admin); err != nil {
		// A concurrent startup may have won the race; that is fine.
		if errors.Is(err, domain.ErrUserExists) {
			return nil
		}
		return fmt.Errorf("bootstrap: failed to create admin account: %w", err)
	}

	logger.Info("bootstrap: admin account created", "email", email)
	return nil
}
