package middleware

import (
	"context"
	"net/http"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
)

type contextKey string

// UserContextKey is the context key for storing the authenticated user.
const UserContextKey contextKey = "user"

// SessionResolver resolves a session token to its user.
type SessionResolver interface {
	UserBySessionToken(ctx context.Context, token string) (*domain.User, error)
}

// WithUser extracts the user from the session cookie and adds it to the
// request context. The middleware is optional: requests without a valid
// session simply continue anonymous.
func WithUser(sessions SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := cookie.Get(r, cookie.SessionCookieName)
			if token == "" {
				next.ServeHTTP(w, r)
				return
			}

			user, err := sessions.UserBySessionToken(r.Context(), token)
			if err != nil {
				// Expired or unknown session, continue without user.
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), UserContextKey, user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// errLoginRequired is flashed at anonymous requests before the redirect
// to the login page.
var errLoginRequired = domain.Unauthorized("auth.require", "Please log in to continue.")

// RequireAuth ensures the user is authenticated. Anonymous requests are sent
// to the login page with a flash explaining why.
func RequireAuth(cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if GetUser(r.Context()) == nil {
				cookies.SetFlash(w, cookie.FlashError, domain.ErrorMessage(errLoginRequired))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin ensures the user carries the admin role. Anonymous requests
// redirect to login; authenticated non-admins get a 403.
func RequireAdmin(cookies *cookie.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := GetUser(r.Context())
			if user == nil {
				cookies.SetFlash(w, cookie.FlashError, domain.ErrorMessage(errLoginRequired))
				http.Redirect(w, r, "/login", http.StatusSeeOther)
				return
			}
			if !user.IsAdmin() {
				err := domain.Forbidden("auth.requireAdmin", "Administrator access required")
				http.Error(w, domain.ErrorMessage(err), http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// GetUser retrieves the authenticated user from the request context.
// Returns nil for anonymous requests.
func GetUser(ctx context.Context) *domain.User {
	user, ok := ctx.Value(UserContextKey).(*domain.User)
	if !ok {
		return nil
	}
	return user
}
