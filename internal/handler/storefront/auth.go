package storefront

import (
	"errors"
	"net/http"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/domain"
	"github.com/oakheart/bazaar/internal/middleware"
)

// SignupHandler handles the signup page and form submission.
type SignupHandler struct {
	users    UserService
	renderer Renderer
	cookies  *cookie.Config
}

// NewSignupHandler creates a new signup handler.
func NewSignupHandler(users UserService, renderer Renderer, cookies *cookie.Config) *SignupHandler {
	return &SignupHandler{
		users:    users,
		renderer: renderer,
		cookies:  cookies,
	}
}

// ShowForm handles GET /signup.
func (h *SignupHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "signup", BaseTemplateData(w, r, h.cookies))
}

// HandleSubmit handles POST /signup. A successful signup lands on the login
// page; failures re-render the form with the problem.
func (h *SignupHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	if err := r.ParseForm(); err != nil {
		logger.Error("signup: failed to parse form", "error", err)
		h.showFormError(w, r, "Invalid form data")
		return
	}

	username := r.FormValue("username")
	email := r.FormValue("email")
	password := r.FormValue("password")
	profilePicURL := r.FormValue("profile_pic_url")

	if username == "" || email == "" || password == "" {
		h.showFormError(w, r, "Username, email and password are required")
		return
	}

	user, err := h.users.Register(ctx, username, email, password, profilePicURL)
	if err != nil {
		logger.Info("signup: registration failed", "email", email, "error", err)
		h.showFormError(w, r, domain.ErrorMessage(err))
		return
	}

	logger.Info("signup: user registered", "email", user.Email, "user_id", user.ID.Hex())

	h.cookies.SetFlash(w, cookie.FlashSuccess, "Account created! Please log in.")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

func (h *SignupHandler) showFormError(w http.ResponseWriter, r *http.Request, message string) {
	data := BaseTemplateData(w, r, h.cookies)
	data["Error"] = message
	h.renderer.RenderHTTP(w, "signup", data)
}

// LoginHandler handles the login page and form submission.
type LoginHandler struct {
	users    UserService
	renderer Renderer
	cookies  *cookie.Config
}

// NewLoginHandler creates a new login handler.
func NewLoginHandler(users UserService, renderer Renderer, cookies *cookie.Config) *LoginHandler {
	return &LoginHandler{
		users:    users,
		renderer: renderer,
		cookies:  cookies,
	}
}

// ShowForm handles GET /login.
func (h *LoginHandler) ShowForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "login", BaseTemplateData(w, r, h.cookies))
}

// HandleSubmit handles POST /login. Success sets the session cookie and
// lands on the home page; administrators go straight to the admin panel.
func (h *LoginHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := middleware.GetLogger(ctx)

	if err := r.ParseForm(); err != nil {
		h.showFormError(w, r, "Invalid form data")
		return
	}

	email := r.FormValue("email")
	password := r.FormValue("password")

	user, err := h.users.Authenticate(ctx, email, password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidPassword) {
			h.showFormError(w, r, "Invalid email or password")
			return
		}
		logger.Error("login: authentication failed", "error", err)
		h.showFormError(w, r, "Something went wrong. Please try again.")
		return
	}

	token, err := h.users.CreateSession(ctx, user.ID)
	if err != nil {
		logger.Error("login: failed to create session", "user_id", user.ID.Hex(), "error", err)
		h.showFormError(w, r, "Something went wrong. Please try again.")
		return
	}

	logger.Info("login: session created", "user_id", user.ID.Hex())

	h.cookies.SetSession(w, token, sessionMaxAge)

	dest := "/home"
	if user.IsAdmin() {
		dest = "/admin"
	}
	http.Redirect(w, r, dest, http.StatusSeeOther)
}

func (h *LoginHandler) showFormError(w http.ResponseWriter, r *http.Request, message string) {
	data := BaseTemplateData(w, r, h.cookies)
	data["Error"] = message
	h.renderer.RenderHTTP(w, "login", data)
}

// LogoutHandler destroys the session and clears the cookie.
type LogoutHandler struct {
	users   UserService
	cookies *cookie.Config
}

// NewLogoutHandler creates a new logout handler.
func NewLogoutHandler(users UserService, cookies *cookie.Config) *LogoutHandler {
	return &LogoutHandler{
		users:   users,
		cookies: cookies,
	}
}

// Handle handles POST /logout. Logging out twice is harmless.
func (h *LogoutHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if token := cookie.Get(r, cookie.SessionCookieName); token != "" {
		if err := h.users.DeleteSession(r.Context(), token); err != nil {
			middleware.GetLogger(r.Context()).Error("logout: failed to delete session", "error", err)
		}
	}

	h.cookies.ClearSession(w)
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}
