package storefront

import (
	"net/http"

	"github.com/oakheart/bazaar/internal/cookie"
	"github.com/oakheart/bazaar/internal/middleware"
	"github.com/oakheart/bazaar/internal/service"
)

// ProfileHandler handles the profile page, profile editing, and account
// deletion. All routes sit behind RequireAuth.
type ProfileHandler struct {
	users    UserService
	renderer Renderer
	cookies  *cookie.Config
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(users UserService, renderer Renderer, cookies *cookie.Config) *ProfileHandler {
	return &ProfileHandler{
		users:    users,
		renderer: renderer,
		cookies:  cookies,
	}
}

// View handles GET /profile.
func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "profile", BaseTemplateData(w, r, h.cookies))
}

// ShowEditForm handles GET /profile/edit.
func (h *ProfileHandler) ShowEditForm(w http.ResponseWriter, r *http.Request) {
	h.renderer.RenderHTTP(w, "profile_edit", BaseTemplateData(w, r, h.cookies))
}

// HandleEdit handles POST /profile/edit. Only submitted fields change.
func (h *ProfileHandler) HandleEdit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)

	if err := r.ParseForm(); err != nil {
		h.cookies.SetFlash(w, cookie.FlashError, "Invalid form data")
		http.Redirect(w, r, "/profile/edit", http.StatusSeeOther)
		return
	}

	var update service.ProfileUpdate
	if r.Form.Has("username") {
		v := r.FormValue("username")
		update.Username = &v
	}
	if r.Form.Has("bio") {
		v := r.FormValue("bio")
		update.Bio = &v
	}
	if r.Form.Has("profile_pic_url") {
		v := r.FormValue("profile_pic_url")
		update.ProfilePicURL = &v
	}

	if err := h.users.UpdateProfile(ctx, user.ID.Hex(), update); err != nil {
		middleware.GetLogger(ctx).Error("profile: update failed", "user_id", user.ID.Hex(), "error", err)
		h.cookies.SetFlash(w, cookie.FlashError, "Could not update profile")
		http.Redirect(w, r, "/profile/edit", http.StatusSeeOther)
		return
	}

	h.cookies.SetFlash(w, cookie.FlashSuccess, "Profile updated")
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

// HandleDelete handles POST /account/delete. The account, its cart, and the
// current session all go.
func (h *ProfileHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	user := middleware.GetUser(ctx)
	token := cookie.Get(r, cookie.SessionCookieName)

	if err := h.users.DeleteAccount(ctx, user.ID.Hex(), token); err != nil {
		middleware.GetLogger(ctx).Error("profile: account deletion failed", "user_id", user.ID.Hex(), "error", err)
		h.cookies.SetFlash(w, cookie.FlashError, "Could not delete account")
		http.Redirect(w, r, "/profile", http.StatusSeeOther)
		return
	}

	h.cookies.ClearSession(w)
	h.cookies.SetFlash(w, cookie.FlashInfo, "Your account has been deleted.")
	http.Redirect(w, r, "/signup", http.StatusSeeOther)
}
