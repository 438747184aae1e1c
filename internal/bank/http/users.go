package http

import (
	"net/http"
	"time"

	"github.com/eaglebank/eaglebank/internal/bank/service"
	"github.com/eaglebank/eaglebank/pkg/bankapi"
	"github.com/eaglebank/eaglebank/pkg/httpx"
	"github.com/eaglebank/eaglebank/pkg/slogx"
)

type UserHandler struct {
	UserService *service.UserService

	// CookieTTL bounds the session cookie set on register/login. It should
	// match the access token TTL so the cookie never outlives the token.
	CookieTTL time.Duration

	// SecureCookies marks session cookies Secure. Disabled only for local
	// plain-HTTP development.
	SecureCookies bool
}

// HandleRegister creates a user and signs them in, returning the user plus a
// bearer token and setting the session cookie.
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req bankapi.CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		bankapi.ErrValidation.WithDescription("invalid request body").WriteError(w)
		return
	}

	user, token, err := h.UserService.Register(ctx, service.RegisterParams{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Description: req.Description,
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user registered", "user_id", user.ID)

	h.setSessionCookie(w, token)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusCreated, bankapi.AuthResponse{
		User:  userInfo(user),
		Token: token,
	})
}

// HandleLogin authenticates an email/password pair. An unknown email is a
// 404, a wrong password a 401.
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	var req bankapi.LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		bankapi.ErrValidation.WithDescription("invalid request body").WriteError(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		bankapi.ErrValidation.WithDescription("email and password are required").WriteError(w)
		return
	}

	user, token, err := h.UserService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user logged in", "user_id", user.ID)

	h.setSessionCookie(w, token)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.AuthResponse{
		User:  userInfo(user),
		Token: token,
	})
}

// HandleLogout clears the session cookie. The bearer token itself stays
// valid until expiry; there is no server-side revocation list.
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.MessageResponse{Message: "logged out"})
}

// HandleGet returns a user by id. Only the user themselves can fetch it.
func (h *UserHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user, err := h.UserService.Get(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.UserResponse{User: userInfo(user)})
}

// HandleUpdate applies a partial update to the authenticated user's profile.
func (h *UserHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req bankapi.UpdateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		bankapi.ErrValidation.WithDescription("invalid request body").WriteError(w)
		return
	}

	user, err := h.UserService.Update(r.Context(), httpx.UserIDFromCtx(r.Context()), r.PathValue("userId"),
		service.UpdateUserParams{
			Name:        req.Name,
			Email:       req.Email,
			Password:    req.Password,
			Description: req.Description,
		})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.UserResponse{User: userInfo(user)})
}

// HandleDelete removes the authenticated user. Refused while the user still
// owns a bank account.
func (h *UserHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := slogx.FromContext(ctx)

	userID := r.PathValue("userId")
	if err := h.UserService.Delete(ctx, httpx.UserIDFromCtx(ctx), userID); err != nil {
		writeServiceError(w, r, err)
		return
	}

	log.Info("user deleted", "user_id", userID)
	httpx.NoCache(w)
	httpx.WriteJSON(w, http.StatusOK, bankapi.MessageResponse{Message: "user deleted"})
}

func (h *UserHandler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     httpx.SessionCookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.CookieTTL / time.Second),
		HttpOnly: true,
		Secure:   h.SecureCookies,
		SameSite: http.SameSiteStrictMode,
	})
}
