package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/atinyakov/baristafolio/internal/middleware"
	"github.com/atinyakov/baristafolio/internal/models"
	"go.uber.org/zap"
)

// AuthService signs the administrator in and changes their settings.
type AuthService interface {
	// Login verifies the credentials and returns a signed session token.
	Login(ctx context.Context, email, password string) (string, models.Session, error)
	// UpdateSettings changes email and optionally password after re-checking
	// the current password.
	UpdateSettings(ctx context.Context, adminID string, upd models.SettingsUpdate) error
}

// AuthHandler handles sign-in, session introspection, sign-out and the
// admin settings form.
type AuthHandler struct {
	// AuthService performs the underlying authentication operations.
	AuthService AuthService
	Log         *zap.Logger
}

// LoginRequest is the JSON payload of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

type loginResponse struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      sessionUser `json:"user"`
}

type sessionResponse struct {
	User    sessionUser `json:"user"`
	Expires time.Time   `json:"expires"`
}

func userOf(sess models.Session) sessionUser {
	return sessionUser{ID: sess.AdminID, Email: sess.Email, Name: "Admin"}
}

// Login checks the credentials, returns the token in the body and also sets
// it as an HttpOnly cookie for browser clients.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	token, sess, err := h.AuthService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, h.Log, err, Labels{Title: "Admin"}, "sign", "in")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    token,
		Path:     "/",
		Expires:  sess.ExpiresAt,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeJSON(w, http.StatusOK, loginResponse{Token: token, ExpiresAt: sess.ExpiresAt, User: userOf(sess)})
}

// Session returns the identity of the current session.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, sessionResponse{User: userOf(sess), Expires: sess.ExpiresAt})
}

// Logout clears the session cookie. Tokens are stateless, so bearer
// clients simply drop theirs.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteLaxMode,
	})
	writeMessage(w, "Signed out")
}

// UpdateSettings handles PUT /api/admin/settings.
func (h *AuthHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	sess, ok := middleware.SessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var upd models.SettingsUpdate
	if err := decodeJSON(r, &upd); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.AuthService.UpdateSettings(r.Context(), sess.AdminID, upd); err != nil {
		fail(w, h.Log, err, Labels{Title: "Admin"}, "update", "settings")
		return
	}
	writeMessage(w, "Profile updated successfully")
}
