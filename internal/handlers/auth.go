package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/store"
	"photoshare/internal/token"
)

// Auth groups registration, login, and account handlers.
type Auth struct {
	users  *store.UserStore
	tokens *token.Service
}

// NewAuth creates a new Auth handler group.
func NewAuth(users *store.UserStore, tokens *token.Service) *Auth {
	return &Auth{users: users, tokens: tokens}
}

type signupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup registers a new account. The very first account ever created
// becomes the admin; everyone after that starts as a regular user.
func (a *Auth) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if msg := validateRegistration(req.Username, req.Email, req.Password); msg != "" {
		writeError(w, http.StatusBadRequest, msg)
		return
	}

	role := models.RoleUser
	count, err := a.users.Count()
	if err != nil {
		slog.Error("user count failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if count == 0 {
		role = models.RoleAdmin
	}

	user, err := a.users.Create(req.Username, req.Email, req.Password, role)
	if errors.Is(err, store.ErrDuplicate) {
		writeError(w, http.StatusConflict, "username or email already taken")
		return
	}
	if err != nil {
		slog.Error("user create failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusCreated, "account created", user)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// Login verifies credentials and issues an access token. Every failure
// mode returns the same generic 401 so callers cannot probe which
// emails are registered.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	user, err := a.users.FindByEmail(email)
	if err != nil {
		slog.Error("login lookup failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil || !a.users.CheckPassword(user, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	signed, err := a.tokens.Issue(user.Email)
	if err != nil {
		slog.Error("token issue failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, "login successful", loginResponse{
		AccessToken: signed,
		TokenType:   "bearer",
	})
}

// Me returns the authenticated account.
func (a *Auth) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.PrincipalFromCtx(r.Context())
	writeJSON(w, http.StatusOK, "ok", user)
}

type changeRoleRequest struct {
	Role string `json:"role"`
}

// ChangeRole updates another account's role. The route guard restricts
// this to admins.
func (a *Auth) ChangeRole(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid user id")
		return
	}

	var req changeRoleRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	role, ok := models.ParseRole(req.Role)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}

	user, err := a.users.UpdateRole(id, role)
	if err != nil {
		slog.Error("role update failed", "error", err, "user_id", id)
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	if user == nil {
		writeError(w, http.StatusNotFound, "user not found")
		return
	}

	slog.Info("role changed", "user_id", user.ID, "role", user.Role)
	writeJSON(w, http.StatusOK, "role updated", user)
}
