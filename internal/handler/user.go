package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/clwillhuang/code-projectorium/internal/apperror"
	"github.com/clwillhuang/code-projectorium/internal/auth"
	"github.com/clwillhuang/code-projectorium/internal/service"
)

// UserHandler serves registration, login, logout, and the current-user
// probe the frontend polls on page load.
type UserHandler struct {
	accounts *service.AccountService
	sessions *auth.SessionService
	logger   *slog.Logger
}

// NewUserHandler creates a UserHandler.
func NewUserHandler(accounts *service.AccountService, sessions *auth.SessionService, logger *slog.Logger) *UserHandler {
	return &UserHandler{accounts: accounts, sessions: sessions, logger: logger}
}

// currentUserResponse mirrors the shape the frontend expects; the historical
// "_id" key is part of the contract.
type currentUserResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	Username        string `json:"username"`
	ID              string `json:"_id"`
}

// HandleCurrentUser reports the requester's identity, if any.
//
// GET /user
func (h *UserHandler) HandleCurrentUser(w http.ResponseWriter, r *http.Request) {
	identity, ok := auth.IdentityFromContext(r.Context())
	if !ok {
		writeJSON(w, http.StatusOK, currentUserResponse{})
		return
	}
	writeJSON(w, http.StatusOK, currentUserResponse{
		IsAuthenticated: true,
		Username:        identity.Username,
		ID:              identity.UserID,
	})
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and logs it in immediately, setting the
// session cookie. Validation failure returns 400 with per-field validity
// flags; the same flags (all true) form the success body.
//
// POST /users/register
func (h *UserHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, validity, err := h.accounts.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, apperror.ErrValidation) {
			writeJSON(w, http.StatusBadRequest, validity)
			return
		}
		h.logger.Error("registration failed", slog.String("error", err.Error()))
		writeError(w, err)
		return
	}

	session, err := h.sessions.Start(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("starting session after registration",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	auth.SetCookie(w, session)
	writeJSON(w, http.StatusOK, validity)
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type messageResponse struct {
	Message string `json:"message"`
}

// HandleLogin verifies credentials and opens a session, replacing any prior
// session for the account.
//
// POST /users/login
func (h *UserHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	user, err := h.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, err)
		return
	}

	session, err := h.sessions.Start(r.Context(), user.ID)
	if err != nil {
		h.logger.Error("starting session after login",
			slog.String("userID", user.ID),
			slog.String("error", err.Error()),
		)
		writeError(w, err)
		return
	}

	auth.SetCookie(w, session)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Login success"})
}

// HandleLogout destroys the requester's session and expires the cookie.
// Runs behind RequireAuth.
//
// POST /users/logout
func (h *UserHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(auth.SessionCookieName); err == nil && cookie.Value != "" {
		if err := h.sessions.End(r.Context(), cookie.Value); err != nil {
			h.logger.Error("ending session", slog.String("error", err.Error()))
			writeError(w, err)
			return
		}
	}

	auth.ClearCookie(w)
	writeJSON(w, http.StatusOK, messageResponse{Message: "Logout success"})
}
