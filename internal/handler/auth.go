package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arefin/miniddit/internal/apperror"
	"github.com/arefin/miniddit/internal/service"
)

// AuthHandler serves registration and login.
//
// Both routes are public: they sit outside the RequireAuth middleware and
// are the only way to obtain a token.
type AuthHandler struct {
	auth   *service.AuthService
	logger *slog.Logger
}

// NewAuthHandler creates an AuthHandler. All dependencies are injected;
// the handler has no knowledge of how they're constructed.
func NewAuthHandler(auth *service.AuthService, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{auth: auth, logger: logger}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

// HandleRegister creates a new account.
//
// HTTP: POST /register
// Body: {"username": "...", "password": "..."}
//
// 201 with an empty body on success. Duplicate usernames come back as 409;
// missing fields as 400.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("register: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	if _, err := h.auth.Register(r.Context(), req.Username, req.Password); err != nil {
		if !errors.Is(err, apperror.ErrValidation) && !errors.Is(err, apperror.ErrConflict) {
			h.logger.Error("register failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
}

// HandleLogin verifies credentials and returns a token.
//
// HTTP: POST /login
// Body: {"username": "...", "password": "..."}
//
// 200 {"token": "..."} on success. Both failure modes are a 400 ("user
// not found" and "wrong password"), matching what clients already expect.
// (This does reveal whether a username exists; kept for compatibility.)
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("login: invalid JSON", slog.String("error", err.Error()))
		writeJSON(w, http.StatusBadRequest, ErrorResponse{
			Error:   "validation_error",
			Message: "invalid JSON body",
		})
		return
	}

	token, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		// An unknown username is NotFound inside the service, but /login
		// reports it as a 400 like every other credential failure.
		if errors.Is(err, apperror.ErrNotFound) {
			writeJSON(w, http.StatusBadRequest, ErrorResponse{
				Error:   "invalid_credentials",
				Message: "user not found",
			})
			return
		}
		if !errors.Is(err, apperror.ErrUnauthorized) && !errors.Is(err, apperror.ErrValidation) {
			h.logger.Error("login failed", slog.String("error", err.Error()))
		}
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, loginResponse{Token: token})
}
