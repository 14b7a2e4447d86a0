package handlers

import (
	"net/http"

	"github.com/xavierca1/calldesk/internal/entity"
	"github.com/xavierca1/calldesk/internal/usecase"
)

type AuthHandler struct {
	Auth        *usecase.AuthUseCase
	rateLimiter *RateLimiter
}

func NewAuthHandler(auth *usecase.AuthUseCase, limiter *RateLimiter) *AuthHandler {
	return &AuthHandler{
		Auth:        auth,
		rateLimiter: limiter,
	}
}

type SessionResponse struct {
	Success bool           `json:"success"`
	Session entity.Session `json:"session"`
}

// Register (POST /auth/register)
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := h.Auth.Register(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, SessionResponse{Success: true, Session: *session})
}

// Login (POST /auth/login)
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if !h.rateLimiter.Allow(getClientIP(r)) {
		writeFailure(w, http.StatusTooManyRequests, "RATE_LIMITED", "Too many requests. Please try again later.")
		return
	}

	var input usecase.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	session, err := h.Auth.Login(r.Context(), input)
	if err != nil {
		writeError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{Success: true, Session: *session})
}

// Logout (POST /auth/logout)
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Session (GET /session)
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	session, err := h.Auth.Current(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	if session == nil {
		writeFailure(w, http.StatusUnauthorized, usecase.CodeNoSession, entity.ErrNoSession.Error())
		return
	}

	writeJSON(w, http.StatusOK, SessionResponse{Success: true, Session: *session})
}
