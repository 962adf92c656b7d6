package api

import (
	"encoding/json"
	"net/http"

	"goap-agent/internal/apperr"
	"goap-agent/internal/controlauth"
)

// AuthHandler issues operator tokens.
type AuthHandler struct {
	service *controlauth.Service
}

// NewAuthHandler constructs an AuthHandler over service.
func NewAuthHandler(service *controlauth.Service) *AuthHandler {
	return &AuthHandler{service: service}
}

// LoginRequest is the operator credential pair.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token string `json:"token"`
}

// Login validates operator credentials and issues a token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apperr.RespondWithError(w, apperr.Wrap(apperr.ErrInvalidInput, "failed to parse request body", err))
		return
	}

	token, err := h.service.Login(req.Username, req.Password)
	if err != nil {
		apperr.RespondWithError(w, apperr.Wrap(apperr.ErrUnauthorized, "invalid credentials", err))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(LoginResponse{Token: token})
}
