package handler

import (
	"encoding/json"
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/middleware"
	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/domain"
	"github.com/Rrens/chatrooms/internal/service"
)

// AuthHandler handles the one-time-code login endpoints
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RequestOTP issues a code. The code is returned in the body, as the login
// screen shows it to the user.
func (h *AuthHandler) RequestOTP(w http.ResponseWriter, r *http.Request) {
	var input domain.OTPRequest
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	code, err := h.authService.RequestOTP(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, map[string]string{
		"otp":     code,
		"message": "OTP sent: " + code,
	})
}

// Verify checks the code and returns an access token
func (h *AuthHandler) Verify(w http.ResponseWriter, r *http.Request) {
	var input domain.OTPVerify
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		response.BadRequest(w, "invalid request body")
		return
	}

	result, err := h.authService.Verify(r.Context(), input)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.OK(w, result)
}

// Logout ends the session and clears the chat state
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.authService.Logout(r.Context()); err != nil {
		response.FromError(w, err)
		return
	}
	response.NoContent(w)
}

// Me returns the current authenticated user
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, ok := middleware.GetProfile(r.Context())
	if !ok {
		response.Unauthorized(w, "unauthorized")
		return
	}

	state := h.authService.Current(r.Context())
	response.OK(w, map[string]any{
		"user":          profile,
		"authenticated": state.Authenticated,
	})
}
