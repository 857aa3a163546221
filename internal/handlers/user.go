package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"places-backend/internal/services"

	"github.com/rs/zerolog/log"
)

// userService is the slice of UserService the handler needs.
type userService interface {
	Signup(ctx context.Context, name, email, password, imageURL string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
}

// UserHandler handles user-related HTTP requests
type UserHandler struct {
	users userService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users userService) *UserHandler {
	return &UserHandler{users: users}
}

// SignupRequest represents the request body for signing up
type SignupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	ImageURL string `json:"image_url"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Signup handles POST /api/v1/users/signup
func (h *UserHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusUnprocessableEntity)
		return
	}

	result, err := h.users.Signup(r.Context(), req.Name, req.Email, req.Password, req.ImageURL)
	if err != nil {
		log.Error().Err(err).Str("email", req.Email).Msg("Failed to sign up user")
		respondDomainError(w, err)
		return
	}

	log.Info().
		Str("user_id", result.User.ID).
		Str("email", result.User.Email).
		Msg("User signed up")

	respondJSON(w, http.StatusCreated, result)
}

// Login handles POST /api/v1/users/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, "Invalid request body", http.StatusUnprocessableEntity)
		return
	}

	result, err := h.users.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		log.Warn().Err(err).Str("email", req.Email).Msg("Failed login attempt")
		respondDomainError(w, err)
		return
	}

	log.Info().Str("user_id", result.User.ID).Msg("User logged in")

	respondJSON(w, http.StatusOK, result)
}
