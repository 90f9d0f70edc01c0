package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/mail"

	"github.com/rs/zerolog/log"

	"github.com/nicolasm28/interview-evaluation/internal/auth"
	"github.com/nicolasm28/interview-evaluation/internal/services"
)

// UserHandler handles HTTP requests for user management.
type UserHandler struct {
	service services.UserServiceProvider
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service services.UserServiceProvider) *UserHandler {
	return &UserHandler{service: service}
}

// RegisterPayload defines the structure for registration requests.
type RegisterPayload struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register handles new user registration.
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var payload RegisterPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if _, err := mail.ParseAddress(payload.Email); err != nil {
		http.Error(w, "Invalid email address", http.StatusBadRequest)
		return
	}

	user, err := h.service.RegisterUser(r.Context(), payload.Name, payload.Email, payload.Username, payload.Password)
	if err != nil {
		var invalid *services.ValidationError
		switch {
		// Taken usernames and charset rejections answer 200 with an error
		// body, not a 4xx.
		case errors.Is(err, services.ErrUserExists):
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
		case errors.As(err, &invalid):
			w.Header().Set("Content-Type", "application/json")
			json.NewEncoder(w).Encode(map[string]string{"error": invalid.Reason})
		default:
			log.Error().Err(err).Str("username", payload.Username).Msg("Failed to register user")
			http.Error(w, "Failed to register user", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(user)
}

// GetMe returns the public profile of the authenticated caller.
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	username, ok := auth.UsernameFromContext(r.Context())
	if !ok {
		log.Error().Msg("Could not retrieve username from context")
		http.Error(w, "Could not retrieve user", http.StatusInternalServerError)
		return
	}

	user, err := h.service.GetUserByUsername(r.Context(), username)
	if err != nil {
		// Authentication already confirmed the user exists, so any failure
		// here is a server fault.
		log.Error().Err(err).Str("username", username).Msg("Authenticated user missing from store")
		http.Error(w, "Failed to retrieve user", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(user)
}
