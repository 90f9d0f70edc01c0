package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/nicolasm28/interview-evaluation/internal/services"
)

// UsernameKey is the context key for the authenticated username.
type contextKey string

const UsernameKey = contextKey("authUsername")

// CredentialVerifier checks a username/password pair and returns the
// authenticated username.
type CredentialVerifier interface {
	VerifyCredentials(ctx context.Context, username, password string) (string, error)
}

// Basic creates a middleware enforcing HTTP Basic authentication on protected
// routes. Failures short-circuit with 401 and a Basic challenge; on success
// the verified username is passed down via the request context.
func Basic(verifier CredentialVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			username, password, ok := r.BasicAuth()
			if !ok {
				unauthorized(w, "Not authenticated")
				return
			}

			authed, err := verifier.VerifyCredentials(r.Context(), username, password)
			if err != nil {
				switch {
				case errors.Is(err, services.ErrUnknownUser):
					// The two failure bodies stay distinct to match the
					// historical contract, even though that leaks which
					// usernames exist.
					unauthorized(w, "Invalid ID")
				case errors.Is(err, services.ErrInvalidPassword):
					unauthorized(w, "Incorrect user or password")
				default:
					http.Error(w, "Authentication failed", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UsernameKey, authed)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UsernameFromContext returns the authenticated username set by Basic.
func UsernameFromContext(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(UsernameKey).(string)
	return username, ok
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Basic")
	http.Error(w, detail, http.StatusUnauthorized)
}
