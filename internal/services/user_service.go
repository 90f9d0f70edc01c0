package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/nicolasm28/interview-evaluation/internal/database"
	"github.com/nicolasm28/interview-evaluation/internal/models"
)

// forbiddenPunctuation is the character set usernames may not contain.
const forbiddenPunctuation = `!"',-./:;?_`

// UserServiceProvider defines the interface for user services.
type UserServiceProvider interface {
	GetUserByUsername(ctx context.Context, username string) (models.User, error)
	RegisterUser(ctx context.Context, name, email, username, password string) (models.User, error)
	VerifyCredentials(ctx context.Context, username, password string) (string, error)
}

// UserService provides business logic for user registration and authentication.
type UserService struct {
	db *sql.DB
}

// NewUserService creates a new UserService.
func NewUserService(db *sql.DB) *UserService {
	return &UserService{db: db}
}

// GetUserByUsername retrieves a single user, including the password hash.
func (s *UserService) GetUserByUsername(ctx context.Context, username string) (models.User, error) {
	var user models.User
	row := s.db.QueryRowContext(ctx, "SELECT username, name, email, password_hash FROM users WHERE username = ?", username)
	err := row.Scan(&user.Username, &user.Name, &user.Email, &user.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUnknownUser
		}
		return models.User{}, err
	}
	return user, nil
}

// validateUsername enforces the username charset rules. Checks run in a fixed
// order; the first violated rule decides the message.
func validateUsername(username string) error {
	if strings.Contains(username, "@") {
		return &ValidationError{Reason: "username cannot contain @"}
	}
	if strings.IndexFunc(username, func(r rune) bool { return r >= 'A' && r <= 'Z' }) >= 0 {
		return &ValidationError{Reason: "username cannot contain uppercases"}
	}
	if strings.ContainsAny(username, forbiddenPunctuation) {
		return &ValidationError{Reason: "username cannot contain punctuations"}
	}
	return nil
}

// RegisterUser validates the username, hashes the password and persists the
// new account. Existence is checked before charset validation to keep the
// historical precedence of error messages.
func (s *UserService) RegisterUser(ctx context.Context, name, email, username, password string) (models.User, error) {
	if _, err := s.GetUserByUsername(ctx, username); err == nil {
		return models.User{}, ErrUserExists
	} else if !errors.Is(err, ErrUnknownUser) {
		return models.User{}, err
	}

	if err := validateUsername(username); err != nil {
		return models.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, fmt.Errorf("failed to hash password: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return models.User{}, err
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, "INSERT INTO users (username, name, email, password_hash) VALUES (?, ?, ?, ?)", username, name, email, string(hashed))
	if err != nil {
		// Two concurrent registrations can both pass the existence check;
		// the primary key settles the race.
		if database.IsUniqueViolation(err) {
			return models.User{}, ErrUserExists
		}
		return models.User{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.User{}, err
	}

	return models.User{Username: username, Name: name, Email: email}, nil
}

// VerifyCredentials checks a username/password pair against the stored hash
// and returns the authenticated username.
func (s *UserService) VerifyCredentials(ctx context.Context, username, password string) (string, error) {
	user, err := s.GetUserByUsername(ctx, username)
	if err != nil {
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidPassword
	}
	return user.Username, nil
}
