package models

// User represents a registered account in the system.
type User struct {
	Username     string `json:"username"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"` // Never expose this to the client
}
