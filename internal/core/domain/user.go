package domain

import "time"

// User identifies the logged-in console operator within a session.
type User struct {
	Email     string    `json:"email"`
	SessionID string    `json:"sessionId"`
	LoginTime time.Time `json:"loginTime"`
}

// DirectoryUser is a registered identity in the user directory, used when the
// service runs with AUTH_MODE=directory.
type DirectoryUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
