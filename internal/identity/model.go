package identity

import "time"

// User represents a registered principal that can issue codes.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	PINHash      []byte
	TokenVersion int
	CreatedAt    time.Time
}

// Credentials carries a login or registration request.
type Credentials struct {
	Email    string
	Password string
}
