package model

import "time"

// User is an account that can obtain bearer tokens.
// PasswordHash is excluded from every JSON rendering; only bcrypt hashes
// are ever stored or compared.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
