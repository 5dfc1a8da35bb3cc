package entities

import (
	"strings"
	"time"
)

// Identity is an authentication record owned by the external identity provider.
// The provider stores the password; this side only ever sees the ID and email.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Confirmed bool      `json:"confirmed,omitempty"` // email verified at creation, no verification round trip
	CreatedAt time.Time `json:"created_at"`
}

// NormalizeEmail lower-cases and trims an email so lookups and uniqueness agree
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
