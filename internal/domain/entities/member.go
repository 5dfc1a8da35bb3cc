package entities

import "time"

// MemberProfile links an Identity to the business (client) the member belongs to
type MemberProfile struct {
	ID         string    `json:"id" db:"id"`
	ClientID   string    `json:"client_id" db:"client_id"`
	IdentityID string    `json:"identity_id" db:"identity_id"` // reference to the provider identity
	Email      string    `json:"email" db:"email"`             // denormalized copy used for session lookup
	IsActive   bool      `json:"is_active" db:"is_active"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// NewMemberProfile builds an active profile for a freshly created identity
func NewMemberProfile(clientID, identityID, email string) *MemberProfile {
	return &MemberProfile{
		ClientID:   clientID,
		IdentityID: identityID,
		Email:      email,
		IsActive:   true,
	}
}

// Client is the fitness business that owns member profiles
type Client struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
