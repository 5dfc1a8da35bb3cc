package repositories

import "errors"

// Domain-specific repository errors
var (
	// ErrIdentityExists is returned when the identity provider already has the email
	ErrIdentityExists = errors.New("identity already exists")

	// ErrIdentityNotFound is returned when an identity cannot be found
	ErrIdentityNotFound = errors.New("identity not found")

	// ErrMemberProfileExists is returned when a profile for the email already exists
	ErrMemberProfileExists = errors.New("member profile already exists")

	// ErrClientNotFound is returned when a client (business) cannot be found
	ErrClientNotFound = errors.New("client not found")
)
