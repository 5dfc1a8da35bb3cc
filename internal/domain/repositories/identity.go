package repositories

import (
	"context"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
)

// IdentityProvider wraps the administrator-privileged identity operations of the
// external identity provider. Implementations hold the admin credentials; callers
// never re-check privilege.
type IdentityProvider interface {
	// CreateUser creates an identity for email/password. When preConfirmed is true
	// the email is marked verified so no verification round trip happens.
	// Returns ErrIdentityExists (wrapped) when the email is already registered.
	CreateUser(ctx context.Context, email, password string, preConfirmed bool) (*entities.Identity, error)

	// DeleteUser removes an identity. Returns ErrIdentityNotFound (wrapped) when
	// the identity does not exist.
	DeleteUser(ctx context.Context, identityID string) error
}
