package repositories

import (
	"context"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
)

// MemberProfileRepository owns member profile records. It knows nothing about
// identities beyond the stored reference.
type MemberProfileRepository interface {
	// Insert stores a new profile, assigning ID and CreatedAt when unset.
	// Returns ErrMemberProfileExists or ErrClientNotFound (wrapped) on constraint violations.
	Insert(ctx context.Context, profile *entities.MemberProfile) error

	// FindByEmail returns the profile for email, or nil, nil when there is none
	FindByEmail(ctx context.Context, email string) (*entities.MemberProfile, error)
}

// ClientRepository reads the businesses that own member profiles
type ClientRepository interface {
	// GetByID returns the client, or ErrClientNotFound
	GetByID(ctx context.Context, id string) (*entities.Client, error)
}
