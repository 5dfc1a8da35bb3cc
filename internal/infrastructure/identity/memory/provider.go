// Package memory is an in-process identity provider for local runs and tests.
package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
)

type record struct {
	identity     entities.Identity
	passwordHash []byte
}

// Provider keeps identities in a map. Emails are unique, matched case-insensitively.
// Passwords are only ever held as bcrypt hashes.
type Provider struct {
	mu      sync.RWMutex
	byID    map[string]*record
	byEmail map[string]string // normalized email -> id
	cost    int
	log     *slog.Logger
}

// NewProvider creates an empty provider
func NewProvider() *Provider {
	return &Provider{
		byID:    make(map[string]*record),
		byEmail: make(map[string]string),
		cost:    bcrypt.DefaultCost,
		log:     slog.Default().With(slog.String("component", "memory_identity")),
	}
}

// CreateUser stores a new identity with a bcrypt-hashed password
func (p *Provider) CreateUser(ctx context.Context, email, password string, preConfirmed bool) (*entities.Identity, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := entities.NormalizeEmail(email)
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[key]; exists {
		return nil, fmt.Errorf("%w: %s", repositories.ErrIdentityExists, key)
	}

	rec := &record{
		identity: entities.Identity{
			ID:        uuid.NewString(),
			Email:     email,
			Confirmed: preConfirmed,
			CreatedAt: time.Now(),
		},
		passwordHash: hash,
	}
	p.byID[rec.identity.ID] = rec
	p.byEmail[key] = rec.identity.ID

	p.log.Debug("identity created", slog.String("identity_id", rec.identity.ID))

	identity := rec.identity
	return &identity, nil
}

// DeleteUser removes an identity
func (p *Provider) DeleteUser(ctx context.Context, identityID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	rec, ok := p.byID[identityID]
	if !ok {
		return fmt.Errorf("%w: %s", repositories.ErrIdentityNotFound, identityID)
	}
	delete(p.byID, identityID)
	delete(p.byEmail, entities.NormalizeEmail(rec.identity.Email))
	return nil
}

// Len returns the number of stored identities
func (p *Provider) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.byID)
}

var _ repositories.IdentityProvider = (*Provider)(nil)
