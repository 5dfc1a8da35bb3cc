package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
)

// fakeIdentities records every call made to it
type fakeIdentities struct {
	mu        sync.Mutex
	calls     []string // "create:<email>" / "delete:<id>"
	byID      map[string]*entities.Identity
	createErr error
	deleteErr error
	nextID    int
}

func newFakeIdentities() *fakeIdentities {
	return &fakeIdentities{byID: make(map[string]*entities.Identity)}
}

func (f *fakeIdentities) CreateUser(ctx context.Context, email, password string, preConfirmed bool) (*entities.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create:"+email)
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == email {
			return nil, fmt.Errorf("%w: %s", repositories.ErrIdentityExists, email)
		}
	}
	f.nextID++
	identity := &entities.Identity{
		ID:        fmt.Sprintf("id-%d", f.nextID),
		Email:     email,
		Confirmed: preConfirmed,
		CreatedAt: time.Now(),
	}
	f.byID[identity.ID] = identity
	return identity, nil
}

func (f *fakeIdentities) DeleteUser(ctx context.Context, identityID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "delete:"+identityID)
	if f.deleteErr != nil {
		return f.deleteErr
	}
	if _, ok := f.byID[identityID]; !ok {
		return repositories.ErrIdentityNotFound
	}
	delete(f.byID, identityID)
	return nil
}

func (f *fakeIdentities) count(prefix string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		if len(c) >= len(prefix) && c[:len(prefix)] == prefix {
			n++
		}
	}
	return n
}

type fakeMembers struct {
	mu        sync.Mutex
	profiles  []*entities.MemberProfile
	inserts   int
	insertErr error
	findErr   error
}

func (f *fakeMembers) Insert(ctx context.Context, profile *entities.MemberProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inserts++
	if f.insertErr != nil {
		return f.insertErr
	}
	profile.ID = fmt.Sprintf("mp-%d", len(f.profiles)+1)
	profile.CreatedAt = time.Now()
	stored := *profile
	f.profiles = append(f.profiles, &stored)
	return nil
}

func (f *fakeMembers) FindByEmail(ctx context.Context, email string) (*entities.MemberProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	for _, p := range f.profiles {
		if p.Email == email {
			found := *p
			return &found, nil
		}
	}
	return nil, nil
}

type fakeClients map[string]*entities.Client

func (f fakeClients) GetByID(ctx context.Context, id string) (*entities.Client, error) {
	c, ok := f[id]
	if !ok {
		return nil, repositories.ErrClientNotFound
	}
	return c, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []*entities.AuditLog
	err     error
}

func (f *fakeAudit) Create(ctx context.Context, log *entities.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	f.entries = append(f.entries, log)
	return nil
}

func (f *fakeAudit) ListByResource(ctx context.Context, resource entities.AuditResource, resourceID string, limit int) ([]*entities.AuditLog, error) {
	return nil, nil
}

func (f *fakeAudit) actions() []entities.AuditAction {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]entities.AuditAction, 0, len(f.entries))
	for _, e := range f.entries {
		out = append(out, e.Action)
	}
	return out
}

var (
	_ repositories.IdentityProvider        = (*fakeIdentities)(nil)
	_ repositories.MemberProfileRepository = (*fakeMembers)(nil)
	_ repositories.ClientRepository        = fakeClients(nil)
	_ repositories.AuditRepository         = (*fakeAudit)(nil)
)
