package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
)

func TestResolveMemberSessionRoundTrip(t *testing.T) {
	identities := newFakeIdentities()
	members := &fakeMembers{}
	clients := fakeClients{"c1": {ID: "c1", Name: "Iron Temple"}}

	profile, err := NewProvisioningService(identities, members, nil).Provision(context.Background(), validRequest())
	require.NoError(t, err)

	svc := NewSessionService(members, clients)
	principal := &auth.Principal{IdentityID: profile.IdentityID, Email: "a@x.com", Role: auth.RoleMember}

	session, err := svc.ResolveMemberSession(context.Background(), principal)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.Equal(t, *profile, *session.Profile)
	assert.Equal(t, "Iron Temple", session.Client.Name)
	assert.Equal(t, profile.IdentityID, session.Identity.ID)
	assert.True(t, session.Active())
}

func TestResolveMemberSession(t *testing.T) {
	members := &fakeMembers{profiles: []*entities.MemberProfile{
		{ID: "mp-1", ClientID: "c1", IdentityID: "id-1", Email: "a@x.com", IsActive: true},
		{ID: "mp-2", ClientID: "gone", IdentityID: "id-2", Email: "b@x.com", IsActive: true},
	}}
	clients := fakeClients{"c1": {ID: "c1", Name: "Iron Temple"}}
	svc := NewSessionService(members, clients)

	t.Run("no principal", func(t *testing.T) {
		session, err := svc.ResolveMemberSession(context.Background(), nil)
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("not a member", func(t *testing.T) {
		session, err := svc.ResolveMemberSession(context.Background(), &auth.Principal{Email: "trainer@x.com"})
		assert.NoError(t, err)
		assert.Nil(t, session)
	})

	t.Run("email case is ignored", func(t *testing.T) {
		session, err := svc.ResolveMemberSession(context.Background(), &auth.Principal{IdentityID: "id-1", Email: "A@X.COM"})
		require.NoError(t, err)
		require.NotNil(t, session)
		assert.Equal(t, "mp-1", session.Profile.ID)
	})

	t.Run("missing client is an error", func(t *testing.T) {
		_, err := svc.ResolveMemberSession(context.Background(), &auth.Principal{IdentityID: "id-2", Email: "b@x.com"})
		assert.ErrorIs(t, err, repositories.ErrClientNotFound)
	})
}

func TestResolveMemberSessionStoreError(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc := NewSessionService(&fakeMembers{findErr: storeErr}, fakeClients{})

	_, err := svc.ResolveMemberSession(context.Background(), &auth.Principal{Email: "a@x.com"})
	assert.ErrorIs(t, err, storeErr)
	assert.NotErrorIs(t, err, ErrUnauthorized)
}

func TestRequireMemberSession(t *testing.T) {
	members := &fakeMembers{profiles: []*entities.MemberProfile{
		{ID: "mp-1", ClientID: "c1", IdentityID: "id-1", Email: "a@x.com", IsActive: true},
	}}
	svc := NewSessionService(members, fakeClients{"c1": {ID: "c1"}})

	session, err := svc.RequireMemberSession(context.Background(), &auth.Principal{Email: "a@x.com"})
	require.NoError(t, err)
	assert.Equal(t, "mp-1", session.Profile.ID)

	_, err = svc.RequireMemberSession(context.Background(), &auth.Principal{Email: "z@x.com"})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = svc.RequireMemberSession(context.Background(), nil)
	assert.ErrorIs(t, err, ErrUnauthorized)
}
