package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/pkg/metrics"
)

// SessionService resolves an authenticated caller into a member session
type SessionService struct {
	members repositories.MemberProfileRepository
	clients repositories.ClientRepository
	log     *slog.Logger
}

// NewSessionService creates a new session service
func NewSessionService(members repositories.MemberProfileRepository, clients repositories.ClientRepository) *SessionService {
	return &SessionService{
		members: members,
		clients: clients,
		log:     slog.Default().With(slog.String("component", "session")),
	}
}

// ResolveMemberSession joins the caller with its member profile and owning client.
// A nil principal, or one with no matching profile, yields nil, nil: the caller
// is simply not a member.
func (s *SessionService) ResolveMemberSession(ctx context.Context, principal *auth.Principal) (session *entities.MemberSession, err error) {
	start := time.Now()
	defer func() {
		result := "member"
		switch {
		case err != nil:
			result = "error"
		case session == nil:
			result = "not_member"
		}
		metrics.SessionResolutions.WithLabelValues(result).Inc()
		metrics.ServiceDuration.WithLabelValues("session", "resolve").Observe(float64(time.Since(start).Milliseconds()))
	}()

	if principal == nil || principal.Email == "" {
		return nil, nil
	}

	email := entities.NormalizeEmail(principal.Email)
	profile, err := s.members.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("failed to look up member profile: %w", err)
	}
	if profile == nil {
		s.log.Debug("no member profile for caller", slog.String("email", email))
		return nil, nil
	}

	client, err := s.clients.GetByID(ctx, profile.ClientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load client %s for member profile %s: %w", profile.ClientID, profile.ID, err)
	}

	return &entities.MemberSession{
		Identity: entities.Identity{ID: principal.IdentityID, Email: email},
		Profile:  profile,
		Client:   client,
	}, nil
}

// RequireMemberSession is ResolveMemberSession that fails with ErrUnauthorized
// when the caller is not a member.
func (s *SessionService) RequireMemberSession(ctx context.Context, principal *auth.Principal) (*entities.MemberSession, error) {
	session, err := s.ResolveMemberSession(ctx, principal)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrUnauthorized
	}
	return session, nil
}
