package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/services"
)

// MemberSessionResolver turns an authenticated caller into a member session
type MemberSessionResolver interface {
	RequireMemberSession(ctx context.Context, principal *auth.Principal) (*entities.MemberSession, error)
}

type memberSessionKey struct{}

// MemberSessionFromContext returns the session attached by RouteGuard on member routes
func MemberSessionFromContext(ctx context.Context) (*entities.MemberSession, bool) {
	s, ok := ctx.Value(memberSessionKey{}).(*entities.MemberSession)
	return s, ok && s != nil
}

// RouteGuard applies the area checks picked by auth.ClassifyRoute:
// member routes need a resolvable member session, trainer routes need a
// trainer-area role. Other paths pass through.
type RouteGuard struct {
	members      MemberSessionResolver
	trainerRoles []string
	log          *slog.Logger
}

// NewRouteGuard creates a route guard. trainerRoles defaults to trainer and admin.
func NewRouteGuard(members MemberSessionResolver, trainerRoles ...string) *RouteGuard {
	if len(trainerRoles) == 0 {
		trainerRoles = []string{auth.RoleTrainer, auth.RoleAdmin}
	}
	return &RouteGuard{
		members:      members,
		trainerRoles: trainerRoles,
		log:          slog.Default().With(slog.String("component", "route_guard")),
	}
}

// Guard is the middleware
func (g *RouteGuard) Guard(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch auth.ClassifyRoute(r.URL.Path) {
		case auth.RouteMember:
			g.guardMember(next, w, r)
		case auth.RouteTrainer:
			if _, err := auth.RequireAnyRole(r.Context(), g.trainerRoles...); err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		default:
			next.ServeHTTP(w, r)
		}
	})
}

func (g *RouteGuard) guardMember(next http.Handler, w http.ResponseWriter, r *http.Request) {
	// a missing principal resolves to no session, which is the Unauthorized case
	principal, _ := auth.GetPrincipalFromContext(r.Context())

	memberSession, err := g.members.RequireMemberSession(r.Context(), principal)
	if err != nil {
		if errors.Is(err, services.ErrUnauthorized) {
			writeJSONError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		g.log.Error("member session resolution failed",
			slog.String("path", r.URL.Path),
			slog.String("request_id", RequestID(r.Context())),
			slog.String("error", err.Error()))
		writeJSONError(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx := context.WithValue(r.Context(), memberSessionKey{}, memberSession)
	next.ServeHTTP(w, r.WithContext(ctx))
}
