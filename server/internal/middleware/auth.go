package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/server/internal/session"
)

// TokenValidator validates a bearer token and returns its claims
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// AuthMiddleware resolves the caller once per request from a bearer token or
// the session cookie. Requests without valid credentials continue anonymously;
// guards further down decide whether that is acceptable.
type AuthMiddleware struct {
	tokens   TokenValidator
	sessions *session.Manager
	log      *slog.Logger
}

// NewAuthMiddleware creates a new auth middleware. sessions may be nil.
func NewAuthMiddleware(tokens TokenValidator, sessions *session.Manager) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:   tokens,
		sessions: sessions,
		log:      slog.Default().With(slog.String("component", "auth_middleware")),
	}
}

// Authenticate attaches the *auth.Principal to the request context when credentials are valid
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := m.extractToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := m.tokens.ValidateToken(token)
		if err != nil {
			m.log.Debug("ignoring invalid credentials",
				slog.String("path", r.URL.Path),
				slog.String("error", err.Error()))
			next.ServeHTTP(w, r)
			return
		}

		principal := claims.Principal()
		recordPrincipal(r.Context(), principal)
		next.ServeHTTP(w, r.WithContext(auth.SetPrincipalInContext(r.Context(), principal)))
	})
}

// extractToken prefers the Authorization header over the session cookie
func (m *AuthMiddleware) extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		if token, ok := strings.CutPrefix(header, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
		return ""
	}
	if m.sessions == nil {
		return ""
	}
	token, err := m.sessions.GetToken(r)
	if err != nil {
		return ""
	}
	return token
}

// RequireRole rejects callers that are anonymous (401) or lack every role in roles (403)
func RequireRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if _, err := auth.RequireAnyRole(r.Context(), roles...); err != nil {
				writeAuthError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeAuthError(w http.ResponseWriter, err error) {
	status := http.StatusUnauthorized
	msg := "unauthorized"
	if errors.Is(err, auth.ErrForbidden) {
		status = http.StatusForbidden
		msg = "forbidden"
	}
	writeJSONError(w, status, msg)
}

func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

type principalSinkKey struct{}

// withPrincipalSink lets an outer middleware observe the principal resolved further in
func withPrincipalSink(ctx context.Context, sink **auth.Principal) context.Context {
	return context.WithValue(ctx, principalSinkKey{}, sink)
}

func recordPrincipal(ctx context.Context, p *auth.Principal) {
	if sink, ok := ctx.Value(principalSinkKey{}).(**auth.Principal); ok && sink != nil {
		*sink = p
	}
}
