package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/domain/services"
	"github.com/devilmonastery/trainerhub/server/internal/session"
)

// Version is stamped at build time with -ldflags "-X .../handlers.Version=..."
var Version = "dev"

// Provisioner creates member accounts
type Provisioner interface {
	Provision(ctx context.Context, req services.ProvisionRequest) (*entities.MemberProfile, error)
}

// Handler holds dependencies for the HTTP handlers
type Handler struct {
	provisioner Provisioner
	tokens      TokenValidator
	sessions    *session.Manager
	health      repositories.HealthChecker
	log         *slog.Logger
}

// TokenValidator checks a bearer token before it is stored in a session
type TokenValidator interface {
	ValidateToken(tokenString string) (*auth.Claims, error)
}

// New creates a handler. health may be nil.
func New(provisioner Provisioner, tokens TokenValidator, sessions *session.Manager, health repositories.HealthChecker) *Handler {
	return &Handler{
		provisioner: provisioner,
		tokens:      tokens,
		sessions:    sessions,
		health:      health,
		log:         slog.Default().With(slog.String("component", "http_handler")),
	}
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// errorResponse is the body of every non-2xx JSON response
type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
