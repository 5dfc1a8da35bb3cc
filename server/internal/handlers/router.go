package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/devilmonastery/trainerhub/server/internal/middleware"
)

// RouterConfig wires the handler and middleware chain
type RouterConfig struct {
	Handler    *Handler
	Auth       *middleware.AuthMiddleware
	Guard      *middleware.RouteGuard
	AdminRoles []string // roles allowed to create members
}

// NewRouter builds the HTTP routes. Middleware runs in order: request log,
// principal extraction, then the member/trainer area guard.
func NewRouter(cfg RouterConfig) http.Handler {
	h := cfg.Handler
	router := mux.NewRouter()
	router.Use(middleware.LogRequest, cfg.Auth.Authenticate, cfg.Guard.Guard)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.HandleFunc("/version", h.VersionInfo).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.Handle("/create-member",
		middleware.RequireRole(cfg.AdminRoles...)(http.HandlerFunc(h.CreateMember)),
	).Methods(http.MethodPost)

	router.HandleFunc("/session", h.CreateSession).Methods(http.MethodPost)
	router.HandleFunc("/session", h.DeleteSession).Methods(http.MethodDelete)

	// member area
	router.HandleFunc("/member/session", h.MemberSession).Methods(http.MethodGet)

	// trainer area
	router.HandleFunc("/dashboard/me", h.WhoAmI).Methods(http.MethodGet)

	return router
}
