package handlers

import (
	"net/http"
	"strings"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/server/internal/middleware"
)

// MemberSession handles GET /member/session. The route guard has already
// resolved the session; this just returns it.
func (h *Handler) MemberSession(w http.ResponseWriter, r *http.Request) {
	memberSession, ok := middleware.MemberSessionFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, memberSession)
}

// CreateSession handles POST /session: a valid bearer token is copied into
// the session cookie so browser requests authenticate without the header.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	token = strings.TrimSpace(token)

	if _, err := h.tokens.ValidateToken(token); err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	if err := h.sessions.SetToken(r, w, token); err != nil {
		h.log.Error("failed to save session", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to save session")
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// DeleteSession handles DELETE /session
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.ClearToken(r, w); err != nil {
		h.log.Error("failed to clear session", "error", err)
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

type principalResponse struct {
	IdentityID string `json:"identity_id"`
	Email      string `json:"email"`
	Role       string `json:"role"`
}

// WhoAmI handles GET /dashboard/me for trainer-area callers
func (h *Handler) WhoAmI(w http.ResponseWriter, r *http.Request) {
	principal, err := auth.GetPrincipalFromContext(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, principalResponse{
		IdentityID: principal.IdentityID,
		Email:      principal.Email,
		Role:       principal.Role,
	})
}
