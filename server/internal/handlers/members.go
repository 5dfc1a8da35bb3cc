package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/devilmonastery/trainerhub/internal/auth"
	"github.com/devilmonastery/trainerhub/internal/domain/services"
	"github.com/devilmonastery/trainerhub/server/internal/middleware"
)

const maxRequestBody = 1 << 20

// successResponse is the body of a successful mutation
type successResponse struct {
	Success bool `json:"success"`
}

// CreateMember handles POST /create-member.
// Every failure, validation or collaborator, is a 400 carrying the cause.
func (h *Handler) CreateMember(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(slog.String("request_id", middleware.RequestID(r.Context())))

	var req services.ProvisionRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if principal, err := auth.GetPrincipalFromContext(r.Context()); err == nil {
		req.ActorID = principal.IdentityID
	}

	profile, err := h.provisioner.Provision(r.Context(), req)
	if err != nil {
		var perr *services.ProvisionError
		if errors.As(err, &perr) {
			log.Warn("create member failed",
				slog.String("stage", perr.Kind.String()),
				slog.Bool("orphaned_identity", errors.Is(err, services.ErrCompensationFailed)),
				slog.String("error", err.Error()))
		} else {
			log.Error("create member failed", slog.String("error", err.Error()))
		}
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	log.Info("member created",
		slog.String("profile_id", profile.ID),
		slog.String("client_id", profile.ClientID))
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}
