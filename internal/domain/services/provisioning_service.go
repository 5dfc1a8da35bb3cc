package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/pkg/logger"
	"github.com/devilmonastery/trainerhub/internal/pkg/metrics"
)

// ProvisionState is a step of the create-identity / insert-profile saga
type ProvisionState int

const (
	StateStarted ProvisionState = iota
	StateIdentityCreated
	StateProfileInserted
	StateRolledBack
	StateCompensationFailed
)

func (s ProvisionState) String() string {
	switch s {
	case StateStarted:
		return "started"
	case StateIdentityCreated:
		return "identity_created"
	case StateProfileInserted:
		return "profile_inserted"
	case StateRolledBack:
		return "rolled_back"
	case StateCompensationFailed:
		return "compensation_failed"
	default:
		return fmt.Sprintf("ProvisionState(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible
func (s ProvisionState) Terminal() bool {
	return s == StateProfileInserted || s == StateRolledBack || s == StateCompensationFailed
}

var provisionTransitions = map[ProvisionState][]ProvisionState{
	StateStarted:         {StateIdentityCreated},
	StateIdentityCreated: {StateProfileInserted, StateRolledBack, StateCompensationFailed},
}

// provisionRun tracks one saga execution
type provisionRun struct {
	state    ProvisionState
	req      ProvisionRequest
	identity *entities.Identity
	profile  *entities.MemberProfile
	started  time.Time
}

func (r *provisionRun) advance(next ProvisionState) {
	for _, allowed := range provisionTransitions[r.state] {
		if allowed == next {
			r.state = next
			return
		}
	}
	panic(fmt.Sprintf("provisioning: illegal transition %s -> %s", r.state, next))
}

// ProvisioningService creates member accounts: an identity at the identity provider
// followed by a member profile in the store. If the profile insert fails the
// identity is deleted again, once.
type ProvisioningService struct {
	identities repositories.IdentityProvider
	members    repositories.MemberProfileRepository
	auditRepo  repositories.AuditRepository
	log        *slog.Logger
}

// NewProvisioningService creates a new provisioning service. auditRepo may be nil.
func NewProvisioningService(
	identities repositories.IdentityProvider,
	members repositories.MemberProfileRepository,
	auditRepo repositories.AuditRepository,
) *ProvisioningService {
	return &ProvisioningService{
		identities: identities,
		members:    members,
		auditRepo:  auditRepo,
		log:        slog.Default().With(slog.String("component", "provisioning")),
	}
}

// auditLog writes an audit entry if an audit repository is configured.
// Failures are logged and never change the outcome of provisioning.
func (s *ProvisioningService) auditLog(ctx context.Context, entry *entities.AuditLog) {
	if s.auditRepo == nil {
		return
	}
	if err := s.auditRepo.Create(ctx, entry); err != nil {
		s.log.Warn("failed to write audit log",
			slog.String("action", string(entry.Action)),
			slog.String("error", err.Error()))
	}
}

// Provision runs the saga for one member. On failure the returned error is a
// *ProvisionError whose message is the underlying cause.
func (s *ProvisioningService) Provision(ctx context.Context, req ProvisionRequest) (*entities.MemberProfile, error) {
	run := &provisionRun{state: StateStarted, req: req.normalized(), started: time.Now()}
	log := logger.WithMember(s.log, run.req.Email, run.req.ClientID)

	if err := run.req.Validate(); err != nil {
		log.Info("provisioning request rejected", slog.String("error", err.Error()))
		metrics.RecordProvisioning(metrics.OutcomeValidationFailed, time.Since(run.started))
		return nil, &ProvisionError{Kind: KindValidation, Err: err}
	}

	identity, err := s.identities.CreateUser(ctx, run.req.Email, run.req.Password, true)
	if err == nil && identity == nil {
		err = errors.New("identity provider returned no identity")
	}
	if err != nil {
		log.Warn("identity creation failed", slog.String("error", err.Error()))
		metrics.RecordProvisioning(metrics.OutcomeIdentityFailed, time.Since(run.started))
		s.auditLog(ctx, s.newAudit(run, entities.ActionMemberProvisionFailed, entities.ResourceIdentity).
			WithMetadata("step", run.state.String()).
			WithError(err))
		return nil, &ProvisionError{Kind: KindIdentityCreation, Err: err}
	}
	run.identity = identity
	run.advance(StateIdentityCreated)
	log.Info("identity created", slog.String("identity_id", identity.ID))

	profile := entities.NewMemberProfile(run.req.ClientID, identity.ID, run.req.Email)
	if err := s.members.Insert(ctx, profile); err != nil {
		log.Warn("member profile insert failed",
			slog.String("identity_id", identity.ID),
			slog.String("error", err.Error()))
		return nil, s.compensate(ctx, run, err)
	}
	run.profile = profile
	run.advance(StateProfileInserted)

	log.Info("member provisioned",
		slog.String("identity_id", identity.ID),
		slog.String("profile_id", profile.ID))
	metrics.RecordProvisioning(metrics.OutcomeProvisioned, time.Since(run.started))
	s.auditLog(ctx, s.newAudit(run, entities.ActionMemberProvisioned, entities.ResourceMemberProfile).
		WithResourceID(profile.ID).
		WithMetadata("identity_id", identity.ID))

	return profile, nil
}

// compensate deletes the identity created by run after its profile insert failed.
// The delete is attempted exactly once and runs even if ctx was cancelled.
// The returned error always carries insertErr as its message.
func (s *ProvisioningService) compensate(ctx context.Context, run *provisionRun, insertErr error) error {
	if run.state != StateIdentityCreated || run.identity == nil {
		panic(fmt.Sprintf("provisioning: compensate called in state %s", run.state))
	}

	ctx = context.WithoutCancel(ctx)
	identityID := run.identity.ID
	log := logger.WithMember(s.log, run.req.Email, run.req.ClientID).
		With(slog.String("identity_id", identityID))

	s.auditLog(ctx, s.newAudit(run, entities.ActionMemberProvisionFailed, entities.ResourceMemberProfile).
		WithMetadata("step", run.state.String()).
		WithMetadata("identity_id", identityID).
		WithError(insertErr))

	perr := &ProvisionError{Kind: KindProfileInsert, Err: insertErr, IdentityID: identityID}

	if err := s.identities.DeleteUser(ctx, identityID); err != nil {
		run.advance(StateCompensationFailed)
		perr.CompensationErr = err
		log.Error("compensating identity delete failed, identity is orphaned",
			slog.String("orphaned_identity_id", identityID),
			slog.String("insert_error", insertErr.Error()),
			slog.String("error", err.Error()))
		metrics.RecordProvisioning(metrics.OutcomeCompensationFailed, time.Since(run.started))
		s.auditLog(ctx, s.newAudit(run, entities.ActionCompensationFailed, entities.ResourceIdentity).
			WithResourceID(identityID).
			WithError(err))
		return perr
	}

	run.advance(StateRolledBack)
	log.Warn("identity deleted after failed profile insert")
	metrics.RecordProvisioning(metrics.OutcomeRolledBack, time.Since(run.started))
	s.auditLog(ctx, s.newAudit(run, entities.ActionIdentityCompensated, entities.ResourceIdentity).
		WithResourceID(identityID))
	return perr
}

func (s *ProvisioningService) newAudit(run *provisionRun, action entities.AuditAction, resource entities.AuditResource) *entities.AuditLog {
	var actor *string
	if run.req.ActorID != "" {
		actor = &run.req.ActorID
	}
	return entities.NewAuditLog(actor, action, resource).
		WithMetadata("email", run.req.Email).
		WithMetadata("client_id", run.req.ClientID)
}
