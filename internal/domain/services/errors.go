package services

import (
	"errors"
)

// Error categories for member provisioning and session resolution.
// Match them with errors.Is against a returned *ProvisionError.
var (
	ErrValidation             = errors.New("validation failed")
	ErrIdentityCreationFailed = errors.New("identity creation failed")
	ErrProfileInsertFailed    = errors.New("member profile insert failed")
	ErrCompensationFailed     = errors.New("compensating identity delete failed")

	// ErrUnauthorized is returned when no member session can be resolved for the caller
	ErrUnauthorized = errors.New("unauthorized")
)

// ProvisionErrorKind identifies the step at which provisioning stopped
type ProvisionErrorKind int

const (
	KindValidation ProvisionErrorKind = iota + 1
	KindIdentityCreation
	KindProfileInsert
)

func (k ProvisionErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindIdentityCreation:
		return "identity_creation"
	case KindProfileInsert:
		return "profile_insert"
	default:
		return "unknown"
	}
}

// ProvisionError is the single error type returned by ProvisioningService.Provision.
// Its message is always the underlying cause, so callers can show it verbatim.
// A failed compensating delete does not change the message; it is carried in
// CompensationErr and reported through errors.Is(err, ErrCompensationFailed).
type ProvisionError struct {
	Kind            ProvisionErrorKind
	Err             error
	CompensationErr error
	IdentityID      string // the identity left behind when CompensationErr is set
}

func (e *ProvisionError) Error() string {
	return e.Err.Error()
}

func (e *ProvisionError) Unwrap() error {
	return e.Err
}

// Is maps the error onto the category sentinels
func (e *ProvisionError) Is(target error) bool {
	switch target {
	case ErrValidation:
		return e.Kind == KindValidation
	case ErrIdentityCreationFailed:
		return e.Kind == KindIdentityCreation
	case ErrProfileInsertFailed:
		return e.Kind == KindProfileInsert
	case ErrCompensationFailed:
		return e.CompensationErr != nil
	}
	return false
}

// OrphanedIdentity reports the identity ID that may have been left without a profile
func (e *ProvisionError) OrphanedIdentity() (string, bool) {
	if e.CompensationErr == nil {
		return "", false
	}
	return e.IdentityID, true
}
