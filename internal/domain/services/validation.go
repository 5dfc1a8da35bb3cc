package services

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their JSON names so messages match the request body
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ProvisionRequest is the input to member provisioning
type ProvisionRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	ClientID string `json:"clientId" validate:"required"`

	// ActorID is the identity of the administrator making the call, for auditing only
	ActorID string `json:"-"`
}

// normalized returns a copy with email lower-cased and IDs trimmed.
// The password is passed through untouched.
func (r ProvisionRequest) normalized() ProvisionRequest {
	r.Email = entities.NormalizeEmail(r.Email)
	r.ClientID = strings.TrimSpace(r.ClientID)
	return r
}

// Validate checks the request and returns a *ValidationError describing every bad field
func (r ProvisionRequest) Validate() error {
	err := validate.Struct(r)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	return newValidationError(verrs)
}

// ValidationError lists rejected request fields
type ValidationError struct {
	Missing []string          // required fields that were empty, in request order
	Fields  map[string]string // field -> problem
}

func newValidationError(verrs validator.ValidationErrors) *ValidationError {
	ve := &ValidationError{Fields: make(map[string]string)}
	for _, fe := range verrs {
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			ve.Missing = append(ve.Missing, field)
			ve.Fields[field] = "is required"
		case "email":
			ve.Fields[field] = "must be a valid email address"
		default:
			ve.Fields[field] = fmt.Sprintf("failed %s validation", fe.Tag())
		}
	}
	return ve
}

func (e *ValidationError) Error() string {
	if len(e.Missing) > 0 {
		return "missing required fields: " + strings.Join(e.Missing, ", ")
	}
	if msg, ok := e.Fields["email"]; ok {
		return "email " + msg
	}
	for field, msg := range e.Fields {
		return field + " " + msg
	}
	return "invalid request"
}
