package entities

import (
	"encoding/json"
	"time"
)

// AuditLog represents an audit entry for a provisioning step
type AuditLog struct {
	ID         string         `json:"id" db:"id"`
	ActorID    *string        `json:"actor_id,omitempty" db:"actor_id"` // null for CLI/system callers
	Action     AuditAction    `json:"action" db:"action"`
	Resource   AuditResource  `json:"resource" db:"resource_type"`
	ResourceID *string        `json:"resource_id,omitempty" db:"resource_id"`
	Metadata   map[string]any `json:"metadata,omitempty" db:"metadata"` // stored as JSON in DB
	Success    bool           `json:"success" db:"success"`
	ErrorMsg   *string        `json:"error_message,omitempty" db:"error_message"`
	CreatedAt  time.Time      `json:"created_at" db:"created_at"`
}

// AuditAction represents the type of action being audited
type AuditAction string

const (
	ActionMemberProvisioned     AuditAction = "member.provisioned"
	ActionMemberProvisionFailed AuditAction = "member.provision_failed"
	ActionIdentityCompensated   AuditAction = "identity.compensated"
	ActionCompensationFailed    AuditAction = "identity.compensation_failed"
)

// AuditResource represents the type of resource being acted upon
type AuditResource string

const (
	ResourceMemberProfile AuditResource = "member_profile"
	ResourceIdentity      AuditResource = "identity"
)

// NewAuditLog creates a new audit log entry
func NewAuditLog(actorID *string, action AuditAction, resource AuditResource) *AuditLog {
	return &AuditLog{
		ActorID:   actorID,
		Action:    action,
		Resource:  resource,
		Success:   true,
		CreatedAt: time.Now(),
		Metadata:  make(map[string]any),
	}
}

// WithResourceID sets the resource ID
func (a *AuditLog) WithResourceID(resourceID string) *AuditLog {
	a.ResourceID = &resourceID
	return a
}

// WithError marks the audit log as failed with an error message
func (a *AuditLog) WithError(err error) *AuditLog {
	a.Success = false
	msg := err.Error()
	a.ErrorMsg = &msg
	return a
}

// WithMetadata adds metadata to the audit log
func (a *AuditLog) WithMetadata(key string, value any) *AuditLog {
	if a.Metadata == nil {
		a.Metadata = make(map[string]any)
	}
	a.Metadata[key] = value
	return a
}

// MarshalMetadataToJSON converts metadata map to JSON string for database storage
func (a *AuditLog) MarshalMetadataToJSON() (string, error) {
	if a.Metadata == nil {
		return "{}", nil
	}
	data, err := json.Marshal(a.Metadata)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// UnmarshalMetadataFromJSON converts JSON string from database to metadata map
func (a *AuditLog) UnmarshalMetadataFromJSON(data string) error {
	if data == "" || data == "{}" {
		a.Metadata = make(map[string]any)
		return nil
	}
	return json.Unmarshal([]byte(data), &a.Metadata)
}

// IsCompensation returns true for entries written while undoing a partial provisioning
func (a *AuditLog) IsCompensation() bool {
	return a.Action == ActionIdentityCompensated || a.Action == ActionCompensationFailed
}
