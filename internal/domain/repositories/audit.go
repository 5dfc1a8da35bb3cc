package repositories

import (
	"context"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
)

// AuditRepository defines the interface for audit log data access
type AuditRepository interface {
	// Create a new audit log entry
	Create(ctx context.Context, log *entities.AuditLog) error

	// ListByResource retrieves audit logs for a specific resource, newest first
	ListByResource(ctx context.Context, resource entities.AuditResource, resourceID string, limit int) ([]*entities.AuditLog, error)
}
