package repositories

import (
	"context"
)

// Repositories is a collection of the store-backed repositories
type Repositories struct {
	Members MemberProfileRepository
	Clients ClientRepository
	Audit   AuditRepository
}

// HealthChecker defines health check interface for backing stores
type HealthChecker interface {
	// HealthCheck performs a health check on the store
	HealthCheck(ctx context.Context) error
}
