package metrics

import (
	"strings"
	"time"
)

// Provisioning outcome labels
const (
	OutcomeProvisioned        = "provisioned"
	OutcomeValidationFailed   = "validation_failed"
	OutcomeIdentityFailed     = "identity_failed"
	OutcomeRolledBack         = "rolled_back"
	OutcomeCompensationFailed = "compensation_failed"
)

// RecordDBOperation records database operation metrics consistently
// repo: repository name (e.g., "member_profile", "client", "audit")
// operation: operation name (e.g., "insert", "find_by_email")
// rowsAffected: number of rows affected/returned (-1 if not applicable)
func RecordDBOperation(repo, operation string, duration time.Duration, rowsAffected int64, err error) {
	ms := float64(duration.Milliseconds())
	DBDuration.WithLabelValues(repo, operation).Observe(ms)

	if rowsAffected >= 0 {
		DBRowsAffected.WithLabelValues(repo, operation).Observe(float64(rowsAffected))
	}

	status := "success"
	if err != nil {
		status = "error"
		DBErrors.WithLabelValues(repo, operation, ClassifyDBError(err)).Inc()
	}
	DBOperations.WithLabelValues(repo, operation, status).Inc()
}

// RecordProvisioning records the terminal outcome of one provisioning attempt
func RecordProvisioning(outcome string, duration time.Duration) {
	ProvisioningOutcomes.WithLabelValues(outcome).Inc()
	ServiceDuration.WithLabelValues("provisioning", "provision").Observe(float64(duration.Milliseconds()))
	if outcome == OutcomeCompensationFailed {
		OrphanedIdentities.Inc()
	}
}

// ClassifyDBError categorizes database errors for metrics
func ClassifyDBError(err error) string {
	if err == nil {
		return "none"
	}

	errStr := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errStr, "duplicate") || strings.Contains(errStr, "unique constraint"):
		return "duplicate"
	case strings.Contains(errStr, "not found") || strings.Contains(errStr, "no rows"):
		return "not_found"
	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline"):
		return "timeout"
	case strings.Contains(errStr, "connection") || strings.Contains(errStr, "connect"):
		return "connection"
	case strings.Contains(errStr, "foreign key") || strings.Contains(errStr, "fk_"):
		return "foreign_key"
	case strings.Contains(errStr, "constraint"):
		return "constraint"
	default:
		return "other"
	}
}
