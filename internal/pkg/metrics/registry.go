package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Database/Repository Metrics
var (
	// DBOperations tracks total database operations
	DBOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_db_operations_total",
			Help: "Total database operations by repository, operation, and status",
		},
		[]string{"repo", "operation", "status"},
	)

	// DBDuration tracks database operation latency
	DBDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "trainerhub_db_operation_duration_ms",
			Help:                            "Database operation duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"repo", "operation"},
	)

	// DBRowsAffected tracks rows affected or returned by an operation
	DBRowsAffected = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "trainerhub_db_rows_affected",
			Help:                            "Number of rows affected by database operations",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"repo", "operation"},
	)

	// DBErrors tracks database errors by type
	DBErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_db_errors_total",
			Help: "Total database errors by repository, operation, and error type",
		},
		[]string{"repo", "operation", "error_type"},
	)
)

// Identity Provider Metrics
var (
	// IdentityProviderCalls tracks calls to the identity provider admin API
	IdentityProviderCalls = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_identity_provider_calls_total",
			Help: "Total identity provider API calls by method, route, and status code",
		},
		[]string{"method", "route", "status_code"},
	)

	// IdentityProviderDuration tracks identity provider latency
	IdentityProviderDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "trainerhub_identity_provider_duration_ms",
			Help:                            "Identity provider API call duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method", "route"},
	)

	// IdentityProviderErrors tracks identity provider failures by type
	IdentityProviderErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_identity_provider_errors_total",
			Help: "Total identity provider API errors by route and error type",
		},
		[]string{"route", "error_type"},
	)
)

// Service Layer Metrics
var (
	// ProvisioningOutcomes counts member provisioning attempts by terminal outcome
	ProvisioningOutcomes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_member_provisioning_total",
			Help: "Member provisioning attempts by outcome",
		},
		[]string{"outcome"},
	)

	// OrphanedIdentities counts identities left behind by a failed compensating delete
	OrphanedIdentities = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "trainerhub_orphaned_identities_total",
			Help: "Identities whose compensating delete failed after a profile insert failure",
		},
	)

	// SessionResolutions counts member session lookups by result
	SessionResolutions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_member_session_resolutions_total",
			Help: "Member session resolutions by result",
		},
		[]string{"result"},
	)

	// ServiceDuration tracks service operation latency
	ServiceDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "trainerhub_service_operation_duration_ms",
			Help:                            "Service operation duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"service", "method"},
	)
)

// HTTP Handler Metrics
var (
	// HTTPRequests tracks HTTP requests
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "trainerhub_http_requests_total",
			Help: "Total HTTP requests by method, route, and status",
		},
		[]string{"method", "route", "status"},
	)

	// HTTPDuration tracks HTTP request duration
	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:                            "trainerhub_http_request_duration_ms",
			Help:                            "HTTP request duration in milliseconds",
			NativeHistogramBucketFactor:     1.1,
			NativeHistogramMaxBucketNumber:  100,
			NativeHistogramMinResetDuration: 1 * time.Hour,
		},
		[]string{"method", "route"},
	)

	// HTTPActiveRequests tracks in-flight HTTP requests
	HTTPActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "trainerhub_http_active_requests",
			Help: "Number of active HTTP requests",
		},
	)
)
