package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/pkg/idgen"
	"github.com/devilmonastery/trainerhub/internal/pkg/metrics"
)

const defaultAuditListLimit = 50

// AuditRepository implements the AuditRepository interface for PostgreSQL
type AuditRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewAuditRepository creates a new PostgreSQL audit repository
func NewAuditRepository(db *sqlx.DB) repositories.AuditRepository {
	return &AuditRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "audit")),
	}
}

// auditLogRow represents an audit log as stored in the database
type auditLogRow struct {
	ID         string         `db:"id"`
	ActorID    sql.NullString `db:"actor_id"`
	Action     string         `db:"action"`
	Resource   string         `db:"resource_type"`
	ResourceID sql.NullString `db:"resource_id"`
	Metadata   string         `db:"metadata"`
	Success    bool           `db:"success"`
	ErrorMsg   sql.NullString `db:"error_message"`
	CreatedAt  time.Time      `db:"created_at"`
}

func (r *auditLogRow) toEntity() (*entities.AuditLog, error) {
	auditLog := &entities.AuditLog{
		ID:        r.ID,
		Action:    entities.AuditAction(r.Action),
		Resource:  entities.AuditResource(r.Resource),
		Success:   r.Success,
		CreatedAt: r.CreatedAt,
	}

	if r.ActorID.Valid {
		auditLog.ActorID = &r.ActorID.String
	}
	if r.ResourceID.Valid {
		auditLog.ResourceID = &r.ResourceID.String
	}
	if r.ErrorMsg.Valid {
		auditLog.ErrorMsg = &r.ErrorMsg.String
	}

	if err := auditLog.UnmarshalMetadataFromJSON(r.Metadata); err != nil {
		return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
	}
	return auditLog, nil
}

func auditLogRowFromEntity(auditLog *entities.AuditLog) (*auditLogRow, error) {
	row := &auditLogRow{
		ID:         auditLog.ID,
		Action:     string(auditLog.Action),
		Resource:   string(auditLog.Resource),
		Success:    auditLog.Success,
		CreatedAt:  auditLog.CreatedAt,
		ActorID:    nullString(auditLog.ActorID),
		ResourceID: nullString(auditLog.ResourceID),
		ErrorMsg:   nullString(auditLog.ErrorMsg),
	}

	metadata, err := auditLog.MarshalMetadataToJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata: %w", err)
	}
	row.Metadata = metadata

	return row, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// Create creates a new audit log entry
func (r *AuditRepository) Create(ctx context.Context, log *entities.AuditLog) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("audit", "create", time.Since(start), 1, err)
	}()

	if log.ID == "" {
		log.ID = idgen.GenerateID()
	}
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now()
	}

	r.log.Debug("creating audit log",
		slog.String("action", string(log.Action)),
		slog.String("resource", string(log.Resource)),
		slog.Any("resource_id", log.ResourceID),
		slog.Bool("success", log.Success))

	row, convertErr := auditLogRowFromEntity(log)
	if convertErr != nil {
		err = convertErr
		return err
	}

	query := `
		INSERT INTO audit_logs (id, actor_id, action, resource_type, resource_id, metadata, success, error_message, created_at)
		VALUES (:id, :actor_id, :action, :resource_type, :resource_id, :metadata, :success, :error_message, :created_at)
	`
	_, err = r.db.NamedExecContext(ctx, query, row)
	if err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

// ListByResource retrieves audit logs for one resource, newest first
func (r *AuditRepository) ListByResource(ctx context.Context, resource entities.AuditResource, resourceID string, limit int) ([]*entities.AuditLog, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("audit", "list_by_resource", time.Since(start), rowCount, err)
	}()

	if limit <= 0 {
		limit = defaultAuditListLimit
	}

	var rows []auditLogRow
	query := `
		SELECT id, actor_id, action, resource_type, resource_id, metadata, success, error_message, created_at
		FROM audit_logs
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	err = r.db.SelectContext(ctx, &rows, query, string(resource), resourceID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list audit logs: %w", err)
	}
	rowCount = int64(len(rows))

	logs := make([]*entities.AuditLog, 0, len(rows))
	for i := range rows {
		entry, convErr := rows[i].toEntity()
		if convErr != nil {
			err = convErr
			return nil, err
		}
		logs = append(logs, entry)
	}
	return logs, nil
}

var _ repositories.AuditRepository = (*AuditRepository)(nil)
