package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/pkg/idgen"
	"github.com/devilmonastery/trainerhub/internal/pkg/metrics"
)

// SQLSTATE codes mapped onto domain errors
const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// MemberProfileRepository implements repositories.MemberProfileRepository for PostgreSQL
type MemberProfileRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewMemberProfileRepository creates a new PostgreSQL member profile repository
func NewMemberProfileRepository(db *sqlx.DB) repositories.MemberProfileRepository {
	return &MemberProfileRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "member_profile")),
	}
}

// Insert stores a new member profile
func (r *MemberProfileRepository) Insert(ctx context.Context, profile *entities.MemberProfile) error {
	start := time.Now()
	var err error
	defer func() {
		metrics.RecordDBOperation("member_profile", "insert", time.Since(start), 1, err)
	}()

	if profile.ID == "" {
		profile.ID = idgen.GenerateID()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = time.Now()
	}

	r.log.Debug("inserting member profile",
		slog.String("client_id", profile.ClientID),
		slog.String("identity_id", profile.IdentityID))

	query := `
		INSERT INTO member_profiles (id, client_id, identity_id, email, is_active, created_at)
		VALUES (:id, :client_id, :identity_id, :email, :is_active, :created_at)
	`
	_, err = r.db.NamedExecContext(ctx, query, profile)
	if err != nil {
		return translateConstraintError(err)
	}
	return nil
}

// FindByEmail returns the profile matching email case-insensitively, or nil, nil
func (r *MemberProfileRepository) FindByEmail(ctx context.Context, email string) (*entities.MemberProfile, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("member_profile", "find_by_email", time.Since(start), rowCount, err)
	}()

	var profile entities.MemberProfile
	query := `
		SELECT id, client_id, identity_id, email, is_active, created_at
		FROM member_profiles
		WHERE lower(email) = lower($1)
		LIMIT 1
	`
	err = r.db.GetContext(ctx, &profile, query, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = nil
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find member profile by email: %w", err)
	}

	rowCount = 1
	return &profile, nil
}

// translateConstraintError maps postgres constraint violations to domain errors.
// The driver's message is kept so callers can surface it as-is.
func translateConstraintError(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return fmt.Errorf("%w: %s", repositories.ErrMemberProfileExists, pqErr.Message)
		case pqForeignKeyViolation:
			return fmt.Errorf("%w: %s", repositories.ErrClientNotFound, pqErr.Message)
		}
	}
	return fmt.Errorf("failed to insert member profile: %w", err)
}

var _ repositories.MemberProfileRepository = (*MemberProfileRepository)(nil)
