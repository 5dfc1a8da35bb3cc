package postgres

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return sqlx.NewDb(db, "postgres"), mock
}

var profileColumns = []string{"id", "client_id", "identity_id", "email", "is_active", "created_at"}

func TestMemberProfileInsert(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewMemberProfileRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO member_profiles (id, client_id, identity_id, email, is_active, created_at)")).
		WithArgs(sqlmock.AnyArg(), "c1", "id-1", "a@x.com", true, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	profile := entities.NewMemberProfile("c1", "id-1", "a@x.com")
	require.NoError(t, repo.Insert(context.Background(), profile))
	assert.NotEmpty(t, profile.ID)
	assert.False(t, profile.CreatedAt.IsZero())
}

func TestMemberProfileInsertConstraintErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"duplicate email", &pq.Error{Code: pqUniqueViolation, Message: "duplicate key value violates unique constraint"}, repositories.ErrMemberProfileExists},
		{"unknown client", &pq.Error{Code: pqForeignKeyViolation, Message: "violates foreign key constraint"}, repositories.ErrClientNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := newMockDB(t)
			repo := NewMemberProfileRepository(db)

			mock.ExpectExec("INSERT INTO member_profiles").WillReturnError(tt.err)

			err := repo.Insert(context.Background(), entities.NewMemberProfile("c1", "id-1", "a@x.com"))
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMemberProfileFindByEmail(t *testing.T) {
	created := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)

	t.Run("match", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMemberProfileRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("WHERE lower(email) = lower($1)")).
			WithArgs("A@X.com").
			WillReturnRows(sqlmock.NewRows(profileColumns).
				AddRow("mp-1", "c1", "id-1", "a@x.com", true, created))

		profile, err := repo.FindByEmail(context.Background(), "A@X.com")
		require.NoError(t, err)
		require.NotNil(t, profile)
		assert.Equal(t, entities.MemberProfile{
			ID:         "mp-1",
			ClientID:   "c1",
			IdentityID: "id-1",
			Email:      "a@x.com",
			IsActive:   true,
			CreatedAt:  created,
		}, *profile)
	})

	t.Run("no match", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMemberProfileRepository(db)

		mock.ExpectQuery("FROM member_profiles").
			WithArgs("nobody@x.com").
			WillReturnRows(sqlmock.NewRows(profileColumns))

		profile, err := repo.FindByEmail(context.Background(), "nobody@x.com")
		assert.NoError(t, err)
		assert.Nil(t, profile)
	})

	t.Run("query error", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewMemberProfileRepository(db)

		mock.ExpectQuery("FROM member_profiles").WillReturnError(errors.New("connection reset by peer"))

		profile, err := repo.FindByEmail(context.Background(), "a@x.com")
		require.Error(t, err)
		assert.Nil(t, profile)
		assert.Contains(t, err.Error(), "connection reset by peer")
	})
}

func TestClientGetByID(t *testing.T) {
	created := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	t.Run("found", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewClientRepository(db)

		mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, created_at FROM clients WHERE id = $1")).
			WithArgs("c1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}).AddRow("c1", "Iron Gym", created))

		client, err := repo.GetByID(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, &entities.Client{ID: "c1", Name: "Iron Gym", CreatedAt: created}, client)
	})

	t.Run("missing", func(t *testing.T) {
		db, mock := newMockDB(t)
		repo := NewClientRepository(db)

		mock.ExpectQuery("FROM clients").
			WithArgs("c9").
			WillReturnRows(sqlmock.NewRows([]string{"id", "name", "created_at"}))

		client, err := repo.GetByID(context.Background(), "c9")
		assert.Nil(t, client)
		assert.ErrorIs(t, err, repositories.ErrClientNotFound)
		assert.EqualError(t, err, "client not found: c9")
	})
}

var auditColumns = []string{"id", "actor_id", "action", "resource_type", "resource_id", "metadata", "success", "error_message", "created_at"}

func TestAuditCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)

	mock.ExpectExec("INSERT INTO audit_logs").
		WithArgs(sqlmock.AnyArg(), nil, "identity.compensation_failed", "identity", "id-1",
			`{"email":"a@x.com"}`, false, "kratos: unavailable", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	entry := entities.NewAuditLog(nil, entities.ActionCompensationFailed, entities.ResourceIdentity).
		WithResourceID("id-1").
		WithMetadata("email", "a@x.com").
		WithError(errors.New("kratos: unavailable"))
	require.NoError(t, repo.Create(context.Background(), entry))
	assert.NotEmpty(t, entry.ID)
}

func TestAuditListByResource(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewAuditRepository(db)
	now := time.Date(2026, 5, 6, 7, 8, 9, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE resource_type = $1 AND resource_id = $2")).
		WithArgs("identity", "id-1", defaultAuditListLimit).
		WillReturnRows(sqlmock.NewRows(auditColumns).
			AddRow("a2", "admin-1", "identity.compensation_failed", "identity", "id-1", `{"email":"a@x.com"}`, false, "kratos: unavailable", now).
			AddRow("a1", nil, "identity.compensated", "identity", "id-1", "{}", true, nil, now.Add(-time.Minute)))

	logs, err := repo.ListByResource(context.Background(), entities.ResourceIdentity, "id-1", 0)
	require.NoError(t, err)
	require.Len(t, logs, 2)

	first := logs[0]
	assert.Equal(t, entities.ActionCompensationFailed, first.Action)
	require.NotNil(t, first.ActorID)
	assert.Equal(t, "admin-1", *first.ActorID)
	require.NotNil(t, first.ErrorMsg)
	assert.Equal(t, "kratos: unavailable", *first.ErrorMsg)
	assert.Equal(t, "a@x.com", first.Metadata["email"])

	second := logs[1]
	assert.Nil(t, second.ActorID)
	assert.Nil(t, second.ErrorMsg)
	assert.Empty(t, second.Metadata)
	assert.True(t, second.Success)
}
