package postgres

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"

	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
)

func TestTranslateConstraintError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    error
		wantMsg string
	}{
		{
			name:    "unique violation",
			err:     &pq.Error{Code: pqUniqueViolation, Message: `duplicate key value violates unique constraint "member_profiles_email_key"`},
			want:    repositories.ErrMemberProfileExists,
			wantMsg: `member profile already exists: duplicate key value violates unique constraint "member_profiles_email_key"`,
		},
		{
			name: "foreign key violation",
			err:  &pq.Error{Code: pqForeignKeyViolation, Message: "insert or update violates foreign key constraint"},
			want: repositories.ErrClientNotFound,
		},
		{
			name:    "other error",
			err:     errors.New("connection reset by peer"),
			wantMsg: "failed to insert member profile: connection reset by peer",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateConstraintError(tt.err)
			if tt.want != nil {
				assert.ErrorIs(t, got, tt.want)
			}
			if tt.wantMsg != "" {
				assert.EqualError(t, got, tt.wantMsg)
			}
		})
	}
}
