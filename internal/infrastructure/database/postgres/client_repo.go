package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/devilmonastery/trainerhub/internal/domain/entities"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/pkg/metrics"
)

// ClientRepository implements repositories.ClientRepository for PostgreSQL
type ClientRepository struct {
	db  *sqlx.DB
	log *slog.Logger
}

// NewClientRepository creates a new PostgreSQL client repository
func NewClientRepository(db *sqlx.DB) repositories.ClientRepository {
	return &ClientRepository{
		db:  db,
		log: slog.Default().With(slog.String("repo", "client")),
	}
}

// GetByID retrieves a client by ID
func (r *ClientRepository) GetByID(ctx context.Context, id string) (*entities.Client, error) {
	start := time.Now()
	var err error
	var rowCount int64
	defer func() {
		metrics.RecordDBOperation("client", "get_by_id", time.Since(start), rowCount, err)
	}()

	var client entities.Client
	err = r.db.GetContext(ctx, &client, `SELECT id, name, created_at FROM clients WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", repositories.ErrClientNotFound, id)
		}
		return nil, fmt.Errorf("failed to get client by ID: %w", err)
	}

	rowCount = 1
	return &client, nil
}

var _ repositories.ClientRepository = (*ClientRepository)(nil)
