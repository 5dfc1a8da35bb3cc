package main

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log/slog"
	"time"

	"github.com/devilmonastery/trainerhub/internal/config"
	"github.com/devilmonastery/trainerhub/internal/domain/repositories"
	"github.com/devilmonastery/trainerhub/internal/infrastructure/database/postgres"
	"github.com/devilmonastery/trainerhub/internal/infrastructure/identity/kratos"
	"github.com/devilmonastery/trainerhub/internal/infrastructure/identity/memory"
	"github.com/devilmonastery/trainerhub/internal/pkg/idgen"
	"github.com/devilmonastery/trainerhub/server/internal/session"
)

// app holds what every subcommand needs: config, the database and the identity provider
type app struct {
	cfg        *config.Config
	db         *postgres.Connection
	identities repositories.IdentityProvider
}

// newApp loads config and connects to PostgreSQL. With retry the connection is
// retried with backoff, for orchestrated startups where the database comes up late.
func newApp(ctx context.Context, configPath string, retry bool) (*app, error) {
	if err := idgen.Initialize(1); err != nil {
		return nil, fmt.Errorf("failed to initialize ID generator: %w", err)
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	db, err := connectPostgres(ctx, cfg.Database.Postgres, retry)
	if err != nil {
		return nil, err
	}

	identities, err := newIdentityProvider(cfg.Identity)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{cfg: cfg, db: db, identities: identities}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		slog.Default().Warn("failed to close database", "error", err)
	}
}

func connectPostgres(ctx context.Context, pg config.PostgresConfig, retry bool) (*postgres.Connection, error) {
	log := slog.Default().With("component", "server")
	log.Info("connecting to PostgreSQL",
		"user", pg.User,
		"host", pg.Host,
		"database", pg.Database)

	maxAttempts := 1
	if retry {
		maxAttempts = 10
	}
	retryDelay := 2 * time.Second

	var lastErr error
	for i := 0; i < maxAttempts; i++ {
		conn, err := postgres.NewConnection(ctx, pg.ConnectionString())
		if err == nil {
			log.Info("connected to PostgreSQL")
			return conn, nil
		}
		lastErr = err

		if i < maxAttempts-1 {
			log.Warn("failed to connect to PostgreSQL",
				"attempt", i+1,
				"max_attempts", maxAttempts,
				"error", err,
				"retry_delay", retryDelay)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(retryDelay):
			}
			retryDelay = min(retryDelay*2, 30*time.Second)
		}
	}
	return nil, fmt.Errorf("failed to connect to PostgreSQL after %d attempts: %w", maxAttempts, lastErr)
}

func newIdentityProvider(cfg config.IdentityConfig) (repositories.IdentityProvider, error) {
	switch cfg.Provider {
	case config.IdentityProviderKratos:
		return kratos.NewProvider(cfg.Kratos, nil)
	case config.IdentityProviderMemory:
		slog.Default().Warn("using the in-memory identity provider; identities are lost on restart")
		return memory.NewProvider(), nil
	default:
		return nil, fmt.Errorf("unknown identity provider %q", cfg.Provider)
	}
}

// newSessionManager decodes the configured base64 secret, or generates a
// throwaway one so sessions simply do not survive a restart.
func newSessionManager(cfg config.SessionConfig) (*session.Manager, error) {
	log := slog.Default().With("component", "server")

	if cfg.Secret != "" {
		secret, err := base64.StdEncoding.DecodeString(cfg.Secret)
		if err != nil {
			return nil, fmt.Errorf("session.secret must be base64: %w", err)
		}
		return session.NewManager(secret, cfg.Secure), nil
	}

	log.Warn("no session secret configured, generating random one (sessions won't persist)")
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate session secret: %w", err)
	}
	return session.NewManager(secret, cfg.Secure), nil
}
