package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("TEST_DB_PASSWORD", "s3cret")

	path := writeConfig(t, `
server:
  host: 0.0.0.0
  port: 9000
database:
  postgres:
    host: db
    port: 5433
    database: gym
    user: app
    password: ${TEST_DB_PASSWORD}
identity:
  provider: kratos
  kratos:
    admin_url: http://kratos:4434
    schema_id: member
    timeout: 3s
auth:
  admin_roles: [trainer]
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9000", cfg.Server.Address())
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "gym", cfg.Database.Postgres.Database)
	assert.Equal(t, "http://kratos:4434", cfg.Identity.Kratos.AdminURL)
	assert.Equal(t, "member", cfg.Identity.Kratos.SchemaID)
	assert.Equal(t, 3*time.Second, cfg.Identity.Kratos.Timeout)
	assert.Equal(t, []string{"trainer"}, cfg.Auth.AdminRoles)
	// untouched sections keep their defaults
	assert.Equal(t, 168*time.Hour, cfg.Auth.JWT.Lifetime)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("IDENTITY_PROVIDER", "memory")
	t.Setenv("SESSION_SECRET", "c2VjcmV0")

	cfg, err := Load(writeConfig(t, "environment: dev\n"))
	require.NoError(t, err)

	assert.Equal(t, IdentityProviderMemory, cfg.Identity.Provider)
	assert.Equal(t, "c2VjcmV0", cfg.Session.Secret)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, true},
		{"missing postgres host", func(c *Config) { c.Database.Postgres.Host = "" }, true},
		{"unknown provider", func(c *Config) { c.Identity.Provider = "firebase" }, true},
		{"kratos without admin url", func(c *Config) { c.Identity.Kratos.AdminURL = "" }, true},
		{"memory provider in dev", func(c *Config) { c.Identity.Provider = IdentityProviderMemory }, false},
		{"memory provider in prod", func(c *Config) {
			c.Identity.Provider = IdentityProviderMemory
			c.Environment = "prod"
		}, true},
		{"no admin roles", func(c *Config) { c.Auth.AdminRoles = nil }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(cfg)
			err := validate(cfg)
			if (err != nil) != tt.wantErr {
				t.Errorf("validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultsAdminRoles(t *testing.T) {
	cfg := Defaults()
	assert.Equal(t, []string{"admin"}, cfg.Auth.AdminRoles)
	assert.Equal(t, IdentityProviderKratos, cfg.Identity.Provider)
	assert.NoError(t, validate(cfg))
}
