package config

import (
	"fmt"
	"time"
)

// Identity provider kinds
const (
	IdentityProviderKratos = "kratos"
	IdentityProviderMemory = "memory"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig   `yaml:"server"`
	Database    DatabaseConfig `yaml:"database"`
	Identity    IdentityConfig `yaml:"identity"`
	Auth        AuthConfig     `yaml:"auth"`
	Session     SessionConfig  `yaml:"session"`
	Logging     LoggingConfig  `yaml:"logging"`
	Environment string         `yaml:"environment" default:"local"` // local, dev, prod
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `yaml:"host" default:"localhost"`
	Port int    `yaml:"port" default:"8080"`
}

// Address returns the host:port listen address
func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Postgres PostgresConfig `yaml:"postgres"`
}

// PostgresConfig holds PostgreSQL-specific configuration
type PostgresConfig struct {
	Host     string `yaml:"host" default:"localhost"`
	Port     int    `yaml:"port" default:"5432"`
	Database string `yaml:"database" default:"trainerhub"`
	User     string `yaml:"user" default:"postgres"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode" default:"disable"` // disable, require, verify-ca, verify-full
}

// IdentityConfig selects and configures the identity provider
type IdentityConfig struct {
	Provider string       `yaml:"provider" default:"kratos"` // kratos, memory
	Kratos   KratosConfig `yaml:"kratos"`
}

// KratosConfig holds Ory Kratos admin API settings
type KratosConfig struct {
	AdminURL   string        `yaml:"admin_url" default:"http://localhost:4434"`
	AdminToken string        `yaml:"admin_token"`                        // bearer token for hosted/protected admin APIs
	SchemaID   string        `yaml:"schema_id" default:"default"`        // identity schema with an email trait
	Timeout    time.Duration `yaml:"timeout" default:"10s"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	JWT        JWTConfig `yaml:"jwt"`
	AdminRoles []string  `yaml:"admin_roles"` // roles allowed to provision members
}

// JWTConfig holds JWT token configuration
type JWTConfig struct {
	SigningKey string        `yaml:"signing_key"`
	Lifetime   time.Duration `yaml:"lifetime" default:"168h"`
}

// SessionConfig holds cookie session configuration
type SessionConfig struct {
	Secret string `yaml:"secret"` // base64-encoded, 32 bytes
	Secure bool   `yaml:"secure"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" default:"info"`
	Format string `yaml:"format" default:"json"`
}

// ConnectionString returns the PostgreSQL connection string
func (p *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode)
}
