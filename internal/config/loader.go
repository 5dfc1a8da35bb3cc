package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v2"
)

// expandEnvVars expands environment variables in the format ${VAR} or $VAR
func expandEnvVars(data []byte) []byte {
	return []byte(os.ExpandEnv(string(data)))
}

// DefaultConfigPaths defines the default locations to search for configuration files
var DefaultConfigPaths = []string{
	"./config.yaml",
	"./config.yml",
	"./configs/config.yaml",
	"./configs/config.yml",
	"./configs/development.yaml",
	"/etc/trainerhub/config.yaml",
	"/etc/trainerhub/config.yml",
}

// Defaults returns a configuration populated with default values only
func Defaults() *Config {
	return &Config{
		Server: ServerConfig{
			Host: "localhost",
			Port: 8080,
		},
		Database: DatabaseConfig{
			Postgres: PostgresConfig{
				Host:     "localhost",
				Port:     5432,
				Database: "trainerhub",
				User:     "postgres",
				SSLMode:  "disable",
			},
		},
		Identity: IdentityConfig{
			Provider: IdentityProviderKratos,
			Kratos: KratosConfig{
				AdminURL: "http://localhost:4434",
				SchemaID: "default",
				Timeout:  10 * time.Second,
			},
		},
		Auth: AuthConfig{
			JWT: JWTConfig{
				Lifetime: 168 * time.Hour,
			},
			AdminRoles: []string{"admin"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Environment: "local",
	}
}

// Load loads the configuration from the specified file or default locations.
// A .env file in the working directory is loaded first so ${VAR} references can use it.
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded environment from .env")
	}

	config := Defaults()

	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" && fileExists(configPath) {
		slog.Info("loading config", slog.String("path", configPath))
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		data = expandEnvVars(data)

		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	} else if configPath != "" {
		return nil, fmt.Errorf("config file not found: %s", configPath)
	} else {
		slog.Info("no config file found, using defaults")
	}

	applyEnvOverrides(config)

	if err := validate(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// applyEnvOverrides lets the environment win over the config file
func applyEnvOverrides(config *Config) {
	if provider := os.Getenv("IDENTITY_PROVIDER"); provider != "" {
		config.Identity.Provider = provider
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		config.Session.Secret = secret
	}
	if key := os.Getenv("JWT_SIGNING_KEY"); key != "" {
		config.Auth.JWT.SigningKey = key
	}
}

// findConfigFile searches for a configuration file in default locations
func findConfigFile() string {
	for _, path := range DefaultConfigPaths {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

// fileExists checks if a file exists and is not a directory
func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

// validate performs basic validation on the configuration
func validate(config *Config) error {
	if config.Server.Port < 1 || config.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	if config.Database.Postgres.Host == "" {
		return fmt.Errorf("postgres host is required")
	}
	if config.Database.Postgres.Database == "" {
		return fmt.Errorf("postgres database name is required")
	}
	if config.Database.Postgres.User == "" {
		return fmt.Errorf("postgres user is required")
	}

	switch config.Identity.Provider {
	case IdentityProviderKratos:
		if config.Identity.Kratos.AdminURL == "" {
			return fmt.Errorf("identity.kratos.admin_url is required for the kratos provider")
		}
		if config.Identity.Kratos.SchemaID == "" {
			return fmt.Errorf("identity.kratos.schema_id is required for the kratos provider")
		}
	case IdentityProviderMemory:
		if config.Environment == "prod" {
			return fmt.Errorf("the memory identity provider cannot be used in prod")
		}
	default:
		return fmt.Errorf("unknown identity provider %q (must be %q or %q)",
			config.Identity.Provider, IdentityProviderKratos, IdentityProviderMemory)
	}

	if len(config.Auth.AdminRoles) == 0 {
		return fmt.Errorf("auth.admin_roles must list at least one role")
	}

	return nil
}
