package main

import (
	"fmt"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	// Server settings
	Host        string
	Port        int
	Domain      string
	Environment string
	LogLevel    string

	// Database settings
	DBUser     string
	DBPassword string
	DBHost     string
	DBPort     string
	DBName     string

	// Payload archive settings
	ArchiveProvider  string
	ArchiveLocalPath string
	ArchiveLocalURL  string
	ArchiveS3Bucket  string
	ArchiveS3Region  string
	ArchiveS3BaseURL string

	// Audit settings
	AuditEnabled bool
}

// LoadConfig loads configuration from environment variables.
func LoadConfig(getenv func(string) string) (*Config, error) {
	cfg := &Config{
		// Server settings
		Host:        envString(getenv, "SERVER_HOST", "localhost"),
		Port:        envInt(getenv, "SERVER_PORT", 8080),
		Domain:      envString(getenv, "SERVER_DOMAIN", ""),
		Environment: envString(getenv, "ENVIRONMENT", "dev"),
		LogLevel:    envString(getenv, "LOG_LEVEL", "info"),

		// Database settings
		DBUser:     envString(getenv, "DB_USER", "postgres"),
		DBPassword: envString(getenv, "DB_PASSWORD", ""),
		DBHost:     envString(getenv, "DB_HOSTNAME", "localhost"),
		DBPort:     envString(getenv, "DB_PORT", "5432"),
		DBName:     envString(getenv, "DB_NAME", "postgres"),

		// Payload archive settings
		ArchiveProvider:  envString(getenv, "ARCHIVE_PROVIDER", "none"),
		ArchiveLocalPath: envString(getenv, "ARCHIVE_LOCAL_PATH", "./archives"),
		ArchiveLocalURL:  envString(getenv, "ARCHIVE_LOCAL_URL", "http://localhost:8080/archives"),
		ArchiveS3Bucket:  envString(getenv, "ARCHIVE_S3_BUCKET", ""),
		ArchiveS3Region:  envString(getenv, "ARCHIVE_S3_REGION", "eu-west-3"),
		ArchiveS3BaseURL: envString(getenv, "ARCHIVE_S3_BASE_URL", ""),

		// Audit settings
		AuditEnabled: envBool(getenv, "AUDIT_ENABLED", true),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgresql://%s:%s@%s:%s/%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName)
}

// validate checks configuration consistency.
func (c *Config) validate() error {
	switch c.ArchiveProvider {
	case "none", "local":
	case "s3":
		if c.ArchiveS3Bucket == "" {
			return fmt.Errorf("ARCHIVE_S3_BUCKET must be set when ARCHIVE_PROVIDER is s3")
		}
	default:
		return fmt.Errorf("unknown ARCHIVE_PROVIDER %q", c.ArchiveProvider)
	}
	return nil
}

// Helper functions for loading environment variables with defaults.

func envString(getenv func(string) string, key, defaultValue string) string {
	if value := getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func envInt(getenv func(string) string, key string, defaultValue int) int {
	if value := getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func envBool(getenv func(string) string, key string, defaultValue bool) bool {
	if value := getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
