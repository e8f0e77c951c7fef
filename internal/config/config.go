package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Store selects the attempt store backend: "postgres" or "memory".
	// The memory backend exists for DB-less demo runs; attempts are lost
	// on restart.
	Store string

	Database  DatabaseConfig
	Server    ServerConfig
	Detection DetectionConfig
	Admin     AdminConfig
	Notifier  NotifierConfig
	Reports   ReportsConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// DetectionConfig holds the scoring and blocking knobs. The history window
// and feature arity form a contract with the external training pipeline.
type DetectionConfig struct {
	ModelPath        string
	HistoryWindow    time.Duration
	BlockDuration    time.Duration
	AttemptRetention time.Duration
	CleanupInterval  time.Duration
	// CredentialHash is the bcrypt hash the demo verifier compares against.
	CredentialHash string
}

type AdminConfig struct {
	TokenSecret string
	TokenExpiry time.Duration
}

type NotifierConfig struct {
	// Kind selects the alert sink: "webhook", "ses", or "log".
	Kind        string
	WebhookURL  string
	AWSRegion   string
	FromAddress string
	ToAddress   string
}

type ReportsConfig struct {
	Dir string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	adminSecret := getEnv("ADMIN_TOKEN_SECRET", "")
	if adminSecret == "" {
		return nil, fmt.Errorf("ADMIN_TOKEN_SECRET is required")
	}

	env := getEnv("ENV", "development")

	cfg := &Config{
		Store: getEnv("STORE", "postgres"),
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "sentra"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseList(getEnv("ALLOWED_ORIGINS", "")),
			TrustedProxies: parseList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Detection: DetectionConfig{
			ModelPath:        getEnv("MODEL_PATH", "model.json"),
			HistoryWindow:    getEnvAsDuration("HISTORY_WINDOW", 1*time.Minute),
			BlockDuration:    getEnvAsDuration("BLOCK_DURATION", 15*time.Minute),
			AttemptRetention: getEnvAsDuration("ATTEMPT_RETENTION", 24*time.Hour),
			CleanupInterval:  getEnvAsDuration("CLEANUP_INTERVAL", 5*time.Minute),
			CredentialHash:   getEnv("CREDENTIAL_HASH", ""),
		},
		Admin: AdminConfig{
			TokenSecret: adminSecret,
			TokenExpiry: getEnvAsDuration("ADMIN_TOKEN_EXPIRY", 12*time.Hour),
		},
		Notifier: NotifierConfig{
			Kind:        getEnv("NOTIFIER", "log"),
			WebhookURL:  getEnv("NOTIFIER_WEBHOOK_URL", ""),
			AWSRegion:   getEnv("NOTIFIER_AWS_REGION", "us-east-1"),
			FromAddress: getEnv("NOTIFIER_FROM_ADDRESS", ""),
			ToAddress:   getEnv("NOTIFIER_TO_ADDRESS", ""),
		},
		Reports: ReportsConfig{
			Dir: getEnv("REPORTS_DIR", "logs"),
		},
	}

	if cfg.Store != "postgres" && cfg.Store != "memory" {
		return nil, fmt.Errorf("STORE must be postgres or memory (got %q)", cfg.Store)
	}

	if cfg.Detection.CredentialHash == "" {
		return nil, fmt.Errorf("CREDENTIAL_HASH is required")
	}

	if cfg.Detection.HistoryWindow <= 0 {
		return nil, fmt.Errorf("HISTORY_WINDOW must be positive")
	}

	if err := validateAdminSecret(adminSecret, env); err != nil {
		return nil, err
	}

	switch cfg.Notifier.Kind {
	case "log":
	case "webhook":
		if cfg.Notifier.WebhookURL == "" {
			return nil, fmt.Errorf("NOTIFIER_WEBHOOK_URL is required for webhook notifier")
		}
	case "ses":
		if cfg.Notifier.FromAddress == "" || cfg.Notifier.ToAddress == "" {
			return nil, fmt.Errorf("NOTIFIER_FROM_ADDRESS and NOTIFIER_TO_ADDRESS are required for ses notifier")
		}
	default:
		return nil, fmt.Errorf("NOTIFIER must be one of: log, webhook, ses (got %q)", cfg.Notifier.Kind)
	}

	return cfg, nil
}

// validateAdminSecret enforces minimum security standards for the operator token secret
func validateAdminSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("ADMIN_TOKEN_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("ADMIN_TOKEN_SECRET cannot be a common weak value")
		}
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func parseList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
