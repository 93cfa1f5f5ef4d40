package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// devJWTSecret is the insecure development fallback. Startup refuses it
// outside the development environment.
const devJWTSecret = "dev-only-insecure-secret"

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Auth     AuthConfig
	Email    EmailConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

type ServerConfig struct {
	Port           string
	Env            string
	AllowedOrigins []string
}

type AuthConfig struct {
	JWTSecret            string
	JWTSecretIsFallback  bool
	SessionTokenExpiry   time.Duration
	ResetTokenExpiry     time.Duration
	ResetCleanupInterval time.Duration
}

type EmailConfig struct {
	AWSRegion    string
	FromAddress  string
	ResetURLBase string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")

	jwtSecret := getEnv("JWT_SECRET", "")
	fallback := false
	if jwtSecret == "" {
		if env != "development" {
			return nil, fmt.Errorf("JWT_SECRET is required in %s environment", env)
		}
		jwtSecret = devJWTSecret
		fallback = true
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "webfinancas"),
			SSLMode:         getEnv("DB_SSLMODE", "disable"),
			MaxConns:        int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:        int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "3000"),
			Env:            env,
			AllowedOrigins: parseAllowedOrigins(env),
		},
		Auth: AuthConfig{
			JWTSecret:            jwtSecret,
			JWTSecretIsFallback:  fallback,
			SessionTokenExpiry:   getEnvAsDuration("SESSION_TOKEN_EXPIRY", 1*time.Hour),
			ResetTokenExpiry:     getEnvAsDuration("RESET_TOKEN_EXPIRY", 1*time.Hour),
			ResetCleanupInterval: getEnvAsDuration("RESET_CLEANUP_INTERVAL", 1*time.Hour),
		},
		Email: EmailConfig{
			AWSRegion:    getEnv("AWS_REGION", "us-east-1"),
			FromAddress:  getEnv("EMAIL_FROM", "noreply@webfinancas.com"),
			ResetURLBase: getEnv("RESET_URL_BASE", "http://localhost:3001"),
		},
	}

	if env == "production" && cfg.Database.Password == "" {
		return nil, fmt.Errorf("DB_PASSWORD is required in production")
	}

	if err := validateJWTSecret(cfg.Auth.JWTSecret, env); err != nil {
		return nil, err
	}

	return cfg, nil
}

// validateJWTSecret enforces minimum security standards for the signing secret
func validateJWTSecret(secret, env string) error {
	minLength := 16
	if env == "production" {
		minLength = 32
	}

	if len(secret) < minLength {
		return fmt.Errorf("JWT_SECRET must be at least %d characters in %s environment (got %d)",
			minLength, env, len(secret))
	}

	weakSecrets := []string{
		"secret", "test", "password", "12345", "changeme",
		"admin", "root", "default", "example",
	}

	secretLower := strings.ToLower(secret)
	for _, weak := range weakSecrets {
		if secretLower == weak {
			return fmt.Errorf("JWT_SECRET cannot be a common weak value")
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

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		originsStr := getEnv("ALLOWED_ORIGINS", "")
		if originsStr == "" {
			return []string{}
		}
		origins := strings.Split(originsStr, ",")
		for i, origin := range origins {
			origins[i] = strings.TrimSpace(origin)
		}
		return origins
	}

	// Development: allow common local frontend ports
	return []string{
		"http://localhost:3000",
		"http://localhost:3001",
		"http://localhost:5173",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:3001",
		"http://127.0.0.1:5173",
	}
}
