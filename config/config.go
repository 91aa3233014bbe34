package config

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	Port              string
	MongoString       string
	MongoDB           string
	PasetoSecret      string
	TokenTTL          time.Duration
	JWTSecret         string
	ResetTokenTTL     time.Duration
	DataEncryptionKey string
	EmailEnabled      bool
	EmailFrom         string
	SMTPHost          string
	SMTPPort          int
	SMTPUser          string
	SMTPPassword      string
	SMTPUseTLS        bool
	FrontendURL       string
	AllowedOrigins    []string
	SeedOnStart       bool
	HolidayAPIURL     string
	Timezone          string
}

// LoadConfig loads configuration from .env file and the process environment.
func LoadConfig() *AppConfig {
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not loaded (might not exist in production): %v", err)
	}

	return &AppConfig{
		Port:              getEnv("PORT", "3000"),
		MongoString:       getEnv("MONGOSTRING", ""),
		MongoDB:           getEnv("MONGO_DB", "hrms-db"),
		PasetoSecret:      getEnv("PASETO_SECRET", ""),
		TokenTTL:          getEnvDuration("TOKEN_TTL", 24*time.Hour),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		ResetTokenTTL:     getEnvDuration("RESET_TOKEN_TTL", 30*time.Minute),
		DataEncryptionKey: getEnv("DATA_ENCRYPTION_KEY", ""),
		EmailEnabled:      getEnvBool("EMAIL_ENABLED", false),
		EmailFrom:         getEnv("EMAIL_FROM", "no-reply@hrms.local"),
		SMTPHost:          getEnv("SMTP_HOST", ""),
		SMTPPort:          getEnvInt("SMTP_PORT", 587),
		SMTPUser:          getEnv("SMTP_USER", ""),
		SMTPPassword:      getEnv("SMTP_PASSWORD", ""),
		SMTPUseTLS:        getEnvBool("SMTP_USE_TLS", true),
		FrontendURL:       getEnv("FRONTEND_URL", "http://localhost:5173"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:5173,http://127.0.0.1:5173")),
		SeedOnStart:       getEnvBool("SEED_ON_START", false),
		HolidayAPIURL:     getEnv("HOLIDAY_API_URL", ""),
		Timezone:          getEnv("TIMEZONE", "Asia/Kolkata"),
	}
}

func (c *AppConfig) Validate() error {
	if strings.TrimSpace(c.MongoString) == "" {
		return errors.New("MONGOSTRING is required")
	}
	if err := checkKey("PASETO_SECRET", c.PasetoSecret, true); err != nil {
		return err
	}
	if err := checkKey("DATA_ENCRYPTION_KEY", c.DataEncryptionKey, false); err != nil {
		return err
	}
	if strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.EmailEnabled && c.SMTPHost == "" {
		return errors.New("SMTP_HOST must be set when EMAIL_ENABLED is true")
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("TIMEZONE %q is invalid: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured business timezone, falling back to UTC.
func (c *AppConfig) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// DecodeKey decodes a base64 (URL or standard alphabet) 32-byte key.
func DecodeKey(value string) ([]byte, error) {
	decoded, err := base64.URLEncoding.DecodeString(value)
	if err != nil {
		decoded, err = base64.StdEncoding.DecodeString(value)
		if err != nil {
			return nil, fmt.Errorf("key is not valid base64: %w", err)
		}
	}
	if len(decoded) != 32 {
		return nil, fmt.Errorf("key must decode to exactly 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}

func checkKey(name, value string, required bool) error {
	if value == "" {
		if required {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
	if _, err := DecodeKey(value); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Helper function to get environment variable or fallback to default
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, fallback bool) bool {
	parsed, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	parsed, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	parsed, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return fallback
	}
	return parsed
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
