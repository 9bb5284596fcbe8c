package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all configuration values
type Config struct {
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	JWT          JWTConfig
	SMTP         SMTPConfig
	Verification VerificationConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port string
	Env  string
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// URL returns the database connection URL
func (c DatabaseConfig) URL() string {
	return "postgres://" + c.User + ":" + c.Password + "@" + c.Host + ":" + strconv.Itoa(c.Port) + "/" + c.DBName + "?sslmode=" + c.SSLMode
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	URL      string
	Password string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret        string
	AccessExpiry  time.Duration
	RefreshExpiry time.Duration
}

// SMTPConfig holds email transport configuration
type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromEmail   string
	CompanyName string
}

// VerificationConfig holds code lifecycle knobs. TTLs and code lengths are
// deliberately configuration, not constants.
type VerificationConfig struct {
	CodeTTL          time.Duration
	CodeLength       int
	ResetCodeTTL     time.Duration
	ResetCodeLength  int
	MaxAttempts      int
	AttemptWindow    time.Duration
	CleanupInterval  time.Duration
	CleanupRetention time.Duration
}

// Load loads configuration from environment variables
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Env:  getEnv("SERVER_ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvAsInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "techsavvy"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			URL:      getEnv("REDIS_URL", "redis://localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
		},
		JWT: JWTConfig{
			Secret:        getEnv("JWT_SECRET", "change-this-in-production"),
			AccessExpiry:  getEnvAsDuration("JWT_ACCESS_EXPIRY", 60*time.Minute),
			RefreshExpiry: getEnvAsDuration("JWT_REFRESH_EXPIRY", 24*time.Hour),
		},
		SMTP: SMTPConfig{
			Host:        getEnv("SMTP_HOST", "localhost"),
			Port:        getEnvAsInt("SMTP_PORT", 587),
			Username:    getEnv("SMTP_USERNAME", ""),
			Password:    getEnv("SMTP_PASSWORD", ""),
			FromEmail:   getEnv("SMTP_FROM_EMAIL", "noreply@techsavvystore.com"),
			CompanyName: getEnv("COMPANY_NAME", "TechSavvy Store"),
		},
		Verification: VerificationConfig{
			CodeTTL:          getEnvAsDuration("VERIFICATION_CODE_TTL", 150*time.Second),
			CodeLength:       getEnvAsInt("VERIFICATION_CODE_LENGTH", 4),
			ResetCodeTTL:     getEnvAsDuration("RESET_CODE_TTL", 150*time.Second),
			ResetCodeLength:  getEnvAsInt("RESET_CODE_LENGTH", 4),
			MaxAttempts:      getEnvAsInt("VERIFICATION_MAX_ATTEMPTS", 3),
			AttemptWindow:    getEnvAsDuration("VERIFICATION_ATTEMPT_WINDOW", 30*time.Minute),
			CleanupInterval:  getEnvAsDuration("VERIFICATION_CLEANUP_INTERVAL", 10*time.Minute),
			CleanupRetention: getEnvAsDuration("VERIFICATION_CLEANUP_RETENTION", 48*time.Hour),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
