package config

import (
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config structure represents the application configuration
type Config struct {
	Server struct {
		Port           string `yaml:"port" env:"SERVER_PORT"`
		Mode           string `yaml:"mode" env:"SERVER_MODE"`
		AllowedOrigins string `yaml:"allowed_origins" env:"SERVER_ALLOWED_ORIGINS"`
		MigrationsDir  string `yaml:"migrations_dir" env:"SERVER_MIGRATIONS_DIR"`
	} `yaml:"server"`

	Database struct {
		Host            string `yaml:"host" env:"DB_HOST"`
		Port            string `yaml:"port" env:"DB_PORT"`
		User            string `yaml:"user" env:"DB_USER"`
		Password        string `yaml:"password" env:"DB_PASSWORD"`
		DBName          string `yaml:"dbname" env:"DB_NAME"`
		SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
		MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
		MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
		ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
	} `yaml:"database"`

	JWT struct {
		Secret                 string `yaml:"secret" env:"JWT_SECRET"`
		AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
		RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
		Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
	} `yaml:"jwt"`

	Logging struct {
		Level  string `yaml:"level" env:"LOG_LEVEL"`
		Format string `yaml:"format" env:"LOG_FORMAT"`
	} `yaml:"logging"`

	Redis struct {
		Addr      string `yaml:"addr" env:"REDIS_ADDR"`
		Password  string `yaml:"password" env:"REDIS_PASSWORD"`
		DB        int    `yaml:"db" env:"REDIS_DB"`
		StatusTTL string `yaml:"status_ttl" env:"REDIS_STATUS_TTL"`
	} `yaml:"redis"`

	Email struct {
		Provider      string `yaml:"provider" env:"EMAIL_PROVIDER"`
		SMTPHost      string `yaml:"smtp_host" env:"SMTP_HOST"`
		SMTPPort      int    `yaml:"smtp_port" env:"SMTP_PORT"`
		SMTPUsername  string `yaml:"smtp_username" env:"SMTP_USERNAME"`
		SMTPPassword  string `yaml:"smtp_password" env:"SMTP_PASSWORD"`
		SMTPUseTLS    bool   `yaml:"smtp_use_tls" env:"SMTP_USE_TLS"`
		SendGridKey   string `yaml:"sendgrid_key" env:"SENDGRID_API_KEY"`
		FromName      string `yaml:"from_name" env:"EMAIL_FROM_NAME"`
		FromEmail     string `yaml:"from_email" env:"EMAIL_FROM"`
		FrontendURL   string `yaml:"frontend_url" env:"FRONTEND_URL"`
		ResetTokenTTL string `yaml:"reset_token_ttl" env:"RESET_TOKEN_TTL"`
	} `yaml:"email"`

	Academic struct {
		// FallbackDurations maps a program name to its length in years, used only
		// when no Program record matches.
		FallbackDurations map[string]int `yaml:"fallback_durations"`
		DefaultDuration   int            `yaml:"default_duration" env:"ACADEMIC_DEFAULT_DURATION"`
		MaxRating         int            `yaml:"max_rating" env:"ACADEMIC_MAX_RATING"`
	} `yaml:"academic"`
}

// LoadConfig loads configuration from a file and environment variables.
// A .env file in the working directory is applied to the process environment first.
func LoadConfig(configPath string) (*Config, error) {
	// Missing .env is normal outside local development
	_ = godotenv.Load()

	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Override with environment variables
	if err := loadFromEnv(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	// Server defaults
	config.Server.Port = "8080"
	config.Server.Mode = "development"
	config.Server.AllowedOrigins = "http://localhost:5173"
	config.Server.MigrationsDir = "migrations"

	// Database defaults
	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "campusfeedback"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	// JWT defaults
	config.JWT.AccessTokenExpiration = "24h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "campusfeedback"

	// Logging defaults
	config.Logging.Level = "info"
	config.Logging.Format = "json"

	config.Redis.StatusTTL = "5m"

	config.Email.Provider = "log"
	config.Email.SMTPPort = 587
	config.Email.FromName = "Campus Feedback"
	config.Email.FromEmail = "no-reply@campusfeedback.local"
	config.Email.FrontendURL = "http://localhost:5173"
	config.Email.ResetTokenTTL = "24h"

	config.Academic.FallbackDurations = map[string]int{
		"BTECH": 4,
		"MTECH": 2,
		"MBA":   2,
		"MCA":   2,
	}
	config.Academic.DefaultDuration = 4
	config.Academic.MaxRating = 5
}

// loadFromEnv overrides configuration with environment variables
func loadFromEnv(config *Config) error {
	return applyEnvOverrides(config)
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if config.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.Email.ResetTokenTTL); err != nil {
		return fmt.Errorf("invalid reset token ttl format: %w", err)
	}

	if _, err := time.ParseDuration(config.Redis.StatusTTL); err != nil {
		return fmt.Errorf("invalid redis status ttl format: %w", err)
	}

	switch strings.ToLower(config.Email.Provider) {
	case "smtp", "sendgrid", "log":
	default:
		return fmt.Errorf("unsupported email provider %q", config.Email.Provider)
	}

	for name, years := range config.Academic.FallbackDurations {
		if years < 1 {
			return fmt.Errorf("fallback duration for %s must be at least 1 year", name)
		}
	}
	if config.Academic.DefaultDuration < 1 {
		return fmt.Errorf("default program duration must be at least 1 year")
	}
	if config.Academic.MaxRating < 1 {
		return fmt.Errorf("max rating must be positive")
	}

	return nil
}

// GetPostgresConnectionString builds a postgres:// URL; credentials are escaped.
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String()
}

// Origins splits the comma separated CORS origin list.
func (c *Config) Origins() []string {
	var origins []string
	for _, o := range strings.Split(c.Server.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}

// GetEnv gets an environment variable or returns a default value
func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// GetEnvAsInt gets an environment variable as an integer or returns a default value
func GetEnvAsInt(key string, defaultValue int) int {
	valueStr := GetEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}
