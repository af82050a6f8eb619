// Package config loads the API's settings from the environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"fintrack/internal/logger"
)

// Config holds application configuration
type Config struct {
	// Server
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"ENV"`
	AllowedOrigins []string `mapstructure:"-"`

	// Database
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	DBHost      string `mapstructure:"DB_HOST"`
	DBPort      string `mapstructure:"DB_PORT"`
	DBUser      string `mapstructure:"DB_USER"`
	DBPassword  string `mapstructure:"DB_PASSWORD"`
	DBName      string `mapstructure:"DB_NAME"`
	DBSSLMode   string `mapstructure:"DB_SSLMODE"`
	AutoMigrate bool   `mapstructure:"AUTO_MIGRATE"`

	// Identity provider
	JWKSURL          string        `mapstructure:"SUPABASE_JWKS_URL"`
	JWTAudience      string        `mapstructure:"SUPABASE_JWT_AUDIENCE"`
	JWKSFetchTimeout time.Duration `mapstructure:"JWKS_FETCH_TIMEOUT"`

	RawAllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
}

var defaults = map[string]interface{}{
	"PORT":                  "8080",
	"ENV":                   "development",
	"DATABASE_URL":          "",
	"DB_HOST":               "localhost",
	"DB_PORT":               "5432",
	"DB_USER":               "fintrack",
	"DB_PASSWORD":           "fintrack",
	"DB_NAME":               "fintrack",
	"DB_SSLMODE":            "disable",
	"AUTO_MIGRATE":          true,
	"SUPABASE_JWKS_URL":     "",
	"SUPABASE_JWT_AUDIENCE": "",
	"JWKS_FETCH_TIMEOUT":    "10s",
	"ALLOWED_ORIGINS":       "*",
}

// Load reads configuration from environment variables, after loading a
// .env file when one exists.
func Load() (*Config, error) {
	return load(true)
}

// LoadDatabase is Load without the identity-provider requirements, for
// tools that only talk to the database.
func LoadDatabase() (*Config, error) {
	return load(false)
}

func load(requireAuth bool) (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		logger.Named("config").Debugw(".env file not found, using the environment only")
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	cfg.AllowedOrigins = splitList(cfg.RawAllowedOrigins)
	if err := cfg.validate(requireAuth); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate(requireAuth bool) error {
	var errs []error
	if requireAuth && c.JWKSURL == "" {
		errs = append(errs, errors.New("SUPABASE_JWKS_URL is required"))
	}
	if requireAuth && c.JWTAudience == "" {
		errs = append(errs, errors.New("SUPABASE_JWT_AUDIENCE is required"))
	}
	if c.JWKSFetchTimeout <= 0 {
		errs = append(errs, errors.New("JWKS_FETCH_TIMEOUT must be positive"))
	}
	return errors.Join(errs...)
}

// DSN returns the PostgreSQL connection URL: DATABASE_URL when set,
// otherwise one assembled from the DB_* settings.
func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.DBUser, c.DBPassword),
		Host:     c.DBHost + ":" + c.DBPort,
		Path:     "/" + c.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(c.DBSSLMode),
	}
	return u.String()
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
