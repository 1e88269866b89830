package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DashboardSourceMock     = "mock"
	DashboardSourcePostgres = "postgres"

	StoreBackendMemory = "memory"
	StoreBackendRedis  = "redis"
)

type Config struct {
	Server     ServerConfig
	Session    SessionConfig
	Onboarding OnboardingConfig
	Store      StoreConfig
	Redis      RedisConfig
	Postgres   PostgresConfig
	Dashboard  DashboardConfig
	Social     SocialConfig
	Logging    LoggingConfig
}

type ServerConfig struct {
	Host         string
	Port         int
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type SessionConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
}

type OnboardingConfig struct {
	VerificationDelay time.Duration
}

type StoreConfig struct {
	Backend string
	TTL     time.Duration
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// PostgresConfig is only needed by the postgres dashboard source.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
}

type DashboardConfig struct {
	Source    string
	ReadStore bool
}

type SocialConfig struct {
	YouTubeAPIKey          string
	YouTubeClientID        string
	YouTubeClientSecret    string
	YouTubeRedirectURL     string
	YouTubeCredentialsFile string
	EnableScraping         bool
}

// OAuthEnabled reports whether the YouTube sign-in flow can be offered.
func (s SocialConfig) OAuthEnabled() bool {
	if s.YouTubeRedirectURL == "" {
		return false
	}
	return s.YouTubeCredentialsFile != "" || (s.YouTubeClientID != "" && s.YouTubeClientSecret != "")
}

type LoggingConfig struct {
	Level string
	File  string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Server: ServerConfig{
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			Port:         getEnvInt("SERVER_PORT", 8080),
			ReadTimeout:  getEnvDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:  getEnvDuration("SERVER_IDLE_TIMEOUT", 120*time.Second),
		},
		Session: SessionConfig{
			TTL:           getEnvDuration("SESSION_TTL", 2*time.Hour),
			SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Onboarding: OnboardingConfig{
			VerificationDelay: getEnvDuration("VERIFICATION_DELAY", 3*time.Second),
		},
		Store: StoreConfig{
			Backend: strings.ToLower(getEnv("STORE_BACKEND", StoreBackendMemory)),
			TTL:     getEnvDuration("STORE_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Postgres: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "collabhub"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			Database: getEnv("POSTGRES_DB", "collabhub"),
			SSLMode:  getEnv("POSTGRES_SSLMODE", "disable"),
		},
		Dashboard: DashboardConfig{
			Source:    strings.ToLower(getEnv("DASHBOARD_SOURCE", DashboardSourceMock)),
			ReadStore: getEnvBool("DASHBOARD_READ_STORE", false),
		},
		Social: SocialConfig{
			YouTubeAPIKey:          getEnv("YOUTUBE_API_KEY", ""),
			YouTubeClientID:        getEnv("YOUTUBE_OAUTH_CLIENT_ID", ""),
			YouTubeClientSecret:    getEnv("YOUTUBE_OAUTH_CLIENT_SECRET", ""),
			YouTubeRedirectURL:     getEnv("YOUTUBE_OAUTH_REDIRECT_URL", ""),
			YouTubeCredentialsFile: getEnv("YOUTUBE_OAUTH_CREDENTIALS_FILE", ""),
			EnableScraping:         getEnvBool("SOCIAL_ENABLE_SCRAPING", false),
		},
		Logging: LoggingConfig{
			Level: getEnv("LOG_LEVEL", "info"),
			File:  getEnv("LOG_FILE", ""),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("SERVER_PORT must be between 1 and 65535")
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}
	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}
	if c.Onboarding.VerificationDelay < 0 {
		return fmt.Errorf("VERIFICATION_DELAY must not be negative")
	}
	switch c.Store.Backend {
	case StoreBackendMemory, StoreBackendRedis:
	default:
		return fmt.Errorf("STORE_BACKEND must be %q or %q, got %q", StoreBackendMemory, StoreBackendRedis, c.Store.Backend)
	}
	switch c.Dashboard.Source {
	case DashboardSourceMock:
	case DashboardSourcePostgres:
		if c.Postgres.Host == "" || c.Postgres.Database == "" {
			return fmt.Errorf("POSTGRES_HOST and POSTGRES_DB are required for the postgres dashboard source")
		}
	default:
		return fmt.Errorf("DASHBOARD_SOURCE must be %q or %q, got %q", DashboardSourceMock, DashboardSourcePostgres, c.Dashboard.Source)
	}
	if c.Social.YouTubeRedirectURL != "" && !c.Social.OAuthEnabled() {
		return fmt.Errorf("YOUTUBE_OAUTH_REDIRECT_URL needs a client id and secret or a credentials file")
	}
	return nil
}

// NeedsRedis reports whether any component is backed by Redis.
func (c *Config) NeedsRedis() bool {
	return c.Store.Backend == StoreBackendRedis || c.Social.YouTubeAPIKey != "" || c.Social.EnableScraping
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return defaultValue
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil {
		return time.Duration(secs) * time.Second
	}
	return defaultValue
}
