package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("DASHBOARD_SOURCE", "")
	t.Setenv("POSTGRES_SSLMODE", "")
	t.Setenv("YOUTUBE_OAUTH_REDIRECT_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Store.Backend != StoreBackendMemory || cfg.Dashboard.Source != DashboardSourceMock {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.Postgres.SSLMode != "disable" {
		t.Fatalf("expected sslmode disable by default, got %q", cfg.Postgres.SSLMode)
	}
	if cfg.Onboarding.VerificationDelay != 3*time.Second {
		t.Fatalf("expected 3s verification delay, got %s", cfg.Onboarding.VerificationDelay)
	}
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SESSION_TTL", "45m")
	t.Setenv("VERIFICATION_DELAY", "5")
	t.Setenv("STORE_BACKEND", "Redis")
	t.Setenv("DASHBOARD_READ_STORE", "true")
	t.Setenv("POSTGRES_SSLMODE", "require")
	t.Setenv("YOUTUBE_OAUTH_REDIRECT_URL", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != 9090 || cfg.Session.TTL != 45*time.Minute {
		t.Fatalf("unexpected server/session config %+v %+v", cfg.Server, cfg.Session)
	}
	if cfg.Onboarding.VerificationDelay != 5*time.Second {
		t.Fatalf("bare numbers are seconds, got %s", cfg.Onboarding.VerificationDelay)
	}
	if cfg.Postgres.SSLMode != "require" {
		t.Fatalf("unexpected sslmode %q", cfg.Postgres.SSLMode)
	}
	if cfg.Store.Backend != StoreBackendRedis || !cfg.NeedsRedis() || !cfg.Dashboard.ReadStore {
		t.Fatalf("unexpected store config %+v", cfg)
	}
}

func validConfig() Config {
	return Config{
		Server:    ServerConfig{Port: 8080},
		Session:   SessionConfig{TTL: time.Hour, SweepInterval: time.Minute},
		Store:     StoreConfig{Backend: StoreBackendMemory},
		Dashboard: DashboardConfig{Source: DashboardSourceMock},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid", func(*Config) {}, ""},
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "SERVER_PORT"},
		{"bad store", func(c *Config) { c.Store.Backend = "etcd" }, "STORE_BACKEND"},
		{"bad source", func(c *Config) { c.Dashboard.Source = "api" }, "DASHBOARD_SOURCE"},
		{"postgres without db", func(c *Config) { c.Dashboard.Source = DashboardSourcePostgres }, "POSTGRES_HOST"},
		{"oauth without client", func(c *Config) { c.Social.YouTubeRedirectURL = "http://localhost/cb" }, "YOUTUBE_OAUTH_REDIRECT_URL"},
		{"oauth with client", func(c *Config) {
			c.Social.YouTubeRedirectURL = "http://localhost/cb"
			c.Social.YouTubeClientID = "id"
			c.Social.YouTubeClientSecret = "secret"
		}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("expected error mentioning %s, got %v", tt.wantErr, err)
			}
		})
	}
}
