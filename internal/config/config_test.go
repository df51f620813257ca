package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "placement-service", cfg.App.Name)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 12*time.Hour, cfg.Auth.AccessTokenTTL())
	assert.Equal(t, 0, cfg.Sweep.Hour)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, "SSGI", cfg.Auth.StudentIDPrefix)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "30")
	t.Setenv("SWEEP_HOUR", "3")
	t.Setenv("SWEEP_TIME_ZONE", "Asia/Kolkata")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.Equal(t, 30*time.Minute, cfg.Auth.AccessTokenTTL())
	loc, err := cfg.Sweep.Location()
	require.NoError(t, err)
	assert.Equal(t, "Asia/Kolkata", loc.String())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"production default secret", func(c *Config) { c.App.Env = "production" }, "AUTH_JWT_SECRET"},
		{"hour out of range", func(c *Config) { c.Sweep.Hour = 24 }, "SWEEP_HOUR"},
		{"minute out of range", func(c *Config) { c.Sweep.Minute = -1 }, "SWEEP_MINUTE"},
		{"super admin token without email", func(c *Config) { c.Auth.SuperAdminToken = "root" }, "AUTH_SUPER_ADMIN_EMAIL"},
		{"unknown log format", func(c *Config) { c.Logger.Format = "xml" }, "LOG_FORMAT"},
		{"unknown zone", func(c *Config) { c.Sweep.TimeZone = "Mars/Olympus" }, "SWEEP_TIME_ZONE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				App:   AppConfig{Env: "development"},
				Auth:  AuthConfig{JWTSecret: "dev-secret"},
				Sweep: SweepConfig{TimeZone: "UTC"},
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
