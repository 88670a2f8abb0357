package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:      AppConfig{Environment: "development"},
		Logger:   LoggerConfig{Level: "info"},
		Upstream: UpstreamConfig{BaseURL: "https://ignicult.com/api", RequestsPerSecond: 2, Burst: 4},
		Refresh:  RefreshConfig{Schedule: "@every 5m", CacheTTL: 5 * time.Minute},
		Session:  SessionConfig{IdleTimeout: 30 * time.Minute, ReapInterval: time.Minute},
		Tween:    TweenConfig{Duration: 2 * time.Second, Mode: "step", StartPolicy: "reset-from-zero"},
	}
}

// isolateEnv clears every variable Load reads so the host environment cannot
// leak into a test.
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"ENV", "LOG_LEVEL", "SERVER_PORT", "ALLOWED_ORIGINS", "API_RPS", "API_BURST",
		"UPSTREAM_URL", "UPSTREAM_TIMEOUT", "UPSTREAM_RPS", "UPSTREAM_BURST", "FIXTURES_DIR",
		"REFRESH_SCHEDULE", "CACHE_TTL", "REFRESH_ON_START",
		"SESSION_IDLE_TIMEOUT", "SESSION_REAP_INTERVAL",
		"TWEEN_DURATION", "TWEEN_MODE", "TWEEN_START_POLICY",
		"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_IDLE_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level

			err := cfg.Validate()
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{name: "bad schedule", mutate: func(c *Config) { c.Refresh.Schedule = "every five minutes" }, errMsg: "refresh schedule"},
		{name: "relative url", mutate: func(c *Config) { c.Upstream.BaseURL = "/api" }, errMsg: "upstream url"},
		{name: "zero upstream rps", mutate: func(c *Config) { c.Upstream.RequestsPerSecond = 0 }, errMsg: "upstream rps"},
		{name: "zero cache ttl", mutate: func(c *Config) { c.Refresh.CacheTTL = 0 }, errMsg: "cache ttl"},
		{name: "negative idle timeout", mutate: func(c *Config) { c.Session.IdleTimeout = -time.Second }, errMsg: "session idle timeout"},
		{name: "zero tween duration", mutate: func(c *Config) { c.Tween.Duration = 0 }, errMsg: "tween duration"},
		{name: "unknown mode", mutate: func(c *Config) { c.Tween.Mode = "bounce" }, errMsg: "tween mode"},
		{name: "unknown policy", mutate: func(c *Config) { c.Tween.StartPolicy = "resume" }, errMsg: "start policy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errMsg)
		})
	}
}

func TestValidate_FixturesSkipURLCheck(t *testing.T) {
	cfg := validConfig()
	cfg.Upstream.BaseURL = ""
	cfg.Upstream.FixturesDir = "/srv/fixtures"

	assert.NoError(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, time.Duration(0), cfg.Server.WriteTimeout)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "https://ignicult.com/api", cfg.Upstream.BaseURL)
	assert.Equal(t, 15*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "@every 5m", cfg.Refresh.Schedule)
	assert.Equal(t, 5*time.Minute, cfg.Refresh.CacheTTL)
	assert.True(t, cfg.Refresh.OnStart)
	assert.Equal(t, 30*time.Minute, cfg.Session.IdleTimeout)
	assert.Equal(t, 2*time.Second, cfg.Tween.Duration)
	assert.Equal(t, "step", cfg.Tween.Mode)
	assert.Equal(t, "reset-from-zero", cfg.Tween.StartPolicy)
}

func TestLoad_Precedence(t *testing.T) {
	isolateEnv(t)

	envFile := filepath.Join(t.TempDir(), ".env")
	content := "# dashboard\nSERVER_PORT=7000\nTWEEN_MODE='spring'\nCACHE_TTL=\"90s\"\n"
	require.NoError(t, os.WriteFile(envFile, []byte(content), 0o600))

	// isolateEnv left these empty, so the .env file fills them in and
	// t.Setenv restores them afterwards.
	t.Setenv("UPSTREAM_RPS", "5.5")

	cfg, err := Load([]string{"-env-file", envFile, "-tween-mode", "step", "-allowed-origins", "https://a.example, https://b.example"})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port, ".env fills unset variables")
	assert.Equal(t, "step", cfg.Tween.Mode, "flags beat .env")
	assert.Equal(t, 90*time.Second, cfg.Refresh.CacheTTL)
	assert.InDelta(t, 5.5, cfg.Upstream.RequestsPerSecond, 1e-9)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.AllowedOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	isolateEnv(t)
	t.Setenv("TWEEN_DURATION", "two seconds")

	_, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tween_duration")
}

func TestLoad_ExpandsFixturesDir(t *testing.T) {
	isolateEnv(t)

	cfg, err := Load([]string{"-env-file", filepath.Join(t.TempDir(), "missing.env"), "-fixtures-dir", "testdata/snapshots"})
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(cfg.Upstream.FixturesDir))
}

func TestConfigValueHelpers(t *testing.T) {
	t.Setenv("TEST_INT", "12")
	t.Setenv("TEST_FLOAT", "0.25")
	t.Setenv("TEST_BOOL", "Yes")
	t.Setenv("TEST_BAD", "x")

	assert.Equal(t, 12, getIntConfigValue("", "TEST_INT", 1))
	assert.Equal(t, 3, getIntConfigValue("3", "TEST_INT", 1))
	assert.Equal(t, 1, getIntConfigValue("", "TEST_BAD", 1))
	assert.InDelta(t, 0.25, getFloatConfigValue("", "TEST_FLOAT", 1), 1e-9)
	assert.InDelta(t, 1.0, getFloatConfigValue("", "TEST_BAD", 1), 1e-9)
	assert.True(t, getBoolConfigValue("", "TEST_BOOL", false))
	assert.False(t, getBoolConfigValue("no", "TEST_BOOL", true))
	assert.True(t, getBoolConfigValue("", "TEST_UNSET_BOOL", true))
}
