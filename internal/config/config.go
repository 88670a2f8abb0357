// Package config provides application configuration management with support for environment variables, command-line flags, and .env files.
package config

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/ignicult/dashboard-server/internal/tween"
)

// Config holds the application configuration.
type Config struct {
	App      AppConfig
	Logger   LoggerConfig
	Server   ServerConfig
	Upstream UpstreamConfig
	Refresh  RefreshConfig
	Session  SessionConfig
	Tween    TweenConfig
}

// AppConfig holds application-level configuration.
type AppConfig struct {
	Environment string
}

// LoggerConfig holds logging configuration.
type LoggerConfig struct {
	Level string
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Port           string        // Server port (default: 8080)
	ReadTimeout    time.Duration // HTTP read timeout (default: 15s)
	WriteTimeout   time.Duration // HTTP write timeout (default: 0, event streams stay open)
	IdleTimeout    time.Duration // HTTP idle timeout (default: 60s)
	AllowedOrigins []string      // CORS origins (default: *)

	// Per-IP API rate limit (default: 20 rps, burst 40). Zero disables it.
	RequestsPerSecond float64
	Burst             int
}

// UpstreamConfig holds the Ignicult API client configuration.
type UpstreamConfig struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int

	// FixturesDir serves snapshots from JSON files instead of the network
	// and reloads them when they change. Empty means use BaseURL.
	FixturesDir string
}

// RefreshConfig controls when the snapshot is refetched.
type RefreshConfig struct {
	Schedule string        // cron expression (default: @every 5m)
	CacheTTL time.Duration // snapshot cache lifetime (default: 5m)
	OnStart  bool          // fetch once during startup (default: true)
}

// SessionConfig controls viewer sessions.
type SessionConfig struct {
	IdleTimeout  time.Duration // default: 30m
	ReapInterval time.Duration // default: 1m
}

// TweenConfig controls the top scorer card animation.
type TweenConfig struct {
	Duration    time.Duration // default: 2s
	Mode        string        // step or spring (default: step)
	StartPolicy string        // reset-from-zero or continue-from-current (default: reset-from-zero)
}

// LoadConfig loads configuration from the process arguments. See Load.
func LoadConfig() (*Config, error) {
	return Load(os.Args[1:])
}

// Load loads configuration from multiple sources with precedence:
// 1. Command-line flags (highest priority).
// 2. Environment variables.
// 3. .env file.
// 4. Default values (lowest priority).
func Load(args []string) (*Config, error) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)

	env := fs.String("env", "", "Environment (development, staging, production)")
	logLevel := fs.String("log-level", "", "Log level (debug, info, warn, error)")

	// Server flags
	serverPort := fs.String("port", "", "Server port (default: 8080)")
	readTimeout := fs.String("read-timeout", "", "HTTP read timeout (default: 15s)")
	writeTimeout := fs.String("write-timeout", "", "HTTP write timeout (default: 0)")
	idleTimeout := fs.String("idle-timeout", "", "HTTP idle timeout (default: 60s)")
	allowedOrigins := fs.String("allowed-origins", "", "Comma-separated CORS origins (default: *)")
	apiRPS := fs.String("api-rps", "", "Per-IP API requests per second (default: 20)")
	apiBurst := fs.String("api-burst", "", "Per-IP API burst (default: 40)")

	// Upstream flags
	upstreamURL := fs.String("upstream-url", "", "Ignicult API base URL")
	upstreamTimeout := fs.String("upstream-timeout", "", "Upstream request timeout (default: 15s)")
	upstreamRPS := fs.String("upstream-rps", "", "Upstream requests per second (default: 2)")
	upstreamBurst := fs.String("upstream-burst", "", "Upstream burst (default: 4)")
	fixturesDir := fs.String("fixtures-dir", "", "Serve snapshots from this directory instead of the upstream")

	// Refresh flags
	refreshSchedule := fs.String("refresh-schedule", "", "Cron schedule for snapshot refresh (default: @every 5m)")
	cacheTTL := fs.String("cache-ttl", "", "Snapshot cache TTL (default: 5m)")
	refreshOnStart := fs.String("refresh-on-start", "", "Fetch the snapshot during startup (default: true)")

	// Session and tween flags
	sessionIdle := fs.String("session-idle-timeout", "", "Remove sessions idle this long (default: 30m)")
	tweenDuration := fs.String("tween-duration", "", "Animation duration (default: 2s)")
	tweenMode := fs.String("tween-mode", "", "Card animation mode: step or spring (default: step)")
	tweenPolicy := fs.String("tween-start-policy", "", "reset-from-zero or continue-from-current (default: reset-from-zero)")

	envFile := fs.String("env-file", ".env", "Path to .env file")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	// Load .env file if it exists (silently ignore if not found).
	_ = loadEnvFile(*envFile)

	cfg := &Config{
		App: AppConfig{
			Environment: getConfigValue(*env, "ENV", "development"),
		},
		Logger: LoggerConfig{
			Level: getConfigValue(*logLevel, "LOG_LEVEL", "info"),
		},
		Server: ServerConfig{
			Port:              getConfigValue(*serverPort, "SERVER_PORT", "8080"),
			AllowedOrigins:    splitList(getConfigValue(*allowedOrigins, "ALLOWED_ORIGINS", "*")),
			RequestsPerSecond: getFloatConfigValue(*apiRPS, "API_RPS", 20),
			Burst:             getIntConfigValue(*apiBurst, "API_BURST", 40),
		},
		Upstream: UpstreamConfig{
			BaseURL:           getConfigValue(*upstreamURL, "UPSTREAM_URL", "https://ignicult.com/api"),
			RequestsPerSecond: getFloatConfigValue(*upstreamRPS, "UPSTREAM_RPS", 2),
			Burst:             getIntConfigValue(*upstreamBurst, "UPSTREAM_BURST", 4),
			FixturesDir:       getConfigValue(*fixturesDir, "FIXTURES_DIR", ""),
		},
		Refresh: RefreshConfig{
			Schedule: getConfigValue(*refreshSchedule, "REFRESH_SCHEDULE", "@every 5m"),
			OnStart:  getBoolConfigValue(*refreshOnStart, "REFRESH_ON_START", true),
		},
		Tween: TweenConfig{
			Mode:        getConfigValue(*tweenMode, "TWEEN_MODE", string(tween.ModeStep)),
			StartPolicy: getConfigValue(*tweenPolicy, "TWEEN_START_POLICY", string(tween.ResetFromZero)),
		},
	}

	durations := []struct {
		dest       *time.Duration
		flagValue  string
		envKey     string
		defaultVal time.Duration
	}{
		{&cfg.Server.ReadTimeout, *readTimeout, "SERVER_READ_TIMEOUT", 15 * time.Second},
		{&cfg.Server.WriteTimeout, *writeTimeout, "SERVER_WRITE_TIMEOUT", 0},
		{&cfg.Server.IdleTimeout, *idleTimeout, "SERVER_IDLE_TIMEOUT", 60 * time.Second},
		{&cfg.Upstream.Timeout, *upstreamTimeout, "UPSTREAM_TIMEOUT", 15 * time.Second},
		{&cfg.Refresh.CacheTTL, *cacheTTL, "CACHE_TTL", 5 * time.Minute},
		{&cfg.Session.IdleTimeout, *sessionIdle, "SESSION_IDLE_TIMEOUT", 30 * time.Minute},
		{&cfg.Session.ReapInterval, "", "SESSION_REAP_INTERVAL", time.Minute},
		{&cfg.Tween.Duration, *tweenDuration, "TWEEN_DURATION", 2 * time.Second},
	}
	for _, d := range durations {
		value, err := getDurationConfigValue(d.flagValue, d.envKey, d.defaultVal)
		if err != nil {
			return nil, err
		}
		*d.dest = value
	}

	if cfg.Upstream.FixturesDir != "" {
		expanded, err := expandPath(cfg.Upstream.FixturesDir, "")
		if err != nil {
			return nil, fmt.Errorf("invalid fixtures dir: %w", err)
		}
		cfg.Upstream.FixturesDir = expanded
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate checks that all required config values are present and valid.
func (c *Config) Validate() error {
	if c.App.Environment == "" {
		return errors.New("ENV is required")
	}

	validEnvs := map[string]bool{
		"development": true,
		"staging":     true,
		"production":  true,
	}
	if !validEnvs[c.App.Environment] {
		return fmt.Errorf("invalid environment: %s (must be development, staging, or production)", c.App.Environment)
	}

	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[strings.ToLower(c.Logger.Level)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Upstream.FixturesDir == "" {
		u, err := url.Parse(c.Upstream.BaseURL)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid upstream url: %q", c.Upstream.BaseURL)
		}
	}
	if c.Upstream.RequestsPerSecond <= 0 {
		return fmt.Errorf("upstream rps must be positive, got %v", c.Upstream.RequestsPerSecond)
	}

	if _, err := cron.ParseStandard(c.Refresh.Schedule); err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", c.Refresh.Schedule, err)
	}

	positive := map[string]time.Duration{
		"cache ttl":             c.Refresh.CacheTTL,
		"session idle timeout":  c.Session.IdleTimeout,
		"session reap interval": c.Session.ReapInterval,
		"tween duration":        c.Tween.Duration,
	}
	for name, d := range positive {
		if d <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, d)
		}
	}

	if !tween.Mode(c.Tween.Mode).Valid() {
		return fmt.Errorf("invalid tween mode: %s (must be step or spring)", c.Tween.Mode)
	}
	if !tween.StartPolicy(c.Tween.StartPolicy).Valid() {
		return fmt.Errorf("invalid tween start policy: %s (must be reset-from-zero or continue-from-current)", c.Tween.StartPolicy)
	}

	return nil
}

// expandPath expands ~ and makes the path absolute.
// If path is empty and defaultPath is provided, uses the default.
func expandPath(path, defaultPath string) (string, error) {
	if path == "" {
		return defaultPath, nil
	}

	// Expand tilde.
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		path = filepath.Join(homeDir, path[2:])
	}

	// Make absolute if needed.
	if !filepath.IsAbs(path) {
		absPath, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("failed to get absolute path: %w", err)
		}
		path = absPath
	}

	return filepath.Clean(path), nil
}

// getConfigValue returns the first non-empty value from flag, env var, or default.
func getConfigValue(flagValue, envKey, defaultValue string) string {
	// Priority 1: Command-line flag.
	if flagValue != "" {
		return flagValue
	}

	// Priority 2: Environment variable.
	if envValue := os.Getenv(envKey); envValue != "" {
		return envValue
	}

	// Priority 3: Default value.
	return defaultValue
}

// getBoolConfigValue returns a bool from flag, env var, or default.
// Accepts: "true", "1", "yes" (case-insensitive) as true; anything else is false.
func getBoolConfigValue(flagValue, envKey string, defaultValue bool) bool {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	strValue = strings.ToLower(strValue)
	return strValue == "true" || strValue == "1" || strValue == "yes"
}

// getIntConfigValue returns an int from flag, env var, or default.
func getIntConfigValue(flagValue, envKey string, defaultValue int) int {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.Atoi(strValue)
	if err != nil {
		return defaultValue
	}
	return result
}

// getFloatConfigValue returns a float from flag, env var, or default.
func getFloatConfigValue(flagValue, envKey string, defaultValue float64) float64 {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue
	}
	result, err := strconv.ParseFloat(strValue, 64)
	if err != nil {
		return defaultValue
	}
	return result
}

// getDurationConfigValue parses a duration from flag, env var, or default.
// Unlike the other helpers it fails on malformed input.
func getDurationConfigValue(flagValue, envKey string, defaultValue time.Duration) (time.Duration, error) {
	strValue := getConfigValue(flagValue, envKey, "")
	if strValue == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(strValue)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", strings.ToLower(envKey), strValue, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// loadEnvFile loads environment variables from a .env file.
// Format: KEY=value (one per line, # for comments).
func loadEnvFile(path string) error {
	file, err := os.Open(path) //#nosec G304 -- Config file path from user input is expected
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments.
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return fmt.Errorf("invalid format at line %d: %s", lineNum, line)
		}

		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)

		// Only set if not already set (env vars take precedence over .env file).
		if os.Getenv(key) == "" {
			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("failed to set env var %s: %w", key, err)
			}
		}
	}

	return scanner.Err()
}
