// Package providers contains dependency injection providers for the dashboard server.
package providers

import (
	"log/slog"

	"github.com/samber/do/v2"

	"github.com/ignicult/dashboard-server/internal/config"
	"github.com/ignicult/dashboard-server/internal/logger"
)

// ProvideConfig provides the application configuration.
func ProvideConfig(i do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger provides the structured logger.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment == "development",
		Environment: cfg.App.Environment,
	})

	source := cfg.Upstream.BaseURL
	if cfg.Upstream.FixturesDir != "" {
		source = cfg.Upstream.FixturesDir
	}
	log.Info("Starting Ignicult dashboard server",
		"environment", cfg.App.Environment,
		"log_level", cfg.Logger.Level,
		"source", source,
		"refresh_schedule", cfg.Refresh.Schedule,
	)

	return log, nil
}

// ProvideSlogLogger provides access to the underlying slog.Logger for packages that need it.
func ProvideSlogLogger(i do.Injector) (*slog.Logger, error) {
	log := do.MustInvoke[*logger.Logger](i)
	return log.Logger, nil
}
