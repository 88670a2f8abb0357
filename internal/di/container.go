// Package di provides dependency injection configuration for the dashboard server.
package di

import (
	"github.com/samber/do/v2"

	"github.com/ignicult/dashboard-server/internal/config"
	"github.com/ignicult/dashboard-server/internal/di/providers"
	"github.com/ignicult/dashboard-server/internal/logger"
	"github.com/ignicult/dashboard-server/internal/service"
)

// NewContainer creates and configures the DI container with all providers.
func NewContainer() *do.RootScope {
	injector := do.New()

	// Core infrastructure
	do.Provide(injector, providers.ProvideConfig)
	do.Provide(injector, providers.ProvideLogger)
	do.Provide(injector, providers.ProvideSlogLogger)

	// Storage layer
	do.Provide(injector, providers.ProvideStore)
	do.Provide(injector, providers.ProvideSearchIndex)
	do.Provide(injector, providers.ProvideSSEManager)

	// Upstream
	do.Provide(injector, providers.ProvideSource)

	// Business services
	do.Provide(injector, providers.ProvideSnapshotService)
	do.Provide(injector, providers.ProvideSessionService)

	// Workers
	do.Provide(injector, providers.ProvideRefreshJob)
	do.Provide(injector, providers.ProvideSessionReaperJob)
	do.Provide(injector, providers.ProvideFixtureWatcher)

	// Server
	do.Provide(injector, providers.ProvideHTTPServer)

	return injector
}

// Bootstrap initializes all services and returns handles for lifecycle management.
// This triggers lazy initialization of all core services.
func Bootstrap(injector *do.RootScope) error {
	if _, err := do.Invoke[*config.Config](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*logger.Logger](injector)
	_ = do.MustInvoke[*providers.StoreHandle](injector)
	_ = do.MustInvoke[*providers.SearchIndexHandle](injector)
	_ = do.MustInvoke[*providers.SSEManagerHandle](injector)

	if _, err := do.Invoke[*providers.SourceHandle](injector); err != nil {
		return err
	}

	_ = do.MustInvoke[*service.SnapshotService](injector)
	_ = do.MustInvoke[*providers.SessionServiceHandle](injector)

	// Server before workers so the on-start refresh has listeners to reach.
	_ = do.MustInvoke[*providers.HTTPServerHandle](injector)

	if _, err := do.Invoke[*providers.RefreshJob](injector); err != nil {
		return err
	}
	_ = do.MustInvoke[*providers.SessionReaperJob](injector)
	_ = do.MustInvoke[*providers.FixtureWatcherHandle](injector)

	return nil
}
