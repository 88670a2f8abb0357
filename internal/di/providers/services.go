package providers

import (
	"context"

	"github.com/samber/do/v2"

	"github.com/ignicult/dashboard-server/internal/config"
	"github.com/ignicult/dashboard-server/internal/logger"
	"github.com/ignicult/dashboard-server/internal/service"
	"github.com/ignicult/dashboard-server/internal/sse"
	"github.com/ignicult/dashboard-server/internal/tween"
)

// SSEManagerHandle wraps the SSE manager with its context for lifecycle management.
type SSEManagerHandle struct {
	*sse.Manager
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *SSEManagerHandle) Shutdown() error {
	h.cancel()
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return h.Manager.Shutdown(ctx)
}

// ProvideSSEManager provides the server-sent events manager.
func ProvideSSEManager(i do.Injector) (*SSEManagerHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	manager := sse.NewManager(log.Logger)

	// Start in background
	ctx, cancel := context.WithCancel(context.Background())
	go manager.Start(ctx)

	log.Info("SSE manager started")

	return &SSEManagerHandle{
		Manager: manager,
		cancel:  cancel,
	}, nil
}

// ProvideSnapshotService provides the snapshot service.
func ProvideSnapshotService(i do.Injector) (*service.SnapshotService, error) {
	source := do.MustInvoke[*SourceHandle](i)
	storeHandle := do.MustInvoke[*StoreHandle](i)
	indexHandle := do.MustInvoke[*SearchIndexHandle](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	return service.NewSnapshotService(
		source.Source,
		storeHandle.Store,
		indexHandle.GameIndex,
		sseHandle.Manager,
		tween.TickerScheduler{},
		log.Logger,
	), nil
}

// SessionServiceHandle stops every session's animations on shutdown.
type SessionServiceHandle struct {
	*service.SessionService
}

// Shutdown implements do.Shutdownable.
func (h *SessionServiceHandle) Shutdown() error {
	h.SessionService.Shutdown()
	return nil
}

// ProvideSessionService provides the viewer session service.
func ProvideSessionService(i do.Injector) (*SessionServiceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	snapshots := do.MustInvoke[*service.SnapshotService](i)
	sseHandle := do.MustInvoke[*SSEManagerHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	svc := service.NewSessionService(snapshots, sseHandle.Manager, service.SessionConfig{
		IdleTimeout: cfg.Session.IdleTimeout,
		Tween: service.TweenConfig{
			Duration:  cfg.Tween.Duration,
			Mode:      tween.Mode(cfg.Tween.Mode),
			Policy:    tween.StartPolicy(cfg.Tween.StartPolicy),
			Scheduler: tween.TickerScheduler{},
		},
	}, log.Logger)

	return &SessionServiceHandle{SessionService: svc}, nil
}
