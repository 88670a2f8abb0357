package providers

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/do/v2"

	"github.com/ignicult/dashboard-server/internal/config"
	"github.com/ignicult/dashboard-server/internal/logger"
	"github.com/ignicult/dashboard-server/internal/service"
)

// cronLogger adapts slog to the cron.Logger interface.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	l.logger.Error(msg, append(keysAndValues, "error", err)...)
}

// RefreshJob refetches the snapshot on the configured cron schedule.
type RefreshJob struct {
	cron   *cron.Cron
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *RefreshJob) Shutdown() error {
	j.cancel()
	stopped := j.cron.Stop()
	select {
	case <-stopped.Done():
	case <-time.After(shutdownTimeout):
	}
	return nil
}

// ProvideRefreshJob provides the scheduled snapshot refresh.
func ProvideRefreshJob(i do.Injector) (*RefreshJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	snapshots := do.MustInvoke[*service.SnapshotService](i)
	log := do.MustInvoke[*logger.Logger](i)

	cl := cronLogger{logger: log.Component("refresh")}
	c := cron.New(
		cron.WithLogger(cl),
		cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
	)

	ctx, cancel := context.WithCancel(context.Background())

	refresh := func() {
		if _, err := snapshots.Refresh(ctx); err != nil {
			log.Warn("Scheduled refresh failed", "error", err)
		}
	}

	if _, err := c.AddFunc(cfg.Refresh.Schedule, refresh); err != nil {
		cancel()
		return nil, err
	}
	c.Start()

	if cfg.Refresh.OnStart {
		go refresh()
	}

	log.Info("Refresh job started", "schedule", cfg.Refresh.Schedule, "on_start", cfg.Refresh.OnStart)

	return &RefreshJob{cron: c, cancel: cancel}, nil
}

// SessionReaperJob removes idle sessions periodically.
type SessionReaperJob struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (j *SessionReaperJob) Shutdown() error {
	j.cancel()
	return nil
}

// ProvideSessionReaperJob provides the idle session reaper.
func ProvideSessionReaperJob(i do.Injector) (*SessionReaperJob, error) {
	cfg := do.MustInvoke[*config.Config](i)
	sessions := do.MustInvoke[*SessionServiceHandle](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())

	go func() {
		ticker := time.NewTicker(cfg.Session.ReapInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				if count := sessions.ReapIdle(); count > 0 {
					log.Info("Idle sessions removed", "removed", count, "remaining", sessions.Count())
				}
			case <-ctx.Done():
				return
			}
		}
	}()

	log.Info("Session reaper started",
		"interval", cfg.Session.ReapInterval,
		"idle_timeout", cfg.Session.IdleTimeout,
	)

	return &SessionReaperJob{cancel: cancel}, nil
}

// FixtureWatcherHandle reloads snapshots when fixture files change. It is
// inert when the server talks to the real upstream.
type FixtureWatcherHandle struct {
	cancel context.CancelFunc
}

// Shutdown implements do.Shutdownable.
func (h *FixtureWatcherHandle) Shutdown() error {
	h.cancel()
	return nil
}

// ProvideFixtureWatcher provides the fixture directory watcher.
func ProvideFixtureWatcher(i do.Injector) (*FixtureWatcherHandle, error) {
	source := do.MustInvoke[*SourceHandle](i)
	snapshots := do.MustInvoke[*service.SnapshotService](i)
	log := do.MustInvoke[*logger.Logger](i)

	ctx, cancel := context.WithCancel(context.Background())
	if source.Fixtures == nil {
		return &FixtureWatcherHandle{cancel: cancel}, nil
	}

	onChange := func(name string) {
		// Monthly files only affect the activity cache.
		if strings.HasPrefix(name, "monthly_activity") {
			if err := snapshots.InvalidateActivity(); err != nil {
				log.Warn("Failed to invalidate activity cache", "file", name, "error", err)
			}
			return
		}
		if _, err := snapshots.Refresh(ctx); err != nil {
			log.Warn("Fixture reload failed", "file", name, "error", err)
		}
	}

	go func() {
		if err := source.Fixtures.Watch(ctx, onChange); err != nil {
			log.Error("Fixture watcher error", "error", err)
		}
	}()

	return &FixtureWatcherHandle{cancel: cancel}, nil
}
