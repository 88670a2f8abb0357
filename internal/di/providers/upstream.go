package providers

import (
	"github.com/samber/do/v2"

	"github.com/ignicult/dashboard-server/internal/config"
	"github.com/ignicult/dashboard-server/internal/fixtures"
	"github.com/ignicult/dashboard-server/internal/ignicult"
	"github.com/ignicult/dashboard-server/internal/logger"
	"github.com/ignicult/dashboard-server/internal/service"
)

// SourceHandle holds the snapshot source. Fixtures is set when data comes
// from a local directory, Client when it comes from the Ignicult API.
type SourceHandle struct {
	service.Source
	Client   *ignicult.Client
	Fixtures *fixtures.Source
}

// Shutdown implements do.Shutdownable.
func (h *SourceHandle) Shutdown() error {
	if h.Client != nil {
		h.Client.Close()
	}
	return nil
}

// ProvideSource provides the upstream data source.
func ProvideSource(i do.Injector) (*SourceHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	if dir := cfg.Upstream.FixturesDir; dir != "" {
		src, err := fixtures.New(dir, log.Logger)
		if err != nil {
			return nil, err
		}
		log.Info("Serving snapshots from fixtures", "dir", src.Dir())
		return &SourceHandle{Source: src, Fixtures: src}, nil
	}

	client := ignicult.New(ignicult.Config{
		BaseURL:           cfg.Upstream.BaseURL,
		Timeout:           cfg.Upstream.Timeout,
		RequestsPerSecond: cfg.Upstream.RequestsPerSecond,
		Burst:             cfg.Upstream.Burst,
	}, log.Logger)

	log.Info("Ignicult client ready",
		"base_url", cfg.Upstream.BaseURL,
		"rps", cfg.Upstream.RequestsPerSecond,
	)

	return &SourceHandle{Source: client, Client: client}, nil
}
