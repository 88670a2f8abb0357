package providers

import (
	"github.com/samber/do/v2"

	"github.com/ignicult/dashboard-server/internal/config"
	"github.com/ignicult/dashboard-server/internal/logger"
	"github.com/ignicult/dashboard-server/internal/search"
	"github.com/ignicult/dashboard-server/internal/store"
)

// StoreHandle wraps the snapshot cache with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore provides the in-memory snapshot cache.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	cache, err := store.Open(store.Options{
		TTL:    cfg.Refresh.CacheTTL,
		Logger: log.Logger,
	})
	if err != nil {
		return nil, err
	}

	log.Info("Snapshot cache initialized", "ttl", cache.TTL())

	return &StoreHandle{Store: cache}, nil
}

// SearchIndexHandle wraps the game index with shutdown capability.
type SearchIndexHandle struct {
	*search.GameIndex
}

// Shutdown implements do.Shutdownable.
func (h *SearchIndexHandle) Shutdown() error {
	return h.Close()
}

// ProvideSearchIndex provides the in-memory Bleve game index. It is filled on
// every snapshot refresh.
func ProvideSearchIndex(i do.Injector) (*SearchIndexHandle, error) {
	log := do.MustInvoke[*logger.Logger](i)

	index, err := search.NewGameIndex(search.Options{Logger: log.Logger})
	if err != nil {
		return nil, err
	}

	return &SearchIndexHandle{GameIndex: index}, nil
}
