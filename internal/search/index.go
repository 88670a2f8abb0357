package search

import (
	"fmt"
	"io"
	"log/slog"
	"sync"

	"github.com/blevesearch/bleve/v2"
)

// GameIndex wraps a memory-only Bleve index.
//
// Thread safety: all public methods are safe for concurrent use. Rebuild
// builds the replacement index before taking the write lock, so searches are
// only blocked for the swap.
type GameIndex struct {
	mu     sync.RWMutex
	index  bleve.Index
	logger *slog.Logger
}

// Options configures the search index.
type Options struct {
	Logger *slog.Logger // uses discard if nil
}

// NewGameIndex creates an empty index.
func NewGameIndex(opts Options) (*GameIndex, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	index, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("create index: %w", err)
	}

	return &GameIndex{index: index, logger: logger}, nil
}

// Rebuild replaces the whole index with docs.
func (g *GameIndex) Rebuild(docs []*GameDocument) error {
	next, err := bleve.NewMemOnly(buildIndexMapping())
	if err != nil {
		return fmt.Errorf("create index: %w", err)
	}

	batch := next.NewBatch()
	for _, doc := range docs {
		if err := batch.Index(doc.ID, doc.toMap()); err != nil {
			next.Close()
			return fmt.Errorf("batch index %s: %w", doc.ID, err)
		}
	}
	if err := next.Batch(batch); err != nil {
		next.Close()
		return fmt.Errorf("commit batch: %w", err)
	}

	g.mu.Lock()
	prev := g.index
	g.index = next
	g.mu.Unlock()

	if err := prev.Close(); err != nil {
		g.logger.Warn("failed to close previous search index", "error", err)
	}

	g.logger.Debug("search index rebuilt", "documents", len(docs))
	return nil
}

// DocumentCount returns the total number of indexed documents.
func (g *GameIndex) DocumentCount() (uint64, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.index.DocCount()
}

// Close closes the index and releases resources.
func (g *GameIndex) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.index.Close()
}
