package service

import (
	"cmp"
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ignicult/dashboard-server/internal/domain"
	domainerrors "github.com/ignicult/dashboard-server/internal/errors"
	"github.com/ignicult/dashboard-server/internal/id"
	"github.com/ignicult/dashboard-server/internal/ignicult"
	"github.com/ignicult/dashboard-server/internal/search"
	"github.com/ignicult/dashboard-server/internal/sse"
	"github.com/ignicult/dashboard-server/internal/store"
	"github.com/ignicult/dashboard-server/internal/tween"
)

// SnapshotService fetches the upstream snapshot wholesale, caches it and keeps
// the search index in step with it.
type SnapshotService struct {
	source    Source
	cache     *store.Store
	index     *search.GameIndex
	events    EventEmitter
	scheduler tween.Scheduler
	logger    *slog.Logger
	now       func() time.Time

	refreshMu sync.Mutex
	current   atomic.Pointer[domain.Snapshot]
}

// NewSnapshotService creates a new snapshot service.
func NewSnapshotService(source Source, cache *store.Store, index *search.GameIndex, events EventEmitter, scheduler tween.Scheduler, logger *slog.Logger) *SnapshotService {
	if events == nil {
		events = NoopEmitter{}
	}
	if scheduler == nil {
		scheduler = tween.TickerScheduler{}
	}
	return &SnapshotService{
		source:    source,
		cache:     cache,
		index:     index,
		events:    events,
		scheduler: scheduler,
		logger:    logger,
		now:       time.Now,
	}
}

// Refresh fetches scores, top games and the wallet count concurrently and
// replaces the cached snapshot. Refreshes are serialized. Any fetch failure
// fails the whole refresh and leaves the previous snapshot in place.
func (s *SnapshotService) Refresh(ctx context.Context) (*domain.Snapshot, error) {
	s.refreshMu.Lock()
	defer s.refreshMu.Unlock()

	stopLoading := startLoading(s.scheduler, s.events, "")
	defer stopLoading()

	var (
		buckets []domain.GameBucket
		games   []domain.TopGame
		wallets domain.WalletCount
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		b, err := s.source.TopScores(gctx)
		if errors.Is(err, ignicult.ErrNoData) {
			buckets = []domain.GameBucket{}
			return nil
		}
		buckets = b
		return err
	})
	g.Go(func() error {
		tg, err := s.source.TopGames(gctx)
		games = tg
		return err
	})
	g.Go(func() error {
		w, err := s.source.WalletCount(gctx)
		wallets = w
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Warn("snapshot refresh failed", "error", err)
		return nil, domainerrors.UpstreamUnavailable(err, "failed to fetch dashboard data")
	}

	if buckets == nil {
		buckets = []domain.GameBucket{}
	}
	if games == nil {
		games = []domain.TopGame{}
	}

	snap := &domain.Snapshot{
		Version:   id.Version(),
		FetchedAt: s.now().UTC(),
		Buckets:   buckets,
		TopGames:  games,
		Wallets:   wallets,
	}

	if err := s.cache.PutSnapshot(snap); err != nil {
		s.logger.Warn("failed to cache snapshot", "version", snap.Version, "error", err)
	}
	if err := s.cache.InvalidateActivity(); err != nil {
		s.logger.Warn("failed to invalidate cached activity", "error", err)
	}
	if s.index != nil {
		if err := s.index.Rebuild(search.BuildDocuments(buckets, games)); err != nil {
			s.logger.Warn("failed to rebuild search index", "error", err)
		}
	}

	s.current.Store(snap)
	s.events.Emit(sse.NewSnapshotRefreshedEvent(snap.Version, len(snap.Buckets), snap.FetchedAt))

	s.logger.Info("snapshot refreshed",
		"version", snap.Version,
		"buckets", len(snap.Buckets),
		"top_games", len(snap.TopGames),
		"wallets", snap.Wallets.Count,
	)
	return snap, nil
}

// Snapshot returns the cached snapshot, refreshing it when the cache entry
// is missing or has expired.
func (s *SnapshotService) Snapshot(ctx context.Context) (*domain.Snapshot, error) {
	snap, err := s.cache.Snapshot()
	if err == nil {
		return snap, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to read cached snapshot", "error", err)
	}
	return s.Refresh(ctx)
}

// Current returns the most recently refreshed snapshot without touching the
// cache or the upstream, or nil before the first refresh.
func (s *SnapshotService) Current() *domain.Snapshot {
	return s.current.Load()
}

// MonthlyActivity returns the activity for period from the cache or the
// source. A month the upstream has nothing for comes back empty, not as an
// error.
func (s *SnapshotService) MonthlyActivity(ctx context.Context, period domain.Period) (domain.MonthlyActivity, error) {
	if cached, err := s.cache.Activity(period); err == nil {
		return cached, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("failed to read cached activity", "period", period.String(), "error", err)
	}

	activity, err := s.source.MonthlyActivity(ctx, period)
	switch {
	case errors.Is(err, ignicult.ErrNotFound), errors.Is(err, ignicult.ErrNoData):
		return domain.MonthlyActivity{Period: period, DailyBreakdown: []domain.DailyActivity{}}, nil
	case err != nil:
		s.logger.Warn("monthly activity fetch failed", "period", period.String(), "error", err)
		return domain.MonthlyActivity{}, domainerrors.UpstreamUnavailable(err, "failed to fetch monthly activity")
	}

	if err := s.cache.PutActivity(activity); err != nil {
		s.logger.Warn("failed to cache activity", "period", period.String(), "error", err)
	}
	return activity, nil
}

// TopGameEntry is a top game with its display labels.
type TopGameEntry struct {
	domain.TopGame
	CompletionLabel string `json:"completion_label"`
	PredictedLabel  string `json:"predicted_label"`
}

// TopGamesView lists games by completion rate, highest first.
type TopGamesView struct {
	State   domain.ViewState `json:"state"`
	Version string           `json:"version"`
	Games   []TopGameEntry   `json:"games"`
}

// TopGames builds the top games view from the current snapshot.
func (s *SnapshotService) TopGames(ctx context.Context) (*TopGamesView, error) {
	snap, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}

	games := slices.Clone(snap.TopGames)
	slices.SortStableFunc(games, func(a, b domain.TopGame) int {
		return cmp.Compare(b.CompletionRate, a.CompletionRate)
	})

	label := tween.Percent(0)
	view := &TopGamesView{
		State:   domain.ViewStateReady,
		Version: snap.Version,
		Games:   make([]TopGameEntry, len(games)),
	}
	for i, g := range games {
		view.Games[i] = TopGameEntry{
			TopGame:         g,
			CompletionLabel: label(g.CompletionRate),
			PredictedLabel:  label(g.PredictedScore),
		}
	}
	if len(games) == 0 {
		view.State = domain.ViewStateEmpty
	}
	return view, nil
}

// Search queries the game index. The snapshot is loaded first so the index
// is populated on a cold start.
func (s *SnapshotService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	if _, err := s.Snapshot(ctx); err != nil {
		return nil, err
	}
	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, domainerrors.Wrap(err, domainerrors.CodeInternal, "search failed")
	}
	return result, nil
}

// InvalidateActivity drops cached months so they are fetched again.
func (s *SnapshotService) InvalidateActivity() error {
	return s.cache.InvalidateActivity()
}
