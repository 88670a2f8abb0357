// Package fixtures serves dashboard snapshots from JSON files on disk, in the
// same wire format the Ignicult API returns. Useful for demos and local work
// without network access.
package fixtures

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/ignicult"
	"github.com/ignicult/dashboard-server/internal/watcher"
)

// File names inside the fixtures directory.
const (
	TopScoresFile   = "top_scores.json"
	TopGamesFile    = "top_games.json"
	WalletCountFile = "wallet_count.json"
)

// MonthlyActivityFile returns the file name holding activity for period,
// e.g. "monthly_activity_2025-02.json".
func MonthlyActivityFile(period domain.Period) string {
	return "monthly_activity_" + period.String() + ".json"
}

// Source reads snapshots from a directory.
type Source struct {
	dir     string
	decoder *ignicult.Decoder
	logger  *slog.Logger
}

// New creates a fixture source rooted at dir.
func New(dir string, logger *slog.Logger) (*Source, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("fixtures dir: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("fixtures dir: %s is not a directory", dir)
	}

	return &Source{
		dir:     dir,
		decoder: ignicult.NewDecoder(),
		logger:  logger,
	}, nil
}

// Dir returns the directory being served.
func (s *Source) Dir() string {
	return s.dir
}

// TopScores reads top_scores.json.
func (s *Source) TopScores(_ context.Context) ([]domain.GameBucket, error) {
	body, err := s.read(TopScoresFile)
	if err != nil {
		return nil, err
	}
	return s.decoder.TopScores(body)
}

// TopGames reads top_games.json.
func (s *Source) TopGames(_ context.Context) ([]domain.TopGame, error) {
	body, err := s.read(TopGamesFile)
	if err != nil {
		return nil, err
	}
	return s.decoder.TopGames(body)
}

// MonthlyActivity reads the activity file for period.
func (s *Source) MonthlyActivity(_ context.Context, period domain.Period) (domain.MonthlyActivity, error) {
	body, err := s.read(MonthlyActivityFile(period))
	if err != nil {
		return domain.MonthlyActivity{}, err
	}
	return s.decoder.MonthlyActivity(body, period)
}

// WalletCount reads wallet_count.json.
func (s *Source) WalletCount(_ context.Context) (domain.WalletCount, error) {
	body, err := s.read(WalletCountFile)
	if err != nil {
		return domain.WalletCount{}, err
	}
	return s.decoder.WalletCount(body)
}

// read maps a missing file to ignicult.ErrNotFound so callers handle fixture
// and HTTP sources alike.
func (s *Source) read(name string) ([]byte, error) {
	body, err := os.ReadFile(filepath.Join(s.dir, name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: fixture %s", ignicult.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("read fixture %s: %w", name, err)
	}
	return body, nil
}

// Watch calls onChange with the file name whenever a fixture settles after a
// write, create or delete. It blocks until ctx is cancelled.
func (s *Source) Watch(ctx context.Context, onChange func(name string)) error {
	w, err := watcher.New(s.logger, watcher.Options{Extensions: []string{".json"}})
	if err != nil {
		return err
	}
	defer w.Stop() //nolint:errcheck // Best-effort cleanup

	if err := w.Watch(s.dir); err != nil {
		return err
	}

	go w.Start(ctx) //nolint:errcheck // Start only returns nil

	s.logger.Info("watching fixtures", "dir", s.dir)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.Events():
			if !ok {
				return nil
			}
			s.logger.Debug("fixture changed", "file", filepath.Base(event.Path), "type", event.Type)
			onChange(filepath.Base(event.Path))
		case err, ok := <-w.Errors():
			if !ok {
				return nil
			}
			s.logger.Warn("fixture watcher error", "error", err)
		}
	}
}
