// Package service derives dashboard views from upstream snapshots and drives
// their animations.
package service

import (
	"context"
	"math"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/sse"
)

// Source fetches dashboard data. Both the upstream client and the fixture
// directory implement it.
type Source interface {
	TopScores(ctx context.Context) ([]domain.GameBucket, error)
	TopGames(ctx context.Context) ([]domain.TopGame, error)
	MonthlyActivity(ctx context.Context, period domain.Period) (domain.MonthlyActivity, error)
	WalletCount(ctx context.Context) (domain.WalletCount, error)
}

// EventEmitter delivers events to connected viewers.
type EventEmitter interface {
	Emit(event sse.Event)
}

// SessionCloser is implemented by emitters that can drop a session's streams.
type SessionCloser interface {
	DisconnectSession(sessionID string)
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// Emit does nothing.
func (NoopEmitter) Emit(sse.Event) {}

// validTarget reports whether v can be handed to a tween.
func validTarget(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
