package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerSnapshotRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "refreshSnapshot",
		Method:      http.MethodPost,
		Path:        "/api/v1/snapshots/refresh",
		Summary:     "Refresh snapshot",
		Description: "Fetches the upstream data now and notifies every viewer",
		Tags:        []string{"Snapshots"},
	}, s.handleRefreshSnapshot)
}

// SnapshotSummary describes a loaded snapshot.
type SnapshotSummary struct {
	Version   string    `json:"version" doc:"Snapshot version (UUIDv7)"`
	FetchedAt time.Time `json:"fetched_at" doc:"When the snapshot was fetched"`
	Buckets   int       `json:"buckets" doc:"Number of games with scores"`
	TopGames  int       `json:"top_games" doc:"Number of ranked games"`
	Wallets   int64     `json:"wallets" doc:"Connected wallet count"`
}

// SnapshotOutput wraps the snapshot summary for Huma.
type SnapshotOutput struct {
	Body SnapshotSummary
}

func (s *Server) handleRefreshSnapshot(ctx context.Context, _ *struct{}) (*SnapshotOutput, error) {
	snap, err := s.services.Snapshots.Refresh(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SnapshotOutput{Body: SnapshotSummary{
		Version:   snap.Version,
		FetchedAt: snap.FetchedAt,
		Buckets:   len(snap.Buckets),
		TopGames:  len(snap.TopGames),
		Wallets:   snap.Wallets.Count,
	}}, nil
}
