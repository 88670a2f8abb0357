package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ignicult/dashboard-server/internal/ranking"
	"github.com/ignicult/dashboard-server/internal/service"
)

func (s *Server) registerLeaderboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getLeaderboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/leaderboard",
		Summary:     "Get leaderboard",
		Description: "Returns the active game's top 20 with percentiles, the selection and the top scorer card",
		Tags:        []string{"Leaderboard"},
	}, s.handleGetLeaderboard)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectBucket",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/leaderboard/bucket",
		Summary:     "Select game by index",
		Description: "Activates a game bucket by position. Out-of-range indices are clamped.",
		Tags:        []string{"Leaderboard"},
	}, s.handleSelectBucket)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectGame",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/leaderboard/game/{gameId}",
		Summary:     "Select game by id",
		Description: "Activates the bucket of a game. Unknown games return 404.",
		Tags:        []string{"Leaderboard"},
	}, s.handleSelectGame)

	huma.Register(s.api, huma.Operation{
		OperationID: "selectRank",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/leaderboard/rank",
		Summary:     "Select rank",
		Description: "Moves the cursor within the active game. Out-of-range indices are clamped.",
		Tags:        []string{"Leaderboard"},
	}, s.handleSelectRank)

	huma.Register(s.api, huma.Operation{
		OperationID: "cycleBucket",
		Method:      http.MethodPost,
		Path:        "/api/v1/sessions/{id}/leaderboard/cycle",
		Summary:     "Cycle games",
		Description: "Moves to the previous (-1) or next (1) game, wrapping at both ends",
		Tags:        []string{"Leaderboard"},
	}, s.handleCycle)
}

// === DTOs ===

// LeaderboardOutput wraps the leaderboard view for Huma.
type LeaderboardOutput struct {
	Body *service.LeaderboardView
}

// IndexRequest carries a position.
type IndexRequest struct {
	Index int `json:"index" doc:"Zero-based position; clamped into range"`
}

// SelectIndexInput contains parameters for index selection.
type SelectIndexInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body IndexRequest
}

// SelectGameInput contains parameters for selecting a game by id.
type SelectGameInput struct {
	ID     string `path:"id" doc:"Session ID"`
	GameID int64  `path:"gameId" doc:"Upstream game ID"`
}

// CycleRequest carries the cycle direction.
type CycleRequest struct {
	Direction int `json:"direction" enum:"-1,1" doc:"-1 for previous, 1 for next"`
}

// CycleInput contains parameters for cycling games.
type CycleInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body CycleRequest
}

// === Handlers ===

func (s *Server) handleGetLeaderboard(ctx context.Context, input *SessionPathInput) (*LeaderboardOutput, error) {
	view, err := s.services.Sessions.Leaderboard(ctx, input.ID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &LeaderboardOutput{Body: view}, nil
}

func (s *Server) handleSelectBucket(ctx context.Context, input *SelectIndexInput) (*LeaderboardOutput, error) {
	view, err := s.services.Sessions.SelectBucket(ctx, input.ID, input.Body.Index)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &LeaderboardOutput{Body: view}, nil
}

func (s *Server) handleSelectGame(ctx context.Context, input *SelectGameInput) (*LeaderboardOutput, error) {
	view, err := s.services.Sessions.SelectGame(ctx, input.ID, input.GameID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &LeaderboardOutput{Body: view}, nil
}

func (s *Server) handleSelectRank(ctx context.Context, input *SelectIndexInput) (*LeaderboardOutput, error) {
	view, err := s.services.Sessions.SelectRank(ctx, input.ID, input.Body.Index)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &LeaderboardOutput{Body: view}, nil
}

func (s *Server) handleCycle(ctx context.Context, input *CycleInput) (*LeaderboardOutput, error) {
	view, err := s.services.Sessions.Cycle(ctx, input.ID, ranking.Direction(input.Body.Direction))
	if err != nil {
		return nil, toAPIError(err)
	}
	return &LeaderboardOutput{Body: view}, nil
}
