package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ignicult/dashboard-server/internal/search"
	"github.com/ignicult/dashboard-server/internal/service"
)

func (s *Server) registerGameRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getTopGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/top",
		Summary:     "Get top games",
		Description: "Lists games by completion rate, highest first. Passing a session moves it to the top games page.",
		Tags:        []string{"Games"},
	}, s.handleGetTopGames)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchGames",
		Method:      http.MethodGet,
		Path:        "/api/v1/games/search",
		Summary:     "Search games",
		Description: "Searches game titles and player names. An empty query lists every game.",
		Tags:        []string{"Games"},
	}, s.handleSearchGames)
}

// TopGamesInput optionally ties the request to a session.
type TopGamesInput struct {
	SessionID string `query:"session" doc:"Session to move to the top games page"`
}

// TopGamesOutput wraps the top games view for Huma.
type TopGamesOutput struct {
	Body *service.TopGamesView
}

// SearchInput contains parameters for searching games.
type SearchInput struct {
	Query  string `query:"q" maxLength:"200" doc:"Search query"`
	Limit  int    `query:"limit" minimum:"0" maximum:"50" doc:"Max results (default 10)"`
	Offset int    `query:"offset" minimum:"0" doc:"Pagination offset (default 0)"`
}

// SearchOutput wraps the search response for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleGetTopGames(ctx context.Context, input *TopGamesInput) (*TopGamesOutput, error) {
	var (
		view *service.TopGamesView
		err  error
	)
	if input.SessionID != "" {
		view, err = s.services.Sessions.TopGames(ctx, input.SessionID)
	} else {
		view, err = s.services.Snapshots.TopGames(ctx)
	}
	if err != nil {
		return nil, toAPIError(err)
	}
	return &TopGamesOutput{Body: view}, nil
}

func (s *Server) handleSearchGames(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	result, err := s.services.Snapshots.Search(ctx, search.SearchParams{
		Query:  strings.TrimSpace(input.Query),
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SearchOutput{Body: result}, nil
}
