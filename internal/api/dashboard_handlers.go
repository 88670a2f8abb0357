package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/service"
)

func (s *Server) registerDashboardRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getMonthlyActivity",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/activity",
		Summary:     "Get monthly activity",
		Description: "Returns platform activity for a month between August 2024 and the current month",
		Tags:        []string{"Dashboard"},
	}, s.handleGetActivity)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWallets",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/wallets",
		Summary:     "Get wallets connected",
		Description: "Returns the number of connected web3 wallets",
		Tags:        []string{"Dashboard"},
	}, s.handleGetWallets)
}

// ActivityInput selects a month. Omitting both keeps the session's period.
type ActivityInput struct {
	ID    string `path:"id" doc:"Session ID"`
	Month int    `query:"month" doc:"Month 1-12"`
	Year  int    `query:"year" doc:"Four-digit year"`
}

// ActivityOutput wraps the activity view for Huma.
type ActivityOutput struct {
	Body *service.ActivityView
}

// WalletsOutput wraps the wallets view for Huma.
type WalletsOutput struct {
	Body *service.WalletsView
}

func (s *Server) handleGetActivity(ctx context.Context, input *ActivityInput) (*ActivityOutput, error) {
	period := domain.Period{Month: input.Month, Year: input.Year}
	view, err := s.services.Sessions.Activity(ctx, input.ID, period)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &ActivityOutput{Body: view}, nil
}

func (s *Server) handleGetWallets(ctx context.Context, input *SessionPathInput) (*WalletsOutput, error) {
	view, err := s.services.Sessions.Wallets(ctx, input.ID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &WalletsOutput{Body: view}, nil
}
