package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/go-chi/chi/v5"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/service"
	"github.com/ignicult/dashboard-server/internal/tween"
)

func (s *Server) registerSessionRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/sessions",
		Summary:       "Create session",
		Description:   "Starts a dashboard session on the leaderboard page",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateSession)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteSession",
		Method:        http.MethodDelete,
		Path:          "/api/v1/sessions/{id}",
		Summary:       "Delete session",
		Description:   "Stops the session's animations and closes its event streams",
		Tags:          []string{"Sessions"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "navigateSession",
		Method:      http.MethodPut,
		Path:        "/api/v1/sessions/{id}/page",
		Summary:     "Change page",
		Description: "Moves the session to another dashboard page",
		Tags:        []string{"Sessions"},
	}, s.handleNavigate)

	huma.Register(s.api, huma.Operation{
		OperationID: "getDisplays",
		Method:      http.MethodGet,
		Path:        "/api/v1/sessions/{id}/displays",
		Summary:     "Get displays",
		Description: "Returns the current formatted value of every animated display in the session",
		Tags:        []string{"Sessions"},
	}, s.handleGetDisplays)
}

// === DTOs ===

// SessionPathInput identifies a session.
type SessionPathInput struct {
	ID string `path:"id" doc:"Session ID"`
}

// SessionOutput wraps a session description.
type SessionOutput struct {
	Body service.SessionInfo
}

// NavigateRequest is the body of a page change.
type NavigateRequest struct {
	Page string `json:"page" enum:"leaderboard,top-games,monthly-activity,wallets" doc:"Target page"`
}

// NavigateInput contains parameters for changing page.
type NavigateInput struct {
	ID   string `path:"id" doc:"Session ID"`
	Body NavigateRequest
}

// DisplaysResponse lists display frames.
type DisplaysResponse struct {
	Displays []tween.Frame `json:"displays" doc:"Current display values"`
}

// DisplaysOutput wraps the displays response for Huma.
type DisplaysOutput struct {
	Body DisplaysResponse
}

// === Handlers ===

func (s *Server) handleCreateSession(ctx context.Context, _ *struct{}) (*SessionOutput, error) {
	sess, err := s.services.Sessions.Create(ctx)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SessionOutput{Body: sess.Info()}, nil
}

func (s *Server) handleDeleteSession(_ context.Context, input *SessionPathInput) (*struct{}, error) {
	if err := s.services.Sessions.Delete(input.ID); err != nil {
		return nil, toAPIError(err)
	}
	return nil, nil
}

func (s *Server) handleNavigate(_ context.Context, input *NavigateInput) (*SessionOutput, error) {
	info, err := s.services.Sessions.Navigate(input.ID, domain.Page(input.Body.Page))
	if err != nil {
		return nil, toAPIError(err)
	}
	return &SessionOutput{Body: info}, nil
}

func (s *Server) handleGetDisplays(_ context.Context, input *SessionPathInput) (*DisplaysOutput, error) {
	frames, err := s.services.Sessions.Displays(input.ID)
	if err != nil {
		return nil, toAPIError(err)
	}
	return &DisplaysOutput{Body: DisplaysResponse{Displays: frames}}, nil
}

// handleSessionEvents streams the session's events. Unknown sessions get a
// 404 before the stream is opened.
func (s *Server) handleSessionEvents(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "id")
	if _, err := s.services.Sessions.Get(sessionID); err != nil {
		if apiErr := fromDomainError(err); apiErr != nil {
			writeError(w, apiErr, s.logger)
			return
		}
		writeError(w, &APIError{status: http.StatusInternalServerError, Code: statusToCode(http.StatusInternalServerError), Message: "internal server error"}, s.logger)
		return
	}
	s.sseHandler.Stream(w, r, sessionID)
}
