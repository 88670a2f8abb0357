package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"cache":  s.checkCache(),
		"search": s.checkSearchIndex(),
		"sse":    s.checkSSEManager(),
		"source": s.checkSource(),
	}

	overall := statusHealthy
	for _, c := range components {
		switch c.Status {
		case statusUnhealthy:
			overall = statusUnhealthy
		case statusDegraded:
			if overall == statusHealthy {
				overall = statusDegraded
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkCache verifies the snapshot cache is open.
func (s *Server) checkCache() ComponentHealth {
	start := time.Now()
	if err := s.cache.Ping(); err != nil {
		return ComponentHealth{Status: statusUnhealthy, Message: err.Error()}
	}
	return ComponentHealth{Status: statusHealthy, Latency: time.Since(start).String()}
}

// checkSearchIndex reports an empty index as degraded.
func (s *Server) checkSearchIndex() ComponentHealth {
	start := time.Now()
	count, err := s.index.DocumentCount()
	if err != nil {
		return ComponentHealth{Status: statusUnhealthy, Message: err.Error()}
	}
	latency := time.Since(start).String()
	if count == 0 {
		return ComponentHealth{Status: statusDegraded, Latency: latency, Message: "index is empty"}
	}
	return ComponentHealth{Status: statusHealthy, Latency: latency, Message: fmt.Sprintf("%d games indexed", count)}
}

func (s *Server) checkSSEManager() ComponentHealth {
	return ComponentHealth{
		Status:  statusHealthy,
		Message: fmt.Sprintf("%d clients connected", s.sseManager.ClientCount()),
	}
}

// checkSource reports whether a snapshot has been loaded yet.
func (s *Server) checkSource() ComponentHealth {
	snap := s.services.Snapshots.Current()
	if snap == nil {
		return ComponentHealth{Status: statusDegraded, Message: "no snapshot loaded yet"}
	}
	return ComponentHealth{
		Status:  statusHealthy,
		Message: fmt.Sprintf("snapshot %s fetched %s ago", snap.Version, time.Since(snap.FetchedAt).Round(time.Second)),
	}
}
