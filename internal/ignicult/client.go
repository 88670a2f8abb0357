// Package ignicult is a rate-limited client for the Ignicult activity API.
package ignicult

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ignicult/dashboard-server/internal/domain"
	"github.com/ignicult/dashboard-server/internal/ratelimit"
)

const (
	DefaultBaseURL = "https://ignicult.com/api"

	// Outbound rate limit shared by every dashboard endpoint.
	defaultRPS   = 2.0
	defaultBurst = 4

	defaultTimeout = 15 * time.Second

	limiterKey = "ignicult"
	userAgent  = "IgnicultDashboard/1.0"
)

// Config controls the client.
type Config struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// Client fetches dashboard data from the Ignicult API.
type Client struct {
	http    *http.Client
	baseURL string
	limiter *ratelimit.KeyedRateLimiter
	decoder *Decoder
	logger  *slog.Logger
}

// New creates a new Ignicult client. Zero config fields take defaults.
func New(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = defaultRPS
	}
	if cfg.Burst <= 0 {
		cfg.Burst = defaultBurst
	}

	return &Client{
		http: &http.Client{
			Timeout: cfg.Timeout,
		},
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		limiter: ratelimit.New(cfg.RequestsPerSecond, cfg.Burst),
		decoder: NewDecoder(),
		logger:  logger,
	}
}

// Close releases resources held by the client.
func (c *Client) Close() {
	c.limiter.Stop()
}

// TopScores fetches every game bucket with its full score list.
func (c *Client) TopScores(ctx context.Context) ([]domain.GameBucket, error) {
	const op, path = "topScores", "/activity/top-scores"

	body, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, wrapError(op, path, statusOf(err), err)
	}
	buckets, err := c.decoder.TopScores(body)
	if err != nil {
		return nil, wrapError(op, path, 0, err)
	}
	return buckets, nil
}

// TopGames fetches games ranked by completion rate.
func (c *Client) TopGames(ctx context.Context) ([]domain.TopGame, error) {
	const op, path = "topGames", "/activity/top-games"

	body, err := c.doRequest(ctx, path)
	if err != nil {
		return nil, wrapError(op, path, statusOf(err), err)
	}
	games, err := c.decoder.TopGames(body)
	if err != nil {
		return nil, wrapError(op, path, 0, err)
	}
	return games, nil
}

// MonthlyActivity fetches aggregate activity for one month.
func (c *Client) MonthlyActivity(ctx context.Context, period domain.Period) (domain.MonthlyActivity, error) {
	const op = "monthlyActivity"
	path := "/activity/totalMonthlyActivity/" + strconv.Itoa(period.Month) + "/" + strconv.Itoa(period.Year)

	body, err := c.doRequest(ctx, path)
	if err != nil {
		return domain.MonthlyActivity{}, wrapError(op, path, statusOf(err), err)
	}
	activity, err := c.decoder.MonthlyActivity(body, period)
	if err != nil {
		return domain.MonthlyActivity{}, wrapError(op, path, 0, err)
	}
	return activity, nil
}

// WalletCount fetches the number of connected web3 wallets.
func (c *Client) WalletCount(ctx context.Context) (domain.WalletCount, error) {
	const op, path = "walletCount", "/web3-wallets/count"

	body, err := c.doRequest(ctx, path)
	if err != nil {
		return domain.WalletCount{}, wrapError(op, path, statusOf(err), err)
	}
	count, err := c.decoder.WalletCount(body)
	if err != nil {
		return domain.WalletCount{}, wrapError(op, path, 0, err)
	}
	return count, nil
}

// statusError records the HTTP status alongside a sentinel.
type statusError struct {
	status int
	err    error
}

func (e *statusError) Error() string { return e.err.Error() }
func (e *statusError) Unwrap() error { return e.err }

func statusOf(err error) int {
	var se *statusError
	if errors.As(err, &se) {
		return se.status
	}
	return 0
}

// doRequest executes a GET with rate limiting and maps the status code.
func (c *Client) doRequest(ctx context.Context, path string) ([]byte, error) {
	if err := c.limiter.Wait(ctx, limiterKey); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	c.logger.Debug("ignicult request", "path", path)

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusNotFound:
		return nil, &statusError{status: resp.StatusCode, err: ErrNotFound}
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, &statusError{status: resp.StatusCode, err: ErrRateLimited}
	case resp.StatusCode == http.StatusBadRequest:
		return nil, &statusError{status: resp.StatusCode, err: ErrBadRequest}
	case resp.StatusCode >= 500:
		return nil, &statusError{status: resp.StatusCode, err: ErrServer}
	default:
		return nil, &statusError{
			status: resp.StatusCode,
			err:    fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body)),
		}
	}
}
