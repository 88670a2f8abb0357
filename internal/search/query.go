package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

const (
	DefaultLimit = 10
	MaxLimit     = 50
)

// SearchParams configures a search query.
type SearchParams struct {
	Query  string
	Limit  int
	Offset int
}

// SearchResult represents the search results.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// SearchHit represents a single matching game.
type SearchHit struct {
	GameID         int64   `json:"game_id"`
	Title          string  `json:"title"`
	Score          float64 `json:"score"`
	ScoreCount     int     `json:"score_count"`
	TopScore       float64 `json:"top_score"`
	CompletionRate float64 `json:"completion_rate"`
	Highlight      string  `json:"highlight,omitempty"`
}

// Search executes a search query. An empty query matches every game.
func (g *GameIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}
	if params.Limit > MaxLimit {
		params.Limit = MaxLimit
	}
	params.Query = strings.TrimSpace(params.Query)

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params.Query), params.Limit, max(params.Offset, 0), false)
	req.Fields = []string{"game_id", "title", "score_count", "top_score", "completion_rate"}
	if params.Query != "" {
		req.Highlight = bleve.NewHighlight()
		req.Highlight.AddField("title")
		req.SortBy([]string{"-_score", "title"})
	} else {
		req.SortBy([]string{"title"})
	}

	g.mu.RLock()
	res, err := g.index.SearchInContext(ctx, req)
	g.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  res.Total,
		TookMs: res.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(res.Hits)),
	}

	for _, hit := range res.Hits {
		h := SearchHit{Score: hit.Score}
		if v, ok := hit.Fields["game_id"].(float64); ok {
			h.GameID = int64(v)
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["score_count"].(float64); ok {
			h.ScoreCount = int(v)
		}
		if v, ok := hit.Fields["top_score"].(float64); ok {
			h.TopScore = v
		}
		if v, ok := hit.Fields["completion_rate"].(float64); ok {
			h.CompletionRate = v
		}
		if fragments := hit.Fragments["title"]; len(fragments) > 0 {
			h.Highlight = fragments[0]
		}
		result.Hits = append(result.Hits, h)
	}

	return result, nil
}

// buildSearchQuery matches titles (exact, fuzzy and prefix) and player names.
func buildSearchQuery(q string) query.Query {
	if q == "" {
		return bleve.NewMatchAllQuery()
	}

	titleMatch := bleve.NewMatchQuery(q)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	fuzzy := bleve.NewFuzzyQuery(strings.ToLower(q))
	fuzzy.SetFuzziness(1)
	fuzzy.SetField("title")
	fuzzy.SetBoost(0.8)

	playerMatch := bleve.NewMatchQuery(q)
	playerMatch.SetField("players")
	playerMatch.SetBoost(1.0)

	queries := []query.Query{titleMatch, fuzzy, playerMatch}

	// Prefix query for autocomplete (minimum 2 chars)
	if len(q) >= 2 {
		prefix := bleve.NewPrefixQuery(strings.ToLower(q))
		prefix.SetField("title")
		prefix.SetBoost(0.5)
		queries = append(queries, prefix)
	}

	return bleve.NewDisjunctionQuery(queries...)
}
