// Package search provides full-text search over the games in the current
// snapshot using an in-memory Bleve index. The index is rebuilt wholesale on
// every snapshot refresh.
package search

import (
	"strconv"

	"github.com/ignicult/dashboard-server/internal/domain"
)

// GameDocument is the indexed form of a game.
//
// Player names are denormalized from the score list so that searching for a
// player finds the games they have scored in.
type GameDocument struct {
	ID             string   `json:"id"` // "game:<id>"
	GameID         int64    `json:"game_id"`
	Title          string   `json:"title"`
	Players        []string `json:"players,omitempty"`
	ScoreCount     int      `json:"score_count"`
	TopScore       float64  `json:"top_score"`
	CompletionRate float64  `json:"completion_rate"`
}

// DocumentID returns the index key for a game.
func DocumentID(gameID int64) string {
	return "game:" + strconv.FormatInt(gameID, 10)
}

// BuildDocuments merges score buckets and completion stats into one document
// per game. Games that only appear in topGames are indexed too.
func BuildDocuments(buckets []domain.GameBucket, topGames []domain.TopGame) []*GameDocument {
	docs := make([]*GameDocument, 0, len(buckets)+len(topGames))
	byID := make(map[int64]*GameDocument, len(buckets)+len(topGames))

	for i := range buckets {
		b := &buckets[i]
		doc := &GameDocument{
			ID:         DocumentID(b.GameID),
			GameID:     b.GameID,
			Title:      b.Title,
			ScoreCount: len(b.Scores),
			Players:    uniquePlayers(b.Scores),
		}
		if b.TopValidScore != nil {
			doc.TopScore = b.TopValidScore.Score
		}
		docs = append(docs, doc)
		byID[b.GameID] = doc
	}

	for _, g := range topGames {
		if doc, ok := byID[g.GameID]; ok {
			doc.CompletionRate = g.CompletionRate
			continue
		}
		doc := &GameDocument{
			ID:             DocumentID(g.GameID),
			GameID:         g.GameID,
			Title:          g.Title,
			CompletionRate: g.CompletionRate,
		}
		docs = append(docs, doc)
		byID[g.GameID] = doc
	}

	return docs
}

func uniquePlayers(scores []domain.ScoreRecord) []string {
	if len(scores) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(scores))
	players := make([]string, 0, len(scores))
	for _, s := range scores {
		if s.AchievedBy == "" {
			continue
		}
		if _, ok := seen[s.AchievedBy]; ok {
			continue
		}
		seen[s.AchievedBy] = struct{}{}
		players = append(players, s.AchievedBy)
	}
	return players
}

// toMap converts the document to a map with the lowercase field names the
// mapping expects.
func (d *GameDocument) toMap() map[string]any {
	m := map[string]any{
		"id":              d.ID,
		"game_id":         float64(d.GameID),
		"title":           d.Title,
		"score_count":     float64(d.ScoreCount),
		"top_score":       d.TopScore,
		"completion_rate": d.CompletionRate,
	}
	if len(d.Players) > 0 {
		m["players"] = d.Players
	}
	return m
}
