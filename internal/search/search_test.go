package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignicult/dashboard-server/internal/domain"
)

func setupTestIndex(t *testing.T) *GameIndex {
	t.Helper()

	idx, err := NewGameIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = idx.Close() })

	return idx
}

func testBuckets() []domain.GameBucket {
	return []domain.GameBucket{
		{
			GameID:        7,
			Title:         "Neon Drift",
			TopValidScore: &domain.ScoreRecord{Score: 4820},
			Scores: []domain.ScoreRecord{
				{Score: 4820, AchievedBy: "speedfreak"},
				{Score: 1200, AchievedBy: "player_one"},
				{Score: 900, AchievedBy: "speedfreak"},
			},
		},
		{
			GameID: 12,
			Title:  "Crypt Runner",
			Scores: []domain.ScoreRecord{{Score: 50, AchievedBy: "ghoul"}},
		},
	}
}

func testTopGames() []domain.TopGame {
	return []domain.TopGame{
		{GameID: 7, Title: "Neon Drift", CompletionRate: 0.87},
		{GameID: 3, Title: "Orbital Siege", CompletionRate: 0.6},
	}
}

func TestBuildDocuments_MergesSources(t *testing.T) {
	docs := BuildDocuments(testBuckets(), testTopGames())
	require.Len(t, docs, 3)

	neon := docs[0]
	assert.Equal(t, "game:7", neon.ID)
	assert.Equal(t, 3, neon.ScoreCount)
	assert.Equal(t, 4820.0, neon.TopScore)
	assert.Equal(t, 0.87, neon.CompletionRate)
	assert.Equal(t, []string{"speedfreak", "player_one"}, neon.Players)

	orbital := docs[2]
	assert.Equal(t, int64(3), orbital.GameID)
	assert.Zero(t, orbital.ScoreCount)
	assert.Nil(t, orbital.Players)
}

func TestGameIndex_EmptyIndex(t *testing.T) {
	idx := setupTestIndex(t)

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)

	res, err := idx.Search(context.Background(), SearchParams{Query: "neon"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}

func TestGameIndex_Search(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.Rebuild(BuildDocuments(testBuckets(), testTopGames())))

	tests := []struct {
		name      string
		query     string
		wantFirst int64
	}{
		{name: "exact title word", query: "crypt", wantFirst: 12},
		{name: "stemmed title", query: "drifting", wantFirst: 7},
		{name: "typo", query: "cript", wantFirst: 12},
		{name: "prefix", query: "orb", wantFirst: 3},
		{name: "player name", query: "ghoul", wantFirst: 12},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := idx.Search(context.Background(), SearchParams{Query: tt.query})
			require.NoError(t, err)
			require.NotEmpty(t, res.Hits)
			assert.Equal(t, tt.wantFirst, res.Hits[0].GameID)
		})
	}
}

func TestGameIndex_SearchReturnsStoredFields(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.Rebuild(BuildDocuments(testBuckets(), testTopGames())))

	res, err := idx.Search(context.Background(), SearchParams{Query: "neon"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Hits)

	hit := res.Hits[0]
	assert.Equal(t, "Neon Drift", hit.Title)
	assert.Equal(t, 3, hit.ScoreCount)
	assert.Equal(t, 4820.0, hit.TopScore)
	assert.Equal(t, 0.87, hit.CompletionRate)
}

func TestGameIndex_EmptyQueryListsAll(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.Rebuild(BuildDocuments(testBuckets(), testTopGames())))

	res, err := idx.Search(context.Background(), SearchParams{Query: "  ", Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, uint64(3), res.Total)
	assert.Len(t, res.Hits, 2)
}

func TestGameIndex_RebuildReplaces(t *testing.T) {
	idx := setupTestIndex(t)
	require.NoError(t, idx.Rebuild(BuildDocuments(testBuckets(), testTopGames())))
	require.NoError(t, idx.Rebuild(BuildDocuments(testBuckets()[1:], nil)))

	count, err := idx.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count)

	res, err := idx.Search(context.Background(), SearchParams{Query: "neon"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)
}
