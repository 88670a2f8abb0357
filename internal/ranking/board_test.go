package ranking

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignicult/dashboard-server/internal/domain"
)

func buckets(sizes ...int) []domain.GameBucket {
	out := make([]domain.GameBucket, len(sizes))
	for i, size := range sizes {
		scores := make([]float64, size)
		for j := range scores {
			scores[j] = float64(j + 1)
		}
		out[i] = domain.GameBucket{
			GameID: int64(100 + i),
			Title:  "game",
			Scores: records(scores...),
		}
	}
	return out
}

func TestBoard_SelectBucketResetsRank(t *testing.T) {
	b := NewBoard(buckets(10, 10))

	b.SelectRank(5)
	require.Equal(t, 5, b.Selection().RankIndex)

	sel := b.SelectBucket(1)
	assert.Equal(t, Selection{BucketIndex: 1, RankIndex: 0}, sel)

	// Reselecting the same bucket also resets.
	b.SelectRank(3)
	assert.Equal(t, 0, b.SelectBucket(1).RankIndex)
}

func TestBoard_CycleWraps(t *testing.T) {
	b := NewBoard(buckets(1, 1, 1))

	b.SelectBucket(2)
	assert.Equal(t, 0, b.Cycle(Next).BucketIndex)
	assert.Equal(t, 2, b.Cycle(Previous).BucketIndex)
	assert.Equal(t, 1, b.Cycle(Previous).BucketIndex)
	assert.Equal(t, 2, b.Cycle(Next).BucketIndex)
}

func TestBoard_CycleResetsRank(t *testing.T) {
	b := NewBoard(buckets(5, 5))

	b.SelectRank(4)
	assert.Equal(t, Selection{BucketIndex: 1}, b.Cycle(Next))
}

func TestBoard_ClampsIndices(t *testing.T) {
	b := NewBoard(buckets(3, 8))

	assert.Equal(t, 1, b.SelectBucket(7).BucketIndex)
	assert.Equal(t, 0, b.SelectBucket(-2).BucketIndex)

	assert.Equal(t, 2, b.SelectRank(99).RankIndex)
	assert.Equal(t, 0, b.SelectRank(-1).RankIndex)
}

func TestBoard_RankClampedToLeaderboardLength(t *testing.T) {
	b := NewBoard(buckets(40))

	assert.Equal(t, MaxEntries-1, b.SelectRank(35).RankIndex)
}

func TestBoard_View(t *testing.T) {
	b := NewBoard(buckets(4, 2))
	b.SelectRank(2)

	v := b.View()
	require.NotNil(t, v.Bucket)
	assert.Equal(t, int64(100), v.Bucket.GameID)
	assert.Equal(t, 2, v.BucketCount)
	require.NotNil(t, v.Selected)
	assert.Equal(t, 2, v.Selected.Index)
	assert.Equal(t, v.Leaderboard.Ranked[2], v.Selected.Record)
	assert.Equal(t, 4.0, v.Leaderboard.MaxScore)
}

func TestBoard_EmptyBucketHasNoSelection(t *testing.T) {
	b := NewBoard(buckets(0, 3))

	v := b.View()
	require.NotNil(t, v.Bucket)
	assert.Nil(t, v.Selected)
	assert.Equal(t, 0, b.SelectRank(4).RankIndex)
}

func TestBoard_NoBuckets(t *testing.T) {
	b := NewBoard(nil)

	assert.Equal(t, Selection{}, b.Cycle(Next))
	assert.Equal(t, Selection{}, b.SelectBucket(3))
	assert.Equal(t, Selection{}, b.SelectRank(3))

	v := b.View()
	assert.Nil(t, v.Bucket)
	assert.Nil(t, v.Selected)
	assert.Equal(t, 0, v.BucketCount)
	assert.NotNil(t, v.Leaderboard.Points)
}

func TestBoard_SelectGame(t *testing.T) {
	b := NewBoard(buckets(3, 3, 3))
	b.SelectRank(2)

	sel, ok := b.SelectGame(102)
	require.True(t, ok)
	assert.Equal(t, Selection{BucketIndex: 2}, sel)

	sel, ok = b.SelectGame(999)
	assert.False(t, ok)
	assert.Equal(t, Selection{BucketIndex: 2}, sel)
}

func TestBoard_ReplaceKeepsActiveGame(t *testing.T) {
	b := NewBoard(buckets(5, 5, 5))
	b.SelectBucket(1)
	b.SelectRank(4)

	refreshed := buckets(2, 5, 2)
	refreshed[0], refreshed[1] = refreshed[1], refreshed[0] // game 101 moves to index 0

	sel := b.Replace(refreshed)
	assert.Equal(t, 0, sel.BucketIndex)
	assert.Equal(t, 4, sel.RankIndex)

	// Shrinking the active bucket clamps the rank.
	shrunk := buckets(1)
	shrunk[0].GameID = 101
	sel = b.Replace(shrunk)
	assert.Equal(t, Selection{}, sel)
}

func TestBoard_ReplaceDropsMissingGame(t *testing.T) {
	b := NewBoard(buckets(5, 5))
	b.SelectBucket(1)
	b.SelectRank(3)

	refreshed := buckets(5)
	refreshed[0].GameID = 555

	assert.Equal(t, Selection{}, b.Replace(refreshed))
}

func TestBoard_ConcurrentAccess(t *testing.T) {
	b := NewBoard(buckets(5, 5, 5, 5))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 100 {
				switch (i + j) % 4 {
				case 0:
					b.Cycle(Next)
				case 1:
					b.SelectRank(j)
				case 2:
					b.SelectBucket(j)
				default:
					v := b.View()
					if v.Selected != nil {
						assert.Less(t, v.Selected.Index, len(v.Leaderboard.Ranked))
					}
				}
			}
		}()
	}
	wg.Wait()

	sel := b.Selection()
	assert.GreaterOrEqual(t, sel.BucketIndex, 0)
	assert.Less(t, sel.BucketIndex, 4)
}
