package ranking

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignicult/dashboard-server/internal/domain"
)

func records(scores ...float64) []domain.ScoreRecord {
	out := make([]domain.ScoreRecord, len(scores))
	for i, s := range scores {
		out[i] = domain.ScoreRecord{Score: s, AchievedBy: string(rune('a' + i))}
	}
	return out
}

func TestRank_StableTiesAndMaxMarker(t *testing.T) {
	in := records(10, 30, 30, 5)

	ranked := Rank(in)
	require.Len(t, ranked, 4)
	assert.Equal(t, []float64{30, 30, 10, 5}, scoresOf(ranked))
	assert.Equal(t, "b", ranked[0].AchievedBy, "first 30 arrived at index 1")
	assert.Equal(t, "c", ranked[1].AchievedBy, "second 30 arrived at index 2")

	maxScore, ok := MaxScore(ranked)
	require.True(t, ok)
	assert.Equal(t, 30.0, maxScore)

	points := Annotate(ranked)
	assert.True(t, points[0].IsMax)
	for _, p := range points[1:] {
		assert.False(t, p.IsMax, "only the first maximum is flagged")
	}
}

func TestRank_Lengths(t *testing.T) {
	for _, n := range []int{0, 1, 5, 19, 20, 21, 50} {
		scores := make([]float64, n)
		for i := range scores {
			scores[i] = float64((i * 37) % 11)
		}

		ranked := Rank(records(scores...))
		assert.Len(t, ranked, min(n, MaxEntries), "n=%d", n)
		for i := 1; i < len(ranked); i++ {
			assert.GreaterOrEqual(t, ranked[i-1].Score, ranked[i].Score)
		}
	}
}

func TestRank_KeepsHighestWhenTruncating(t *testing.T) {
	scores := make([]float64, 30)
	for i := range scores {
		scores[i] = float64(i)
	}

	ranked := Rank(records(scores...))
	require.Len(t, ranked, MaxEntries)
	assert.Equal(t, 29.0, ranked[0].Score)
	assert.Equal(t, 10.0, ranked[MaxEntries-1].Score)
}

func TestRank_Idempotent(t *testing.T) {
	in := records(3, 9, 1, 9, 4, 4, 7)

	once := Rank(in)
	assert.Equal(t, once, Rank(once))
}

func TestRank_DoesNotMutateInput(t *testing.T) {
	in := records(1, 2, 3)
	_ = Rank(in)
	assert.Equal(t, []float64{1, 2, 3}, scoresOf(in))
}

func TestRank_EmptyInput(t *testing.T) {
	ranked := Rank(nil)
	assert.NotNil(t, ranked)
	assert.Empty(t, ranked)

	_, ok := MaxScore(ranked)
	assert.False(t, ok)
	assert.Empty(t, Annotate(ranked))
}

func TestPercentileOf(t *testing.T) {
	tests := []struct {
		name  string
		index int
		n     int
		want  float64
	}{
		{name: "single entry", index: 0, n: 1, want: 100},
		{name: "first of two", index: 0, n: 2, want: 100},
		{name: "last of two", index: 1, n: 2, want: 0},
		{name: "middle of five", index: 2, n: 5, want: 50},
		{name: "first of twenty", index: 0, n: 20, want: 100},
		{name: "last of twenty", index: 19, n: 20, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, PercentileOf(tt.index, tt.n), 1e-9)
		})
	}

	assert.True(t, math.IsNaN(PercentileOf(0, 0)))
}

func TestPercentileOf_NonIncreasing(t *testing.T) {
	for n := 2; n <= MaxEntries; n++ {
		for i := 1; i < n; i++ {
			assert.LessOrEqual(t, PercentileOf(i, n), PercentileOf(i-1, n))
		}
	}
}

func TestNewView(t *testing.T) {
	v := NewView(records(4, 8, 6))

	assert.Equal(t, 8.0, v.MaxScore)
	require.Len(t, v.Points, 3)
	assert.Equal(t, 100.0, v.Points[0].Percentile)
	assert.Equal(t, 50.0, v.Points[1].Percentile)
	assert.Equal(t, 0.0, v.Points[2].Percentile)
	assert.Equal(t, 3, v.Points[2].Position())
	assert.False(t, v.Empty())
	assert.True(t, NewView(nil).Empty())
}

func scoresOf(recs []domain.ScoreRecord) []float64 {
	out := make([]float64, len(recs))
	for i, r := range recs {
		out[i] = r.Score
	}
	return out
}
