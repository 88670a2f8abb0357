// Package ranking derives display-ready leaderboards from raw score records
// and keeps a per-viewer selection cursor valid across bucket changes.
package ranking

import (
	"cmp"
	"math"
	"slices"

	"github.com/ignicult/dashboard-server/internal/domain"
)

// MaxEntries is the leaderboard length.
const MaxEntries = 20

// Rank returns the top MaxEntries records sorted by score descending. Ties
// keep their arrival order. The input is not modified.
func Rank(scores []domain.ScoreRecord) []domain.ScoreRecord {
	if len(scores) == 0 {
		return []domain.ScoreRecord{}
	}

	ranked := slices.Clone(scores)
	slices.SortStableFunc(ranked, func(a, b domain.ScoreRecord) int {
		return cmp.Compare(b.Score, a.Score)
	})

	if len(ranked) > MaxEntries {
		ranked = slices.Clip(ranked[:MaxEntries])
	}
	return ranked
}

// PercentileOf maps a rank index onto a reversed 100..0 axis: index 0 is 100
// and the last index is 0. A single entry is 100. n must be positive; NaN is
// returned otherwise.
func PercentileOf(index, n int) float64 {
	switch {
	case n <= 0:
		return math.NaN()
	case n == 1:
		return 100
	default:
		return 100 - float64(index)/float64(n-1)*100
	}
}

// MaxScore returns the score of the first ranked record.
func MaxScore(ranked []domain.ScoreRecord) (float64, bool) {
	if len(ranked) == 0 {
		return 0, false
	}
	return ranked[0].Score, true
}

// Point is a ranked record annotated for charting.
type Point struct {
	Index      int                `json:"index"`
	Percentile float64            `json:"percentile"`
	IsMax      bool               `json:"is_max"`
	Record     domain.ScoreRecord `json:"record"`
}

// Position returns the 1-based leaderboard position.
func (p Point) Position() int {
	return p.Index + 1
}

// Annotate attaches percentiles and the max marker to an already ranked
// slice. Only the first record equal to the max score is flagged, even when
// others tie with it.
func Annotate(ranked []domain.ScoreRecord) []Point {
	points := make([]Point, len(ranked))
	maxScore, ok := MaxScore(ranked)
	flagged := false

	for i, rec := range ranked {
		isMax := ok && !flagged && rec.Score == maxScore
		if isMax {
			flagged = true
		}
		points[i] = Point{
			Index:      i,
			Percentile: PercentileOf(i, len(ranked)),
			IsMax:      isMax,
			Record:     rec,
		}
	}
	return points
}

// View is the derived leaderboard for one bucket.
type View struct {
	Ranked   []domain.ScoreRecord `json:"ranked"`
	MaxScore float64              `json:"max_score"`
	Points   []Point              `json:"points"`
}

// NewView ranks scores and annotates the result.
func NewView(scores []domain.ScoreRecord) View {
	ranked := Rank(scores)
	maxScore, _ := MaxScore(ranked)
	return View{
		Ranked:   ranked,
		MaxScore: maxScore,
		Points:   Annotate(ranked),
	}
}

// Empty reports whether there is nothing to select.
func (v View) Empty() bool {
	return len(v.Ranked) == 0
}
