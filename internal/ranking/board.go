package ranking

import (
	"sync"

	"github.com/ignicult/dashboard-server/internal/domain"
)

// Direction is a step through the bucket list.
type Direction int

const (
	Previous Direction = -1
	Next     Direction = 1
)

// Selection is the active bucket and the selected rank within it.
type Selection struct {
	BucketIndex int `json:"bucket_index"`
	RankIndex   int `json:"rank_index"`
}

// Board holds one viewer's buckets and selection. Indices passed to the
// select methods are clamped into range; none of them fail.
type Board struct {
	mu      sync.RWMutex
	buckets []domain.GameBucket
	views   []View
	sel     Selection
}

// NewBoard creates a board with the first bucket and its top record selected.
func NewBoard(buckets []domain.GameBucket) *Board {
	b := &Board{}
	b.load(buckets)
	return b
}

// BoardView is a consistent read of a board.
type BoardView struct {
	Bucket      *domain.GameBucket `json:"bucket,omitempty"`
	Leaderboard View               `json:"leaderboard"`
	Selection   Selection          `json:"selection"`
	BucketCount int                `json:"bucket_count"`

	// Selected is nil when the active bucket has no scores.
	Selected *Point `json:"selected,omitempty"`
}

// View returns the active bucket's leaderboard together with the selection.
func (b *Board) View() BoardView {
	b.mu.RLock()
	defer b.mu.RUnlock()

	out := BoardView{
		Selection:   b.sel,
		BucketCount: len(b.buckets),
		Leaderboard: View{Ranked: []domain.ScoreRecord{}, Points: []Point{}},
	}
	if len(b.buckets) == 0 {
		return out
	}

	bucket := b.buckets[b.sel.BucketIndex]
	out.Bucket = &bucket
	out.Leaderboard = b.views[b.sel.BucketIndex]
	if !out.Leaderboard.Empty() {
		p := out.Leaderboard.Points[b.sel.RankIndex]
		out.Selected = &p
	}
	return out
}

// Selection returns the current cursor.
func (b *Board) Selection() Selection {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.sel
}

// Len returns the number of buckets.
func (b *Board) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.buckets)
}

// SelectBucket activates bucket i and always selects its top record.
func (b *Board) SelectBucket(i int) Selection {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.selectBucketLocked(i)
	return b.sel
}

// SelectGame activates the bucket for gameID. It reports false and leaves
// the selection untouched when no bucket matches.
func (b *Board) SelectGame(gameID int64) (Selection, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i := range b.buckets {
		if b.buckets[i].GameID == gameID {
			b.selectBucketLocked(i)
			return b.sel, true
		}
	}
	return b.sel, false
}

// SelectRank moves the cursor within the active bucket.
func (b *Board) SelectRank(i int) Selection {
	b.mu.Lock()
	defer b.mu.Unlock()

	if len(b.buckets) == 0 {
		return b.sel
	}
	b.sel.RankIndex = clamp(i, len(b.views[b.sel.BucketIndex].Ranked))
	return b.sel
}

// Cycle moves to the neighbouring bucket, wrapping at both ends.
func (b *Board) Cycle(dir Direction) Selection {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.buckets)
	if n == 0 {
		return b.sel
	}
	next := ((b.sel.BucketIndex+int(dir))%n + n) % n
	b.selectBucketLocked(next)
	return b.sel
}

// Replace swaps in a fresh set of buckets. If the active game is still
// present it stays active and the rank is clamped; otherwise the first
// bucket is selected.
func (b *Board) Replace(buckets []domain.GameBucket) Selection {
	b.mu.Lock()
	defer b.mu.Unlock()

	var activeGame int64
	hadActive := len(b.buckets) > 0
	if hadActive {
		activeGame = b.buckets[b.sel.BucketIndex].GameID
	}
	prevRank := b.sel.RankIndex

	b.loadLocked(buckets)

	if hadActive {
		for i := range b.buckets {
			if b.buckets[i].GameID == activeGame {
				b.sel.BucketIndex = i
				b.sel.RankIndex = clamp(prevRank, len(b.views[i].Ranked))
				break
			}
		}
	}
	return b.sel
}

func (b *Board) load(buckets []domain.GameBucket) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.loadLocked(buckets)
}

func (b *Board) loadLocked(buckets []domain.GameBucket) {
	b.buckets = buckets
	b.views = make([]View, len(buckets))
	for i := range buckets {
		b.views[i] = NewView(buckets[i].Scores)
	}
	b.sel = Selection{}
}

func (b *Board) selectBucketLocked(i int) {
	b.sel.BucketIndex = clamp(i, len(b.buckets))
	b.sel.RankIndex = 0
}

// clamp returns i limited to [0, n-1], or 0 when n is 0.
func clamp(i, n int) int {
	switch {
	case n <= 0 || i < 0:
		return 0
	case i >= n:
		return n - 1
	default:
		return i
	}
}
