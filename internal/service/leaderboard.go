package service

import (
	"context"

	"github.com/ignicult/dashboard-server/internal/domain"
	domainerrors "github.com/ignicult/dashboard-server/internal/errors"
	"github.com/ignicult/dashboard-server/internal/ranking"
	"github.com/ignicult/dashboard-server/internal/sse"
	"github.com/ignicult/dashboard-server/internal/tween"
)

// LeaderboardEntry is one ranked record with its chart annotations.
type LeaderboardEntry struct {
	Position        int                `json:"position"`
	Percentile      float64            `json:"percentile"`
	IsMax           bool               `json:"is_max"`
	Selected        bool               `json:"selected"`
	AchievedByShort string             `json:"achieved_by_short"`
	Record          domain.ScoreRecord `json:"record"`
}

// ScorerCard summarises the active game's best valid score.
type ScorerCard struct {
	AchievedBy      string  `json:"achieved_by"`
	AchievedByShort string  `json:"achieved_by_short"`
	TopScore        float64 `json:"top_score"`
	ScorePerMinute  float64 `json:"score_per_minute"`
	MeanTime        float64 `json:"mean_time"`
	CultixReward    float64 `json:"cultix_reward"`
}

// GameSummary identifies the active bucket.
type GameSummary struct {
	GameID     int64                 `json:"game_id"`
	Title      string                `json:"title"`
	Statistics domain.GameStatistics `json:"statistics"`
}

// LeaderboardView is the leaderboard page for one session.
type LeaderboardView struct {
	State       domain.ViewState   `json:"state"`
	Version     string             `json:"version"`
	Game        *GameSummary       `json:"game,omitempty"`
	Selection   ranking.Selection  `json:"selection"`
	BucketCount int                `json:"bucket_count"`
	MaxScore    float64            `json:"max_score"`
	Entries     []LeaderboardEntry `json:"entries"`
	Selected    *LeaderboardEntry  `json:"selected,omitempty"`
	Card        *ScorerCard        `json:"card,omitempty"`
	Displays    []tween.Frame      `json:"displays"`
}

// Leaderboard returns the session's leaderboard and starts the scorer card
// and selected record animations when their values changed.
func (s *SessionService) Leaderboard(ctx context.Context, sessionID string) (*LeaderboardView, error) {
	sess, err := s.loadBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	return s.leaderboardView(sess), nil
}

// SelectBucket activates the bucket at index. Out-of-range indices are
// clamped.
func (s *SessionService) SelectBucket(ctx context.Context, sessionID string, index int) (*LeaderboardView, error) {
	sess, err := s.loadBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.selectionChanged(sess, sess.board.SelectBucket(index))
	return s.leaderboardView(sess), nil
}

// SelectGame activates the bucket of gameID.
func (s *SessionService) SelectGame(ctx context.Context, sessionID string, gameID int64) (*LeaderboardView, error) {
	sess, err := s.loadBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	sel, ok := sess.board.SelectGame(gameID)
	if !ok {
		return nil, domainerrors.NotFoundf("game %d not found", gameID)
	}
	s.selectionChanged(sess, sel)
	return s.leaderboardView(sess), nil
}

// SelectRank moves the cursor within the active bucket. Out-of-range indices
// are clamped.
func (s *SessionService) SelectRank(ctx context.Context, sessionID string, index int) (*LeaderboardView, error) {
	sess, err := s.loadBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.selectionChanged(sess, sess.board.SelectRank(index))
	return s.leaderboardView(sess), nil
}

// Cycle moves to the previous or next bucket, wrapping at both ends.
func (s *SessionService) Cycle(ctx context.Context, sessionID string, dir ranking.Direction) (*LeaderboardView, error) {
	if dir != ranking.Previous && dir != ranking.Next {
		return nil, domainerrors.Validationf("direction must be -1 or 1, got %d", dir)
	}
	sess, err := s.loadBoard(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	s.selectionChanged(sess, sess.board.Cycle(dir))
	return s.leaderboardView(sess), nil
}

// loadBoard resolves the session, brings its board up to the current
// snapshot and marks the leaderboard page as visited.
func (s *SessionService) loadBoard(ctx context.Context, sessionID string) (*Session, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}

	stopLoading := func() {}
	if s.snapshots.Current() == nil {
		stopLoading = startLoading(s.cfg.Tween.Scheduler, s.events, sess.ID)
	}
	snap, err := s.snapshots.Snapshot(ctx)
	stopLoading()
	if err != nil {
		return nil, err
	}

	sess.syncBoard(snap)
	s.visit(sess, domain.PageLeaderboard)
	return sess, nil
}

func (s *SessionService) selectionChanged(sess *Session, sel ranking.Selection) {
	var gameID int64
	if v := sess.board.View(); v.Bucket != nil {
		gameID = v.Bucket.GameID
	}
	s.events.Emit(sse.NewSelectionChangedEvent(sess.ID, sse.SelectionChangedEventData{
		GameID:      gameID,
		BucketIndex: sel.BucketIndex,
		RankIndex:   sel.RankIndex,
	}))
}

func (s *SessionService) leaderboardView(sess *Session) *LeaderboardView {
	bv := sess.board.View()

	sess.mu.Lock()
	version := sess.version
	sess.mu.Unlock()

	view := &LeaderboardView{
		State:       domain.ViewStateReady,
		Version:     version,
		Selection:   bv.Selection,
		BucketCount: bv.BucketCount,
		MaxScore:    bv.Leaderboard.MaxScore,
		Entries:     make([]LeaderboardEntry, len(bv.Leaderboard.Points)),
	}
	for i, p := range bv.Leaderboard.Points {
		view.Entries[i] = LeaderboardEntry{
			Position:        p.Position(),
			Percentile:      p.Percentile,
			IsMax:           p.IsMax,
			Selected:        i == bv.Selection.RankIndex,
			AchievedByShort: p.Record.ShortName(),
			Record:          p.Record,
		}
	}
	if bv.Selected != nil {
		view.Selected = &view.Entries[bv.Selected.Index]
		animateSelected(sess, bv.Selected.Record)
	}

	if bv.Bucket != nil {
		view.Game = &GameSummary{
			GameID:     bv.Bucket.GameID,
			Title:      bv.Bucket.Title,
			Statistics: bv.Bucket.Statistics,
		}
		view.Card = scorerCard(bv.Bucket)
		if view.Card != nil {
			s.animateCard(sess, view.Card)
		}
	}
	if bv.Bucket == nil || bv.Leaderboard.Empty() {
		view.State = domain.ViewStateEmpty
	}

	view.Displays = sess.animator.Frames()
	return view
}

// scorerCard returns nil when the game has no valid score yet.
func scorerCard(b *domain.GameBucket) *ScorerCard {
	top := b.TopValidScore
	if top == nil {
		return nil
	}
	return &ScorerCard{
		AchievedBy:      top.AchievedBy,
		AchievedByShort: top.ShortName(),
		TopScore:        top.Score,
		ScorePerMinute:  b.Statistics.ScorePerMinute.Mean,
		MeanTime:        b.Statistics.Time.Mean,
		CultixReward:    top.CultixReward,
	}
}

func (s *SessionService) animateCard(sess *Session, card *ScorerCard) {
	targets := map[string]float64{
		DisplayTopScore:       card.TopScore,
		DisplayScorePerMinute: card.ScorePerMinute,
		DisplayMeanTime:       card.MeanTime,
		DisplayCultixReward:   card.CultixReward,
	}
	for _, spec := range s.cfg.Tween.cardSpecs() {
		sess.animator.animate(spec, targets[spec.name])
	}
}

func animateSelected(sess *Session, rec domain.ScoreRecord) {
	targets := map[string]float64{
		DisplaySelectedScore:          rec.Score,
		DisplaySelectedTimeTaken:      rec.TimeTaken,
		DisplaySelectedScorePerMinute: rec.ScorePerMinute,
		DisplaySelectedCultixReward:   rec.CultixReward,
	}
	for _, spec := range selectedSpecs {
		sess.animator.animate(spec, targets[spec.name])
	}
}
