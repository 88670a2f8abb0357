package service

import (
	"context"

	"github.com/ignicult/dashboard-server/internal/domain"
	domainerrors "github.com/ignicult/dashboard-server/internal/errors"
	"github.com/ignicult/dashboard-server/internal/tween"
)

// ActivityView is the monthly activity page.
type ActivityView struct {
	State    domain.ViewState       `json:"state"`
	Period   domain.Period          `json:"period"`
	Activity domain.MonthlyActivity `json:"activity"`
	Displays []tween.Frame          `json:"displays"`
}

// Activity returns the activity for period and counts its headline numbers
// up from zero. A zero period means the one the session last viewed.
func (s *SessionService) Activity(ctx context.Context, sessionID string, period domain.Period) (*ActivityView, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	if period == (domain.Period{}) {
		period = sess.Period()
	}
	if !period.InRange(s.now()) {
		return nil, domainerrors.ValidationWithDetails(
			"period out of range",
			map[string]any{
				"period": period.String(),
				"first":  domain.FirstActivityPeriod.String(),
				"last":   domain.PeriodOf(s.now()).String(),
			},
		)
	}

	s.visit(sess, domain.PageMonthlyActivity)

	stopLoading := startLoading(s.cfg.Tween.Scheduler, s.events, sess.ID)
	activity, err := s.snapshots.MonthlyActivity(ctx, period)
	stopLoading()
	if err != nil {
		return nil, err
	}

	sess.mu.Lock()
	sess.period = period
	sess.mu.Unlock()

	view := &ActivityView{
		State:    domain.ViewStateReady,
		Period:   period,
		Activity: activity,
	}
	if activity.IsEmpty() {
		view.State = domain.ViewStateEmpty
	}

	targets := map[string]float64{
		DisplayUniquePlayers:       activity.UniquePlayers,
		DisplayNumberOfActivities:  activity.NumberOfActivities,
		DisplayActivitiesPerPlayer: activity.NumberOfActivitiesPerPlayer,
	}
	for _, spec := range activitySpecs {
		sess.animator.animate(spec, targets[spec.name])
	}
	view.Displays = framesOf(sess.animator, activitySpecs)
	return view, nil
}

// WalletsView is the wallets connected page.
type WalletsView struct {
	State   domain.ViewState `json:"state"`
	Version string           `json:"version"`
	Count   int64            `json:"count"`
	Display tween.Frame      `json:"display"`
}

// Wallets returns the connected wallet count and counts it up from zero.
func (s *SessionService) Wallets(ctx context.Context, sessionID string) (*WalletsView, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	snap, err := s.snapshots.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	s.visit(sess, domain.PageWallets)

	view := &WalletsView{
		State:   domain.ViewStateReady,
		Version: snap.Version,
		Count:   snap.Wallets.Count,
	}
	if snap.Wallets.Count == 0 {
		view.State = domain.ViewStateEmpty
	}

	sess.animator.animate(walletSpec, float64(snap.Wallets.Count))
	view.Display, _ = sess.animator.Frame(walletSpec.name)
	return view, nil
}

// TopGames returns the top games view and moves the session to that page.
func (s *SessionService) TopGames(ctx context.Context, sessionID string) (*TopGamesView, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	view, err := s.snapshots.TopGames(ctx)
	if err != nil {
		return nil, err
	}
	s.visit(sess, domain.PageTopGames)
	return view, nil
}

// Displays returns the current value of every display the session has.
func (s *SessionService) Displays(sessionID string) ([]tween.Frame, error) {
	sess, err := s.Get(sessionID)
	if err != nil {
		return nil, err
	}
	return sess.animator.Frames(), nil
}

func framesOf(a *Animator, specs []displaySpec) []tween.Frame {
	frames := make([]tween.Frame, 0, len(specs))
	for _, spec := range specs {
		if f, ok := a.Frame(spec.name); ok {
			frames = append(frames, f)
		}
	}
	return frames
}
