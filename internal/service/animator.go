package service

import (
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ignicult/dashboard-server/internal/sse"
	"github.com/ignicult/dashboard-server/internal/tween"
)

// Display names.
const (
	DisplayTopScore       = "top_score"
	DisplayScorePerMinute = "score_per_minute"
	DisplayMeanTime       = "mean_time"
	DisplayCultixReward   = "cultix_reward"

	DisplaySelectedScore          = "selected_score"
	DisplaySelectedTimeTaken      = "selected_time_taken"
	DisplaySelectedScorePerMinute = "selected_score_per_minute"
	DisplaySelectedCultixReward   = "selected_cultix_reward"

	DisplayUniquePlayers       = "unique_players"
	DisplayNumberOfActivities  = "number_of_activities"
	DisplayActivitiesPerPlayer = "activities_per_player"

	DisplayWalletsConnected = "wallets_connected"
)

// DefaultTweenDuration is the length of every dashboard animation.
const DefaultTweenDuration = 2 * time.Second

// TweenConfig controls how the top scorer card animates. Activity and wallet
// counters always count up from zero in step mode, and the selected record
// always springs from its current value.
type TweenConfig struct {
	Duration  time.Duration
	Mode      tween.Mode
	Policy    tween.StartPolicy
	Spring    tween.Spring
	Scheduler tween.Scheduler
}

func (c TweenConfig) withDefaults() TweenConfig {
	if c.Duration <= 0 {
		c.Duration = DefaultTweenDuration
	}
	if !c.Mode.Valid() {
		c.Mode = tween.ModeStep
	}
	if !c.Policy.Valid() {
		c.Policy = tween.ResetFromZero
	}
	if c.Scheduler == nil {
		c.Scheduler = tween.TickerScheduler{}
	}
	return c
}

// displaySpec describes how one named display renders and moves.
type displaySpec struct {
	name   string
	format tween.Formatter
	mode   tween.Mode
	policy tween.StartPolicy
}

func (c TweenConfig) cardSpecs() []displaySpec {
	return []displaySpec{
		{name: DisplayTopScore, format: tween.Fixed(0), mode: c.Mode, policy: c.Policy},
		{name: DisplayScorePerMinute, format: tween.Fixed(2), mode: c.Mode, policy: c.Policy},
		{name: DisplayMeanTime, format: tween.Fixed(2), mode: c.Mode, policy: c.Policy},
		{name: DisplayCultixReward, format: tween.Fixed(0), mode: c.Mode, policy: c.Policy},
	}
}

var (
	// The selected record glides between ranks instead of restarting.
	selectedSpecs = []displaySpec{
		{name: DisplaySelectedScore, format: tween.Fixed(0), mode: tween.ModeSpring, policy: tween.ContinueFromCurrent},
		{name: DisplaySelectedTimeTaken, format: tween.Fixed(2), mode: tween.ModeSpring, policy: tween.ContinueFromCurrent},
		{name: DisplaySelectedScorePerMinute, format: tween.Fixed(2), mode: tween.ModeSpring, policy: tween.ContinueFromCurrent},
		{name: DisplaySelectedCultixReward, format: tween.Fixed(0), mode: tween.ModeSpring, policy: tween.ContinueFromCurrent},
	}
	activitySpecs = []displaySpec{
		{name: DisplayUniquePlayers, format: tween.Fixed(0), mode: tween.ModeStep, policy: tween.ResetFromZero},
		{name: DisplayNumberOfActivities, format: tween.Fixed(0), mode: tween.ModeStep, policy: tween.ResetFromZero},
		{name: DisplayActivitiesPerPlayer, format: tween.Fixed(2), mode: tween.ModeStep, policy: tween.ResetFromZero},
	}
	walletSpec = displaySpec{
		name: DisplayWalletsConnected, format: tween.Ceil(), mode: tween.ModeStep, policy: tween.ResetFromZero,
	}
)

// Animator owns one session's displays and forwards their frames to the
// session's streams.
type Animator struct {
	sessionID string
	cfg       TweenConfig
	events    EventEmitter
	logger    *slog.Logger

	mu       sync.Mutex
	displays map[string]*tween.Display
	stopped  bool
}

// NewAnimator creates an animator with no displays.
func NewAnimator(sessionID string, cfg TweenConfig, events EventEmitter, logger *slog.Logger) *Animator {
	if events == nil {
		events = NoopEmitter{}
	}
	return &Animator{
		sessionID: sessionID,
		cfg:       cfg.withDefaults(),
		events:    events,
		logger:    logger,
		displays:  make(map[string]*tween.Display),
	}
}

// animate starts the display toward target unless it is already headed
// there. Non-finite targets are refused with a warning. It reports whether a
// tween was started.
func (a *Animator) animate(spec displaySpec, target float64) bool {
	if !validTarget(target) {
		a.logger.Warn("refusing non-finite tween target",
			"session_id", a.sessionID,
			"display", spec.name,
			"target", target,
		)
		return false
	}

	// Held across Start so a concurrent Stop cannot miss the new timer.
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.stopped {
		return false
	}
	d, ok := a.displays[spec.name]
	if !ok {
		d = tween.New(tween.Options{
			Name:      spec.name,
			Mode:      spec.mode,
			Policy:    spec.policy,
			Format:    spec.format,
			Spring:    a.cfg.Spring,
			Scheduler: a.cfg.Scheduler,
			OnFrame:   a.emitFrame,
		})
		a.displays[spec.name] = d
	}

	if ok && d.State().Target == target {
		return false
	}
	d.Start(target, a.cfg.Duration)
	return true
}

func (a *Animator) emitFrame(f tween.Frame) {
	a.events.Emit(sse.NewTweenFrameEvent(a.sessionID, sse.TweenFrameEventData{
		Display: f.Display,
		Value:   f.Value,
		Text:    f.Text,
		Done:    f.Done,
	}))
}

// Frame returns the current frame of a display.
func (a *Animator) Frame(name string) (tween.Frame, bool) {
	a.mu.Lock()
	d, ok := a.displays[name]
	a.mu.Unlock()
	if !ok {
		return tween.Frame{}, false
	}
	return d.Frame(), true
}

// Frames returns the current frame of every display, ordered by name.
func (a *Animator) Frames() []tween.Frame {
	a.mu.Lock()
	displays := make([]*tween.Display, 0, len(a.displays))
	for _, d := range a.displays {
		displays = append(displays, d)
	}
	a.mu.Unlock()

	frames := make([]tween.Frame, 0, len(displays))
	for _, d := range displays {
		frames = append(frames, d.Frame())
	}
	slices.SortFunc(frames, func(x, y tween.Frame) int {
		return strings.Compare(x.Display, y.Display)
	})
	return frames
}

// Stop cancels every running tween. Later animate calls are ignored.
func (a *Animator) Stop() {
	a.mu.Lock()
	a.stopped = true
	displays := make([]*tween.Display, 0, len(a.displays))
	for _, d := range a.displays {
		displays = append(displays, d)
	}
	a.mu.Unlock()

	for _, d := range displays {
		d.Stop()
	}
}
