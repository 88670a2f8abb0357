package tween

import (
	"math"
	"sync"
	"time"
)

// StepCount is the number of ticks a step-mode tween takes regardless of
// its duration.
const StepCount = 60

// Mode selects how a display converges on its target.
type Mode string

const (
	ModeStep   Mode = "step"
	ModeSpring Mode = "spring"
)

// Valid checks if the mode is known.
func (m Mode) Valid() bool {
	return m == ModeStep || m == ModeSpring
}

// StartPolicy selects where a new tween starts from.
type StartPolicy string

const (
	// ResetFromZero starts every tween at 0.
	ResetFromZero StartPolicy = "reset-from-zero"
	// ContinueFromCurrent starts from the last value reached.
	ContinueFromCurrent StartPolicy = "continue-from-current"
)

// Valid checks if the policy is known.
func (p StartPolicy) Valid() bool {
	return p == ResetFromZero || p == ContinueFromCurrent
}

// Frame is one emitted display update.
type Frame struct {
	Display string  `json:"display"`
	Value   float64 `json:"value"`
	Text    string  `json:"text"`
	Done    bool    `json:"done"`
}

// State is a snapshot of a display's tween.
type State struct {
	Current   float64       `json:"current"`
	Target    float64       `json:"target"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Running   bool          `json:"running"`
}

// Options configures a Display.
type Options struct {
	Name      string
	Mode      Mode
	Policy    StartPolicy
	Format    Formatter
	Spring    Spring
	Scheduler Scheduler

	// OnFrame receives every update. It runs with the display locked and
	// must not call back into the Display.
	OnFrame func(Frame)

	Clock func() time.Time
}

// Display animates a single displayed value.
type Display struct {
	name    string
	mode    Mode
	policy  StartPolicy
	format  Formatter
	spring  Spring
	sched   Scheduler
	onFrame func(Frame)
	clock   func() time.Time

	mu       sync.Mutex
	state    State
	from     float64
	step     int
	velocity float64
	elapsed  time.Duration
	gen      uint64
	cancel   CancelFunc
}

// New creates an idle display showing 0. Missing options fall back to step
// mode, reset-from-zero, Fixed(0), DefaultSpring and a TickerScheduler.
func New(opts Options) *Display {
	d := &Display{
		name:    opts.Name,
		mode:    opts.Mode,
		policy:  opts.Policy,
		format:  opts.Format,
		spring:  opts.Spring,
		sched:   opts.Scheduler,
		onFrame: opts.OnFrame,
		clock:   opts.Clock,
	}
	if !d.mode.Valid() {
		d.mode = ModeStep
	}
	if !d.policy.Valid() {
		d.policy = ResetFromZero
	}
	if d.format == nil {
		d.format = Fixed(0)
	}
	if d.spring == (Spring{}) {
		d.spring = DefaultSpring
	}
	if d.sched == nil {
		d.sched = TickerScheduler{}
	}
	if d.clock == nil {
		d.clock = time.Now
	}
	return d
}

// Name returns the display's name.
func (d *Display) Name() string {
	return d.name
}

// Start animates toward target over duration, superseding any running tween.
// A non-positive duration, or a target equal to the start value, jumps
// straight to the target.
func (d *Display) Start(target float64, duration time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.gen++
	gen := d.gen

	if d.policy == ResetFromZero {
		d.state.Current = 0
	}
	d.from = d.state.Current
	d.state.Target = target
	d.state.StartedAt = d.clock()
	d.state.Duration = duration
	d.step = 0
	d.velocity = 0
	d.elapsed = 0

	if duration <= 0 || d.from == target {
		d.finishLocked()
		return
	}

	d.state.Running = true
	interval := d.intervalFor(duration)
	d.cancel = d.sched.Every(interval, func() { d.tick(gen, interval) })
}

// Stop cancels any running tween and leaves the value where it is. It is
// the teardown hook and is safe to call repeatedly.
func (d *Display) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.cancelLocked()
	d.gen++
	d.state.Running = false
}

// Value returns the current numeric value.
func (d *Display) Value() float64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state.Current
}

// Text returns the current value rendered by the display's formatter.
func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.format(d.state.Current)
}

// State returns a copy of the tween state.
func (d *Display) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

// Frame returns the current value as a frame.
func (d *Display) Frame() Frame {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.frameLocked(!d.state.Running)
}

func (d *Display) intervalFor(duration time.Duration) time.Duration {
	if d.mode == ModeSpring {
		return d.spring.FrameInterval
	}
	return duration / StepCount
}

func (d *Display) tick(gen uint64, interval time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if gen != d.gen || !d.state.Running {
		return
	}

	if d.mode == ModeSpring {
		d.springTickLocked(interval)
	} else {
		d.stepTickLocked()
	}
}

// stepTickLocked advances by a fixed 1/60th of the distance. Positions are
// computed from the start value rather than accumulated, and the last tick
// lands on the target exactly.
func (d *Display) stepTickLocked() {
	d.step++
	if d.step >= StepCount {
		d.finishLocked()
		return
	}

	delta := (d.state.Target - d.from) / StepCount
	next := d.from + delta*float64(d.step)
	d.state.Current = clampToward(next, d.from, d.state.Target)
	d.emitLocked(false)
}

func (d *Display) springTickLocked(interval time.Duration) {
	d.elapsed += interval

	x, v, settled := d.spring.advance(d.state.Current, d.velocity, d.from, d.state.Target, interval)
	d.state.Current = x
	d.velocity = v

	if settled || d.elapsed >= d.state.Duration {
		d.finishLocked()
		return
	}
	d.emitLocked(false)
}

func (d *Display) finishLocked() {
	d.cancelLocked()
	d.state.Current = d.state.Target
	d.state.Running = false
	d.velocity = 0
	d.emitLocked(true)
}

func (d *Display) cancelLocked() {
	if d.cancel != nil {
		d.cancel()
		d.cancel = nil
	}
}

func (d *Display) emitLocked(done bool) {
	if d.onFrame != nil {
		d.onFrame(d.frameLocked(done))
	}
}

func (d *Display) frameLocked(done bool) Frame {
	return Frame{
		Display: d.name,
		Value:   d.state.Current,
		Text:    d.format(d.state.Current),
		Done:    done,
	}
}

// clampToward keeps v within the closed interval between from and to.
func clampToward(v, from, to float64) float64 {
	lo, hi := math.Min(from, to), math.Max(from, to)
	return math.Max(lo, math.Min(hi, v))
}
