package tween

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type frameRecorder struct {
	mu     sync.Mutex
	frames []Frame
}

func (r *frameRecorder) record(f Frame) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frames = append(r.frames, f)
}

func (r *frameRecorder) all() []Frame {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Frame(nil), r.frames...)
}

func newStepDisplay(t *testing.T, policy StartPolicy, format Formatter) (*Display, *ManualScheduler, *frameRecorder) {
	t.Helper()
	sched := NewManualScheduler()
	rec := &frameRecorder{}
	d := New(Options{
		Name:      "unique_players",
		Mode:      ModeStep,
		Policy:    policy,
		Format:    format,
		Scheduler: sched,
		OnFrame:   rec.record,
	})
	return d, sched, rec
}

func TestDisplay_StepScenario_ZeroTo150(t *testing.T) {
	d, sched, rec := newStepDisplay(t, ResetFromZero, Fixed(0))

	d.Start(150, 2000*time.Millisecond)
	sched.Advance(2000 * time.Millisecond)

	frames := rec.all()
	require.Len(t, frames, StepCount)
	for i, f := range frames {
		assert.InDelta(t, 2.5*float64(i+1), f.Value, 1e-9, "tick %d", i+1)
		assert.LessOrEqual(t, f.Value, 150.0)
		if i > 0 {
			assert.InDelta(t, 2.5, f.Value-frames[i-1].Value, 1e-9)
		}
	}

	last := frames[len(frames)-1]
	assert.True(t, last.Done)
	assert.Equal(t, "150", last.Text)
	assert.Equal(t, 150.0, d.Value())
	assert.Equal(t, "150", d.Text())
	assert.Equal(t, 0, sched.Pending(), "timer must be released after completion")
}

func TestDisplay_StepReachesTargetWithinDuration(t *testing.T) {
	tests := []struct {
		name     string
		target   float64
		duration time.Duration
	}{
		{name: "integer target", target: 1234, duration: 2 * time.Second},
		{name: "fractional target", target: 3.14159, duration: 500 * time.Millisecond},
		{name: "odd duration", target: 77, duration: 1001 * time.Millisecond},
		{name: "negative target", target: -40, duration: time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, sched, rec := newStepDisplay(t, ResetFromZero, Fixed(2))

			d.Start(tt.target, tt.duration)
			sched.Advance(tt.duration)

			assert.Equal(t, tt.target, d.Value())
			assert.False(t, d.State().Running)
			for _, f := range rec.all() {
				if tt.target > 0 {
					assert.LessOrEqual(t, f.Value, tt.target)
				} else {
					assert.GreaterOrEqual(t, f.Value, tt.target)
				}
			}
		})
	}
}

func TestDisplay_StepIsMonotonicWhileTargetGrows(t *testing.T) {
	d, sched, rec := newStepDisplay(t, ContinueFromCurrent, Fixed(0))

	d.Start(100, 600*time.Millisecond)
	sched.Advance(250 * time.Millisecond)
	d.Start(300, 600*time.Millisecond)
	sched.Advance(100 * time.Millisecond)
	d.Start(500, 600*time.Millisecond)
	sched.Advance(time.Second)

	frames := rec.all()
	require.NotEmpty(t, frames)
	for i := 1; i < len(frames); i++ {
		assert.GreaterOrEqual(t, frames[i].Value, frames[i-1].Value)
	}
	assert.Equal(t, 500.0, d.Value())
}

func TestDisplay_RetargetContinuesFromCurrent(t *testing.T) {
	d, sched, _ := newStepDisplay(t, ContinueFromCurrent, Fixed(1))

	d.Start(100, 600*time.Millisecond) // 10ms per tick
	sched.Advance(300 * time.Millisecond)
	require.InDelta(t, 50, d.Value(), 1e-9)

	d.Start(200, 600*time.Millisecond)
	assert.Equal(t, 1, sched.Pending(), "retarget must replace, not add, the timer")
	assert.InDelta(t, 50, d.Value(), 1e-9)

	sched.Advance(10 * time.Millisecond)
	assert.InDelta(t, 50+150.0/StepCount, d.Value(), 1e-9)

	sched.Advance(time.Second)
	assert.Equal(t, 200.0, d.Value())
}

func TestDisplay_RetargetResetFromZero(t *testing.T) {
	d, sched, rec := newStepDisplay(t, ResetFromZero, Fixed(0))

	d.Start(100, 600*time.Millisecond)
	sched.Advance(300 * time.Millisecond)
	require.InDelta(t, 50, d.Value(), 1e-9)

	d.Start(60, 600*time.Millisecond)
	assert.Equal(t, 0.0, d.Value())

	sched.Advance(10 * time.Millisecond)
	frames := rec.all()
	assert.InDelta(t, 1, frames[len(frames)-1].Value, 1e-9)
}

func TestDisplay_RetargetDiscardsSupersededTicks(t *testing.T) {
	d, sched, rec := newStepDisplay(t, ContinueFromCurrent, Fixed(0))

	d.Start(100, 600*time.Millisecond)
	sched.Advance(100 * time.Millisecond) // 10 frames from the first tween
	d.Start(100, 1200*time.Millisecond)   // same target, new timing
	sched.Advance(1200 * time.Millisecond)

	// 10 frames from the first tween and 60 from the second; a leaked
	// first timer would add extra frames.
	assert.Len(t, rec.all(), 10+StepCount)
	assert.Equal(t, 0, sched.Pending())
}

func TestDisplay_StopCancelsTimer(t *testing.T) {
	d, sched, rec := newStepDisplay(t, ResetFromZero, Fixed(0))

	d.Start(100, 600*time.Millisecond)
	sched.Advance(100 * time.Millisecond)
	before := d.Value()

	d.Stop()
	assert.Equal(t, 0, sched.Pending())

	count := len(rec.all())
	sched.Advance(time.Second)
	assert.Equal(t, before, d.Value())
	assert.Len(t, rec.all(), count, "no frames after teardown")

	d.Stop() // idempotent
}

func TestDisplay_ZeroDurationJumps(t *testing.T) {
	d, sched, rec := newStepDisplay(t, ResetFromZero, Fixed(2))

	d.Start(42.125, 0)

	frames := rec.all()
	require.Len(t, frames, 1)
	assert.True(t, frames[0].Done)
	assert.Equal(t, "42.13", frames[0].Text)
	assert.Equal(t, 0, sched.Pending())
}

func TestDisplay_SameTargetFinishesImmediately(t *testing.T) {
	d, sched, _ := newStepDisplay(t, ContinueFromCurrent, Fixed(0))

	d.Start(10, 0)
	d.Start(10, time.Second)

	assert.Equal(t, 0, sched.Pending())
	assert.Equal(t, 10.0, d.Value())
}

func TestDisplay_StateTracksTween(t *testing.T) {
	now := time.Date(2025, 2, 1, 10, 0, 0, 0, time.UTC)
	sched := NewManualScheduler()
	d := New(Options{Scheduler: sched, Clock: func() time.Time { return now }})

	d.Start(20, time.Second)
	st := d.State()

	assert.Equal(t, 20.0, st.Target)
	assert.Equal(t, now, st.StartedAt)
	assert.Equal(t, time.Second, st.Duration)
	assert.True(t, st.Running)
	assert.False(t, d.Frame().Done)
}

func TestDisplay_Defaults(t *testing.T) {
	d := New(Options{Name: "x"})

	assert.Equal(t, ModeStep, d.mode)
	assert.Equal(t, ResetFromZero, d.policy)
	assert.Equal(t, DefaultSpring, d.spring)
	assert.Equal(t, "0", d.Text())
}

func TestDisplay_SpringSettlesOnTarget(t *testing.T) {
	sched := NewManualScheduler()
	rec := &frameRecorder{}
	d := New(Options{
		Name:      "top_score",
		Mode:      ModeSpring,
		Scheduler: sched,
		OnFrame:   rec.record,
	})

	d.Start(100, 2*time.Second)
	sched.Advance(3 * time.Second)

	frames := rec.all()
	require.NotEmpty(t, frames)
	assert.True(t, frames[len(frames)-1].Done)
	assert.Equal(t, 100.0, d.Value())
	assert.Equal(t, 0, sched.Pending())
	assert.Greater(t, len(frames), 1, "spring needs a nonzero settling time")
}

func TestDisplay_SpringOvershootIsBounded(t *testing.T) {
	bouncy := Spring{
		Stiffness:     400,
		Damping:       2,
		Mass:          1,
		Tolerance:     0.1,
		RestDelta:     0.01,
		RestSpeed:     0.01,
		FrameInterval: time.Second / 60,
	}
	sched := NewManualScheduler()
	rec := &frameRecorder{}
	d := New(Options{Mode: ModeSpring, Spring: bouncy, Scheduler: sched, OnFrame: rec.record})

	d.Start(100, 5*time.Second)
	sched.Advance(6 * time.Second)

	overshot := false
	for _, f := range rec.all() {
		assert.LessOrEqual(t, f.Value, 110.0+1e-9)
		if f.Value > 100 {
			overshot = true
		}
	}
	assert.True(t, overshot, "an underdamped spring should pass the target")
	assert.Equal(t, 100.0, d.Value())
}

func TestDisplay_TickerScheduler(t *testing.T) {
	d := New(Options{Format: Fixed(0)})
	defer d.Stop()

	d.Start(10, 60*time.Millisecond)

	assert.Eventually(t, func() bool {
		return d.Text() == "10" && !d.State().Running
	}, 2*time.Second, 5*time.Millisecond)
}
