package tween

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestManualScheduler_FiresInTimeOrder(t *testing.T) {
	sched := NewManualScheduler()
	var order []string

	sched.Every(30*time.Millisecond, func() { order = append(order, "slow") })
	sched.Every(20*time.Millisecond, func() { order = append(order, "fast") })

	sched.Advance(60 * time.Millisecond)

	assert.Equal(t, []string{"fast", "slow", "fast", "slow", "fast"}, order)
	assert.Equal(t, 60*time.Millisecond, sched.Now())
}

func TestManualScheduler_CancelFromCallback(t *testing.T) {
	sched := NewManualScheduler()
	calls := 0

	var cancel CancelFunc
	cancel = sched.Every(10*time.Millisecond, func() {
		calls++
		if calls == 3 {
			cancel()
		}
	})

	sched.Advance(time.Second)
	assert.Equal(t, 3, calls)
	assert.Equal(t, 0, sched.Pending())

	cancel()
}

func TestTickerScheduler_Cancel(t *testing.T) {
	var calls atomic.Int32
	cancel := TickerScheduler{}.Every(5*time.Millisecond, func() { calls.Add(1) })

	assert.Eventually(t, func() bool { return calls.Load() >= 2 }, time.Second, time.Millisecond)

	cancel()
	cancel()
	time.Sleep(20 * time.Millisecond)
	settled := calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, settled, calls.Load())
}

func TestCycle_WrapsFrames(t *testing.T) {
	sched := NewManualScheduler()
	var seen []int

	cancel := Cycle(sched, 200*time.Millisecond, 3, func(frame int) { seen = append(seen, frame) })
	sched.Advance(800 * time.Millisecond)
	cancel()
	sched.Advance(time.Second)

	assert.Equal(t, []int{0, 1, 2, 0, 1}, seen)
}

func TestCycle_NoFrames(t *testing.T) {
	sched := NewManualScheduler()
	cancel := Cycle(sched, time.Millisecond, 0, func(int) { t.Fatal("unexpected frame") })
	cancel()
	assert.Equal(t, 0, sched.Pending())
}
