package tween

import (
	"slices"
	"sync"
	"time"
)

// CancelFunc stops a scheduled callback. It is idempotent and may be called
// from inside the callback itself.
type CancelFunc func()

// Scheduler runs fn repeatedly every interval until the returned CancelFunc
// is invoked. Callers own the token and must call it on teardown.
type Scheduler interface {
	Every(interval time.Duration, fn func()) CancelFunc
}

// TickerScheduler schedules callbacks on wall-clock tickers. Each schedule
// gets its own goroutine, so callbacks of one schedule never overlap.
type TickerScheduler struct{}

// Every implements Scheduler.
func (TickerScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	if interval <= 0 {
		interval = time.Millisecond
	}

	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	var once sync.Once

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				// A cancel that raced the tick wins.
				select {
				case <-done:
					return
				default:
				}
				fn()
			case <-done:
				return
			}
		}
	}()

	return func() {
		once.Do(func() { close(done) })
	}
}

// ManualScheduler is a deterministic Scheduler driven by Advance. It fires
// callbacks synchronously on the caller's goroutine.
type ManualScheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID int
	timers []*manualTimer
}

type manualTimer struct {
	id       int
	interval time.Duration
	next     time.Duration
	fn       func()
	stopped  bool
}

// NewManualScheduler creates a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// Every implements Scheduler.
func (m *ManualScheduler) Every(interval time.Duration, fn func()) CancelFunc {
	if interval <= 0 {
		interval = time.Nanosecond
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	t := &manualTimer{
		id:       m.nextID,
		interval: interval,
		next:     m.now + interval,
		fn:       fn,
	}
	m.timers = append(m.timers, t)

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		t.stopped = true
		m.timers = slices.DeleteFunc(m.timers, func(x *manualTimer) bool { return x == t })
	}
}

// Advance moves the clock forward by d, firing every due callback in time
// order. Callbacks due at the same instant fire in scheduling order.
func (m *ManualScheduler) Advance(d time.Duration) {
	m.mu.Lock()
	deadline := m.now + d

	for {
		t := m.nextDueLocked(deadline)
		if t == nil {
			break
		}
		m.now = t.next
		t.next += t.interval

		m.mu.Unlock()
		t.fn()
		m.mu.Lock()
	}

	m.now = deadline
	m.mu.Unlock()
}

// Now returns the elapsed virtual time.
func (m *ManualScheduler) Now() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Pending returns the number of live schedules.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func (m *ManualScheduler) nextDueLocked(deadline time.Duration) *manualTimer {
	var due *manualTimer
	for _, t := range m.timers {
		if t.stopped || t.next > deadline {
			continue
		}
		if due == nil || t.next < due.next || (t.next == due.next && t.id < due.id) {
			due = t
		}
	}
	return due
}
