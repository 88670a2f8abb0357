package service

import (
	"sync"
	"time"

	"github.com/ignicult/dashboard-server/internal/sse"
	"github.com/ignicult/dashboard-server/internal/tween"
)

// LoadingInterval is how long each loading frame is shown.
const LoadingInterval = 200 * time.Millisecond

// LoadingEmotes is the loading indicator sequence. Events carry the index.
var LoadingEmotes = []string{"⚡", "🚀", "🔥", "💨", "⚡", "🚀"}

// startLoading cycles loading frames to sessionID, or to everyone when it is
// empty. The returned cancel emits one final done frame.
func startLoading(sched tween.Scheduler, emitter EventEmitter, sessionID string) tween.CancelFunc {
	stop := tween.Cycle(sched, LoadingInterval, len(LoadingEmotes), func(frame int) {
		emitter.Emit(sse.NewLoadingEvent(sessionID, frame, false))
	})

	var once sync.Once
	return func() {
		once.Do(func() {
			stop()
			emitter.Emit(sse.NewLoadingEvent(sessionID, 0, true))
		})
	}
}
