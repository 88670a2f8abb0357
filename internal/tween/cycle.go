package tween

import "time"

// Cycle calls fn with frame 0 immediately and then with the next frame index
// every interval, wrapping after frames. It drives looping indicators such
// as the loading emote. frames <= 0 schedules nothing.
func Cycle(s Scheduler, interval time.Duration, frames int, fn func(frame int)) CancelFunc {
	if frames <= 0 {
		return func() {}
	}

	fn(0)
	frame := 0
	return s.Every(interval, func() {
		frame = (frame + 1) % frames
		fn(frame)
	})
}
