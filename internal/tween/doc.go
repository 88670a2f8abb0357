// Package tween animates numeric display values toward a target.
//
// A Display owns at most one running tween. Starting a new one cancels the
// previous timer under the display's lock before the next is scheduled, and
// a generation counter discards any tick that raced the cancel. Two modes
// are supported: a fixed 60-step linear ramp and a damped spring.
//
// Targets must be finite; the package performs no validation.
package tween
