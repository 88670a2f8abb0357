package tween

import (
	"math"
	"time"
)

// Spring parameterises the damped mode.
type Spring struct {
	Stiffness float64
	Damping   float64
	Mass      float64

	// Tolerance bounds overshoot as a fraction of the travel distance.
	Tolerance float64

	// The spring settles once both the distance to the target and the speed
	// drop below these thresholds.
	RestDelta float64
	RestSpeed float64

	FrameInterval time.Duration
}

// DefaultSpring is slightly overdamped and settles in under a second for
// unit-scale travel.
var DefaultSpring = Spring{
	Stiffness:     50,
	Damping:       15,
	Mass:          1,
	Tolerance:     0.05,
	RestDelta:     0.01,
	RestSpeed:     0.01,
	FrameInterval: time.Second / 60,
}

// advance integrates one frame with semi-implicit Euler and returns the new
// position, velocity and whether the spring is at rest.
func (s Spring) advance(x, v, from, target float64, interval time.Duration) (float64, float64, bool) {
	mass := s.Mass
	if mass <= 0 {
		mass = 1
	}
	dt := interval.Seconds()

	accel := (-s.Stiffness*(x-target) - s.Damping*v) / mass
	v += accel * dt
	x += v * dt

	// Past the target by more than the tolerance: pin to the bound and
	// kill the velocity so the return swing starts from rest.
	if dir := math.Copysign(1, target-from); target != from {
		limit := s.Tolerance * math.Abs(target-from)
		if (x-target)*dir > limit {
			x = target + dir*limit
			v = 0
		}
	}

	settled := math.Abs(x-target) <= s.RestDelta && math.Abs(v) <= s.RestSpeed
	return x, v, settled
}
