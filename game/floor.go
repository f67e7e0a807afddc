package game

import (
	"math"
	"time"
)

// FloorSpeed is how fast the floor rises under a climber at the given height.
func FloorSpeed(t Tuning, height float64) float64 {
	speed := t.FloorBaseSpeed + height*t.FloorHeightFactor
	if t.FloorMaxSpeed > 0 {
		speed = math.Min(speed, t.FloorMaxSpeed)
	}
	return speed
}

// advanceFloor raises the session's floor once the grace period is over and
// reports whether it caught the climber.
func (s *Session) advanceFloor(t Tuning, now time.Time, dt float64) bool {
	if now.Sub(s.startedAt) <= t.FloorGracePeriod {
		return false
	}
	s.floorHeight += FloorSpeed(t, s.height) * dt
	return s.floorHeight >= s.height
}
