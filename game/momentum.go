package game

import "time"

// momentumThreshold returns the progress needed to leave level m.
func momentumThreshold(t Tuning, m int) float64 {
	if m < 1 {
		m = 1
	}
	if m > len(t.MomentumThresholds) {
		m = len(t.MomentumThresholds)
	}
	return t.MomentumThresholds[m-1]
}

// gainMomentum credits typed characters toward the next level and reports a
// level up. A level up resets progress and pauses decay.
func (s *Session) gainMomentum(t Tuning, chars int) bool {
	s.momentumProgress += float64(chars)
	if s.momentum >= t.MaxMomentum() {
		return false
	}
	if s.momentumProgress < momentumThreshold(t, s.momentum) {
		return false
	}
	s.momentum++
	s.momentumProgress = 0
	s.decayPause = t.MomentumDecayPause
	return true
}

// decayMomentum runs one tick of decay and reports a level drop. Decay is
// frozen while the post-level-up pause lasts and never goes below level 1.
func (s *Session) decayMomentum(t Tuning, tick time.Duration) bool {
	if s.decayPause > 0 {
		s.decayPause -= tick
		if s.decayPause < 0 {
			s.decayPause = 0
		}
		return false
	}
	if s.momentum <= 1 {
		return false
	}
	rate := t.MomentumDecayBase + float64(s.momentum-1)*t.MomentumDecayStep
	s.momentumProgress -= rate * tick.Seconds()
	if s.momentumProgress >= 0 {
		return false
	}
	s.momentum--
	s.momentumProgress = momentumThreshold(t, s.momentum) * t.MomentumReseed
	return true
}
