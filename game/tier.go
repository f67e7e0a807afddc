package game

import "math"

// TierForHeight maps a height to its tier (1-based): the highest tier whose
// threshold the height has reached.
func TierForHeight(thresholds []float64, height float64) int {
	for i := len(thresholds) - 1; i >= 0; i-- {
		if height >= thresholds[i] {
			return i + 1
		}
	}
	return 1
}

// completionBonus is the height granted for finishing a sentence.
func completionBonus(momentum int, wpm float64) float64 {
	if wpm < 0 {
		wpm = 0
	}
	return float64(momentum) * wpm / 10
}

// raiseTier recomputes the session tier and reports whether it went up.
func (s *Session) raiseTier(t Tuning) bool {
	next := TierForHeight(t.TierThresholds, s.height)
	if next <= s.tier {
		return false
	}
	s.tier = next
	return true
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func roundInt(v float64) int {
	return int(math.Round(v))
}
