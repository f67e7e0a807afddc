package game

import (
	"sort"

	"github.com/Bold014/typeio-backend/protocol"
)

// scoreboardLocked ranks every session that has started or been eliminated,
// highest first.
func (l *Lobby) scoreboardLocked() []protocol.ScoreboardEntry {
	ordered := l.orderedLocked()
	entries := make([]protocol.ScoreboardEntry, 0, len(ordered))
	heights := make([]float64, 0, len(ordered))
	for _, s := range ordered {
		if !s.started && !s.eliminated {
			continue
		}
		entries = append(entries, protocol.ScoreboardEntry{
			Username:    s.identity.Username,
			Height:      round1(s.height),
			Tier:        s.tier,
			HP:          roundInt(s.hp),
			Momentum:    s.momentum,
			Eliminated:  s.eliminated,
			WPM:         roundInt(s.lastWPM),
			FloorHeight: round1(s.floorHeight),
		})
		heights = append(heights, s.height)
	}
	sort.Stable(byHeight{entries, heights})
	return entries
}

type byHeight struct {
	entries []protocol.ScoreboardEntry
	heights []float64
}

func (b byHeight) Len() int           { return len(b.entries) }
func (b byHeight) Less(i, j int) bool { return b.heights[i] > b.heights[j] }
func (b byHeight) Swap(i, j int) {
	b.entries[i], b.entries[j] = b.entries[j], b.entries[i]
	b.heights[i], b.heights[j] = b.heights[j], b.heights[i]
}

// Scoreboard returns the current standings.
func (l *Lobby) Scoreboard() []protocol.ScoreboardEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.scoreboardLocked()
}
