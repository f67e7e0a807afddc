package game

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
)

type botState struct {
	wpm    int
	typed  float64
	errors int
}

func (b *botState) reset() {
	b.typed = 0
	b.errors = 0
}

// spawnBotsLocked fills a fresh lobby with simulated climbers. They start
// together once the join countdown has run.
func (l *Lobby) spawnBotsLocked() {
	if l.botsSpawned {
		return
	}
	l.botsSpawned = true
	t := l.tuning
	if t.BotMax <= 0 {
		return
	}

	n := t.BotMin
	if t.BotMax > t.BotMin {
		n += l.rng.Intn(t.BotMax - t.BotMin + 1)
	}
	names := t.BotNames
	if len(names) == 0 {
		names = []string{"Bot"}
	}
	order := l.rng.Perm(len(names))

	for i := 0; i < n; i++ {
		name := names[order[i%len(names)]]
		if i >= len(names) {
			name = fmt.Sprintf("%s%d", name, i/len(names)+1)
		}
		wpm := t.BotWPMMin
		if t.BotWPMMax > t.BotWPMMin {
			wpm += l.rng.Intn(t.BotWPMMax - t.BotWPMMin + 1)
		}

		l.nextSeq++
		s := newSession(fmt.Sprintf("bot_%s_%d", l.id, i), l.nextSeq, Identity{Username: name, Bot: true}, SimulatedSession{}, t)
		s.bot = &botState{wpm: wpm}
		l.sessions[s.id] = s
	}
	l.initialBots = n
	if n > 0 {
		l.botStart = l.deps.Clock.AfterFunc(l.countdown(), l.onBotStart)
	}
}

func (l *Lobby) onBotStart() {
	l.do(func(now time.Time) {
		if l.closed {
			return
		}
		l.botStart = nil
		for _, s := range l.orderedLocked() {
			if s.bot != nil && !s.started && !s.eliminated {
				l.startRunLocked(s, now)
			}
		}
	})
}

func (l *Lobby) tickBotsLocked(now time.Time, dt float64) {
	for _, s := range l.orderedLocked() {
		if s.bot == nil || !s.active() || len(s.sentence) == 0 {
			continue
		}
		l.guard(s, func() { l.tickBotLocked(s, now, dt) })
	}
}

// tickBotLocked synthesizes one typing report for a bot and feeds it through
// the same path as real input.
func (l *Lobby) tickBotLocked(s *Session, now time.Time, dt float64) {
	t := l.tuning
	b := s.bot

	b.typed += float64(b.wpm) * 5 / 60 * dt
	if l.rng.Float64() < t.BotErrorChance {
		b.errors++
	}
	pos := min(int(b.typed), len(s.sentence))

	jitter := 0
	if t.BotWPMJitter > 0 {
		jitter = l.rng.Intn(2*t.BotWPMJitter+1) - t.BotWPMJitter
	}
	l.applyTypingLocked(s, protocol.Typing{
		Position: pos,
		Typed:    string(s.sentence[:pos]),
		WPM:      float64(max(1, b.wpm+jitter)),
		Errors:   b.errors,
	}, now)

	if !s.active() || pos < len(s.sentence) {
		return
	}
	l.completeSentenceLocked(s, protocol.SentenceComplete{
		Typed: string(s.sentence),
		WPM:   float64(b.wpm),
		Time:  now.Sub(s.sentenceSince).Milliseconds(),
	}, now)
}

// retireBotsLocked shrinks the bot field as real players arrive, lowest
// climbers first. At BotRetireAtReal real players no bots remain.
func (l *Lobby) retireBotsLocked(now time.Time) {
	if l.initialBots == 0 {
		return
	}
	t := l.tuning

	humans := 0
	var bots []*Session
	for _, s := range l.orderedLocked() {
		if s.eliminated {
			continue
		}
		if s.bot == nil {
			humans++
		} else {
			bots = append(bots, s)
		}
	}

	target := 0
	if humans < t.BotRetireAtReal && t.BotRetireAtReal > 1 {
		frac := 1 - float64(humans-1)/float64(t.BotRetireAtReal-1)
		target = int(math.Round(float64(l.initialBots) * frac))
	}
	if len(bots) <= target {
		return
	}

	sort.SliceStable(bots, func(i, j int) bool { return bots[i].height < bots[j].height })
	retire := bots[:len(bots)-target]
	for _, b := range retire {
		l.eliminateLocked(b, "", now)
	}
	l.log.Infof("[Lobby %s] retired %d bots for %d players", l.id, len(retire), humans)
}
