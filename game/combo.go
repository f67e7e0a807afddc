package game

import (
	"math"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
)

// applyTypingLocked turns a progress report into combo, momentum and hp
// changes. New errors break the combo and cost hp; forward progress feeds
// both the combo and momentum. Every full combo charge fires an attack.
func (l *Lobby) applyTypingLocked(s *Session, in protocol.Typing, now time.Time) {
	if !s.active() || len(s.sentence) == 0 {
		return
	}
	t := l.tuning

	s.lastActivity = now
	report := in
	s.lastTyping = &report
	if in.WPM > 0 {
		s.lastWPM = in.WPM
	}

	pos := clampCursor(in.Position, len(s.sentence))
	errs := max(in.Errors, 0) + max(in.Corrections, 0)
	c := &s.combo

	switch {
	case errs > c.LastErrors:
		fresh := errs - c.LastErrors
		c.Chars = 0
		c.LastPosition = pos
		c.LastErrors = errs
		s.hp = math.Max(0, s.hp-float64(fresh)*t.ErrorHPPenalty)
		s.notify(protocol.HPUpdate{HP: roundInt(s.hp)})
		if s.hp <= 0 {
			l.eliminateLocked(s, l.killerForLocked(s, now), now)
			return
		}
	case pos > c.LastPosition:
		delta := pos - c.LastPosition
		c.Chars += delta
		if s.gainMomentum(t, delta) {
			s.notify(protocol.MomentumUpdate{Momentum: s.momentum})
		}
	}
	c.LastPosition = pos
	c.LastErrors = errs

	for c.Chars >= t.ComboThreshold && t.ComboThreshold > 0 {
		c.Chars -= t.ComboThreshold
		c.Attacks++
		l.resolveAttackLocked(s, now)
	}
}

func (l *Lobby) completeSentenceLocked(s *Session, in protocol.SentenceComplete, now time.Time) {
	if !s.active() || len(s.sentence) == 0 {
		return
	}
	t := l.tuning

	wpm := math.Max(0, in.WPM)
	if wpm > 0 {
		s.lastWPM = wpm
	}
	s.height += completionBonus(s.momentum, wpm)
	s.hp = math.Min(t.MaxHP, s.hp+t.CompletionHPRestore)
	s.lastActivity = now
	if s.raiseTier(t) {
		s.notify(protocol.TierUp{Tier: s.tier, Height: round1(s.height)})
	}

	l.assignSentenceLocked(s, now)
	s.notify(protocol.SentenceAssigned{RunState: s.runState()})
}

// nearestTargetLocked picks the live opponent closest in height. Ties go to
// whoever joined first.
func (l *Lobby) nearestTargetLocked(attacker *Session) *Session {
	var (
		best    *Session
		bestGap = math.Inf(1)
	)
	for _, s := range l.sessions {
		if s == attacker || !s.active() {
			continue
		}
		gap := math.Abs(s.height - attacker.height)
		if gap < bestGap || (gap == bestGap && s.seq < best.seq) {
			best, bestGap = s, gap
		}
	}
	return best
}

func (l *Lobby) resolveAttackLocked(attacker *Session, now time.Time) {
	target := l.nearestTargetLocked(attacker)
	if target == nil || len(target.sentence) == 0 {
		return
	}

	res := applyAttack(target, pickAttackKind(attacker.combo.Attacks, l.rng), l.tuning, l.rng)
	target.lastAttacker = attacker.id
	target.lastAttackedAt = now

	target.notify(protocol.AttackReceived{
		Type:            res.kind,
		UpdatedSentence: string(target.sentence),
		Word:            res.word,
		InsertPos:       res.insertPos,
		Range:           res.span,
		InjectedRanges:  append([]protocol.Range{}, target.injected...),
		HP:              roundInt(target.hp),
	})
	attacker.notify(protocol.AttackSent{Type: res.kind, Target: target.identity.Username})
}
