package game

import (
	"context"
	"math"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
)

// runRecord is what survives of a session once it is eliminated.
type runRecord struct {
	sessionID string
	identity  Identity
	notifier  Notifier
	height    float64
	tier      int
	duration  time.Duration
	knockouts int
	wpm       float64
}

func (s *Session) markEliminated() {
	s.eliminated = true
	s.hp = 0
	s.finalHeight = s.height
	s.finalTier = s.tier
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
}

// killerForLocked credits the most recent attacker if the attack landed
// within the knockout window.
func (l *Lobby) killerForLocked(s *Session, now time.Time) string {
	if s.lastAttacker == "" || now.Sub(s.lastAttackedAt) > l.tuning.KnockoutWindow {
		return ""
	}
	return s.lastAttacker
}

// eliminateLocked ends a session's run, rewards the killer if any, and
// hands the run to a detached task for persistence.
func (l *Lobby) eliminateLocked(s *Session, killerID string, now time.Time) {
	if s.eliminated {
		return
	}
	s.markEliminated()
	t := l.tuning

	var killedBy *string
	if killer := l.sessions[killerID]; killer != nil && killer != s && killer.active() {
		killer.knockouts++
		killer.hp = math.Min(t.MaxHP, killer.hp+t.KnockoutHPBonus)
		killer.height += t.KnockoutHeightBonus
		name := killer.identity.Username
		killedBy = &name
		killer.notify(protocol.Knockout{
			Victim: s.identity.Username,
			HP:     roundInt(killer.hp),
			Height: round1(killer.height),
		})
		if killer.raiseTier(t) {
			killer.notify(protocol.TierUp{Tier: killer.tier, Height: round1(killer.height)})
		}
	}

	l.broadcastLocked(protocol.Eliminated{
		Username: s.identity.Username,
		KilledBy: killedBy,
		Height:   round1(s.finalHeight),
		Tier:     s.finalTier,
	})

	var duration time.Duration
	if s.started {
		duration = now.Sub(s.startedAt)
	}
	rec := runRecord{
		sessionID: s.id,
		identity:  s.identity,
		notifier:  s.notifier,
		height:    s.finalHeight,
		tier:      s.finalTier,
		duration:  duration,
		knockouts: s.knockouts,
		wpm:       s.lastWPM,
	}
	l.later(func() { l.deps.Spawn(func() { l.finishRun(rec) }) })

	if !s.identity.Bot {
		l.log.Infof("[Lobby %s] %s eliminated at %.1f (tier %d)", l.id, s.identity.Username, s.finalHeight, s.finalTier)
	}
}

// finishRun persists the run, reports it to the owner and releases the
// session. Persistence failures are logged and the run still ends.
func (l *Lobby) finishRun(rec runRecord) {
	var gain *protocol.XPGain
	if rec.identity.UserID != 0 && l.deps.Progression != nil {
		gain = l.persistRun(rec)
	}

	rec.notifier.Notify(protocol.RunEnd{
		Height:    round1(rec.height),
		Tier:      rec.tier,
		Duration:  rec.duration.Milliseconds(),
		Knockouts: rec.knockouts,
		XPGain:    gain,
	})

	l.do(func(time.Time) {
		if s := l.sessions[rec.sessionID]; s != nil {
			l.removeSessionLocked(s)
		}
		l.scheduleCleanupLocked()
	})
}

func (l *Lobby) persistRun(rec runRecord) *protocol.XPGain {
	ctx, cancel := context.WithTimeout(context.Background(), l.deps.PersistTimeout)
	defer cancel()

	gain, err := l.deps.Progression.GrantExperience(ctx, rec.identity.UserID, false, rec.wpm, ModeAscend, rec.duration)
	if err != nil {
		l.log.Warnf("[Lobby %s] grant experience for user %d failed: %v", l.id, rec.identity.UserID, err)
		gain = nil
	}
	if err := l.deps.Progression.RecordRun(ctx, rec.identity.UserID, rec.identity.Username, rec.height, rec.tier, rec.duration); err != nil {
		l.log.Warnf("[Lobby %s] record run for user %d failed: %v", l.id, rec.identity.UserID, err)
	}
	return gain
}
