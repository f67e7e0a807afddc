package game

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
	"github.com/Bold014/typeio-backend/utils/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrLobbyClosed   = errors.New("lobby closed")
	ErrAlreadyJoined = errors.New("already in a lobby")
)

// Deps are the collaborators a lobby runs against.
type Deps struct {
	Clock          Clock
	Sentences      SentenceProvider
	Progression    Progression
	Logger         *zap.SugaredLogger
	Rand           *rand.Rand
	Spawn          func(func())
	PersistTimeout time.Duration
	NewID          func() string
}

func (d Deps) withDefaults() Deps {
	if d.Clock == nil {
		d.Clock = SystemClock{}
	}
	if d.Sentences == nil {
		d.Sentences = pangrams{}
	}
	if d.Logger == nil {
		d.Logger = logger.Log
	}
	if d.Rand == nil {
		d.Rand = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if d.Spawn == nil {
		d.Spawn = func(f func()) { go f() }
	}
	if d.PersistTimeout <= 0 {
		d.PersistTimeout = 5 * time.Second
	}
	if d.NewID == nil {
		d.NewID = uuid.NewString
	}
	return d
}

// LobbyHooks are invoked outside the lobby lock.
type LobbyHooks struct {
	OnEmpty  func(*Lobby)
	OnClosed func(*Lobby)
}

// LobbyInfo is a summary used by listings.
type LobbyInfo struct {
	ID        string    `json:"id"`
	Players   int       `json:"players"`
	Bots      int       `json:"bots"`
	Alive     int       `json:"alive"`
	CreatedAt time.Time `json:"createdAt"`
	Closed    bool      `json:"closed"`
}

// Lobby is one climbing race. Every entry point and timer callback runs
// under mu, so a tick is never interleaved with player input.
type Lobby struct {
	id     string
	tuning Tuning
	deps   Deps
	hooks  LobbyHooks
	log    *zap.SugaredLogger
	rng    *rand.Rand

	mu          sync.Mutex
	sessions    map[string]*Session
	nextSeq     uint64
	initialBots int
	botsSpawned bool
	createdAt   time.Time
	running     bool
	tickTimer   Timer
	nextTick    time.Time
	botStart    Timer
	emptyTimer  Timer
	closed      bool
	deferred    []func()
}

func NewLobby(id string, tuning Tuning, deps Deps, hooks LobbyHooks) *Lobby {
	deps = deps.withDefaults()
	return &Lobby{
		id:        id,
		tuning:    tuning,
		deps:      deps,
		hooks:     hooks,
		log:       deps.Logger,
		rng:       deps.Rand,
		sessions:  make(map[string]*Session),
		createdAt: deps.Clock.Now(),
	}
}

func (l *Lobby) ID() string { return l.id }

// do runs fn under the lobby lock, then runs whatever fn deferred.
func (l *Lobby) do(fn func(now time.Time)) {
	l.mu.Lock()
	fn(l.deps.Clock.Now())
	deferred := l.deferred
	l.deferred = nil
	l.mu.Unlock()

	for _, f := range deferred {
		f()
	}
}

func (l *Lobby) later(f func()) {
	l.deferred = append(l.deferred, f)
}

// Open spawns the bot field and starts the tick loop.
func (l *Lobby) Open() {
	l.do(func(now time.Time) {
		l.ensureRunningLocked(now)
	})
}

func (l *Lobby) ensureRunningLocked(now time.Time) {
	if l.closed || l.running {
		return
	}
	l.running = true
	l.spawnBotsLocked()
	l.nextTick = now.Add(l.tuning.TickInterval)
	l.tickTimer = l.deps.Clock.AfterFunc(l.tuning.TickInterval, l.onTick)
	l.log.Infof("[Lobby %s] opened with %d bots", l.id, l.initialBots)
}

// Join adds a participant. The run starts after the countdown.
func (l *Lobby) Join(identity Identity, n Notifier) (*Session, error) {
	if n == nil {
		n = SimulatedSession{}
	}
	var (
		s   *Session
		err error
	)
	l.do(func(now time.Time) {
		if l.closed {
			err = ErrLobbyClosed
			return
		}
		if l.emptyTimer != nil {
			l.emptyTimer.Stop()
			l.emptyTimer = nil
		}
		l.ensureRunningLocked(now)

		l.nextSeq++
		s = newSession(l.deps.NewID(), l.nextSeq, identity, n, l.tuning)
		l.sessions[s.id] = s
		n.JoinChannel(Channel{LobbyID: l.id, SessionID: s.id})

		if !identity.Bot {
			l.retireBotsLocked(now)
		}

		s.notify(protocol.Joined{Scoreboard: l.scoreboardLocked()})
		s.notify(protocol.Countdown{Seconds: l.tuning.CountdownSeconds})

		joined := s
		s.countdown = l.deps.Clock.AfterFunc(l.countdown(), func() {
			l.do(func(now time.Time) {
				if l.closed || l.sessions[joined.id] != joined || joined.started || joined.eliminated {
					return
				}
				l.startRunLocked(joined, now)
			})
		})
		l.log.Infof("[Lobby %s] %s joined (%d sessions)", l.id, identity.Username, len(l.sessions))
	})
	return s, err
}

// Leave ends a participant's run voluntarily. A running session is
// eliminated and its run recorded; otherwise it is dropped at once.
func (l *Lobby) Leave(sessionID string) {
	l.do(func(now time.Time) {
		s := l.sessions[sessionID]
		if s == nil {
			return
		}
		if s.active() {
			l.eliminateLocked(s, "", now)
			return
		}
		l.removeSessionLocked(s)
		l.scheduleCleanupLocked()
	})
}

// Disconnect drops a participant whose connection is gone. No run is
// recorded for it.
func (l *Lobby) Disconnect(sessionID string) {
	l.do(func(now time.Time) {
		s := l.sessions[sessionID]
		if s == nil {
			return
		}
		wasActive := s.active()
		if wasActive {
			s.markEliminated()
		}
		l.removeSessionLocked(s)
		if wasActive {
			l.broadcastLocked(protocol.Eliminated{
				Username:     s.identity.Username,
				Height:       round1(s.finalHeight),
				Tier:         s.finalTier,
				Disconnected: true,
			})
		}
		l.scheduleCleanupLocked()
		l.log.Infof("[Lobby %s] %s disconnected", l.id, s.identity.Username)
	})
}

// HandleTyping applies a typing progress report.
func (l *Lobby) HandleTyping(sessionID string, in protocol.Typing) {
	l.do(func(now time.Time) {
		if s := l.sessions[sessionID]; s != nil {
			l.applyTypingLocked(s, in, now)
		}
	})
}

// HandleSentenceComplete credits a finished sentence and assigns the next.
func (l *Lobby) HandleSentenceComplete(sessionID string, in protocol.SentenceComplete) {
	l.do(func(now time.Time) {
		if s := l.sessions[sessionID]; s != nil {
			l.completeSentenceLocked(s, in, now)
		}
	})
}

// Close stops every timer and releases all members.
func (l *Lobby) Close() {
	l.do(func(time.Time) {
		l.closeLocked()
	})
}

func (l *Lobby) Snapshot(sessionID string) (SessionSnapshot, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	s := l.sessions[sessionID]
	if s == nil {
		return SessionSnapshot{}, false
	}
	return s.snapshot(), true
}

func (l *Lobby) Snapshots() []SessionSnapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	ordered := l.orderedLocked()
	out := make([]SessionSnapshot, 0, len(ordered))
	for _, s := range ordered {
		out = append(out, s.snapshot())
	}
	return out
}

func (l *Lobby) SessionCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.sessions)
}

func (l *Lobby) Info() LobbyInfo {
	l.mu.Lock()
	defer l.mu.Unlock()
	info := LobbyInfo{ID: l.id, CreatedAt: l.createdAt, Closed: l.closed}
	for _, s := range l.sessions {
		if s.bot != nil {
			info.Bots++
		} else {
			info.Players++
		}
		if !s.eliminated {
			info.Alive++
		}
	}
	return info
}

func (l *Lobby) countdown() time.Duration {
	return time.Duration(l.tuning.CountdownSeconds) * time.Second
}

func (l *Lobby) onTick() {
	l.do(func(now time.Time) {
		if l.closed {
			return
		}
		l.tickLocked(now)

		l.nextTick = l.nextTick.Add(l.tuning.TickInterval)
		delay := l.nextTick.Sub(now)
		if delay <= 0 {
			l.nextTick = now.Add(l.tuning.TickInterval)
			delay = l.tuning.TickInterval
		}
		l.tickTimer = l.deps.Clock.AfterFunc(delay, l.onTick)
	})
}

func (l *Lobby) tickLocked(now time.Time) {
	dt := l.tuning.TickInterval.Seconds()
	l.tickBotsLocked(now, dt)

	for _, s := range l.orderedLocked() {
		if !s.active() {
			continue
		}
		l.guard(s, func() { l.tickSessionLocked(s, now, dt) })
	}

	if len(l.sessions) > 0 {
		l.broadcastLocked(protocol.ScoreboardUpdate{Scoreboard: l.scoreboardLocked()})
	}
}

func (l *Lobby) tickSessionLocked(s *Session, now time.Time, dt float64) {
	t := l.tuning

	s.height += float64(s.momentum) * t.HeightRate * dt
	if s.raiseTier(t) {
		s.notify(protocol.TierUp{Tier: s.tier, Height: round1(s.height)})
	}
	if s.decayMomentum(t, t.TickInterval) {
		s.notify(protocol.MomentumUpdate{Momentum: s.momentum})
	}

	before := roundInt(s.hp)
	if now.Sub(s.lastActivity) > t.IdleThreshold {
		s.hp -= t.IdleHPDecay * dt
	}
	s.hp = clampHP(s.hp, t.MaxHP)
	if after := roundInt(s.hp); after != before {
		s.notify(protocol.HPUpdate{HP: after})
	}
	if s.hp <= 0 {
		l.eliminateLocked(s, l.killerForLocked(s, now), now)
		return
	}

	if s.advanceFloor(t, now, dt) {
		l.eliminateLocked(s, l.killerForLocked(s, now), now)
		return
	}
	s.notify(protocol.FloorUpdate{
		FloorHeight: round1(s.floorHeight),
		Height:      round1(s.height),
		Gap:         round1(s.height - s.floorHeight),
	})
}

func (l *Lobby) startRunLocked(s *Session, now time.Time) {
	s.started = true
	s.startedAt = now
	s.lastActivity = now
	s.countdown = nil
	l.assignSentenceLocked(s, now)
	s.notify(protocol.Start{StartTime: now.UnixMilli(), RunState: s.runState()})
}

func (l *Lobby) assignSentenceLocked(s *Session, now time.Time) {
	next := l.deps.Sentences.SentenceForTier(s.tier)
	s.sentence = []rune(next.Text)
	s.source = next.Source
	s.injected = nil
	s.combo = ComboState{Attacks: s.combo.Attacks}
	s.lastTyping = nil
	s.sentenceSince = now
	if s.bot != nil {
		s.bot.reset()
	}
}

func (l *Lobby) removeSessionLocked(s *Session) {
	if s.countdown != nil {
		s.countdown.Stop()
		s.countdown = nil
	}
	if l.sessions[s.id] != s {
		return
	}
	delete(l.sessions, s.id)
	s.notifier.LeaveChannel(Channel{LobbyID: l.id, SessionID: s.id})
}

// scheduleCleanupLocked arms the empty-lobby timer once the last session
// is gone.
func (l *Lobby) scheduleCleanupLocked() {
	if l.closed || len(l.sessions) > 0 || l.emptyTimer != nil {
		return
	}
	if hook := l.hooks.OnEmpty; hook != nil {
		l.later(func() { hook(l) })
	}
	l.emptyTimer = l.deps.Clock.AfterFunc(l.tuning.EmptyLobbyTimeout, l.onEmptyTimeout)
	l.log.Infof("[Lobby %s] empty, closing in %s", l.id, l.tuning.EmptyLobbyTimeout)
}

func (l *Lobby) onEmptyTimeout() {
	l.do(func(time.Time) {
		if l.closed {
			return
		}
		l.emptyTimer = nil
		if len(l.sessions) > 0 {
			return
		}
		l.closeLocked()
	})
}

func (l *Lobby) closeLocked() {
	if l.closed {
		return
	}
	l.closed = true
	for _, timer := range []Timer{l.tickTimer, l.botStart, l.emptyTimer} {
		if timer != nil {
			timer.Stop()
		}
	}
	l.tickTimer, l.botStart, l.emptyTimer = nil, nil, nil
	for _, s := range l.orderedLocked() {
		l.removeSessionLocked(s)
	}
	if hook := l.hooks.OnClosed; hook != nil {
		l.later(func() { hook(l) })
	}
	l.log.Infof("[Lobby %s] closed", l.id)
}

// guard isolates a panic in one session's update from the rest of the tick.
func (l *Lobby) guard(s *Session, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.log.Errorf("[Lobby %s] recovered while updating %s: %v", l.id, s.identity.Username, r)
		}
	}()
	fn()
}

// orderedLocked lists sessions in join order.
func (l *Lobby) orderedLocked() []*Session {
	out := make([]*Session, 0, len(l.sessions))
	for _, s := range l.sessions {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].seq < out[j].seq })
	return out
}

func (l *Lobby) broadcastLocked(msg protocol.Message) {
	for _, s := range l.orderedLocked() {
		s.notify(msg)
	}
}

func clampHP(hp, limit float64) float64 {
	if hp < 0 {
		return 0
	}
	if hp > limit {
		return limit
	}
	return hp
}

// pangrams is the fallback sentence source when none is configured.
type pangrams struct{}

func (pangrams) SentenceForTier(int) Sentence {
	return Sentence{Text: "the quick brown fox jumps over the lazy dog", Source: "pangram"}
}
