package game

import (
	"time"

	"github.com/Bold014/typeio-backend/protocol"
)

// Identity is who a session plays as. UserID 0 marks a guest.
type Identity struct {
	Username string
	UserID   uint
	Bot      bool
}

// Channel names a notifier's membership in a lobby broadcast group.
type Channel struct {
	LobbyID   string
	SessionID string
}

// Notifier is the capability a lobby needs from a participant's connection.
// Notify must not block.
type Notifier interface {
	Notify(msg protocol.Message)
	JoinChannel(ch Channel)
	LeaveChannel(ch Channel)
}

// SimulatedSession is the notifier behind bot sessions. Messages are dropped
// unless OnMessage is set.
type SimulatedSession struct {
	OnMessage func(protocol.Message)
}

func (s SimulatedSession) Notify(msg protocol.Message) {
	if s.OnMessage != nil {
		s.OnMessage(msg)
	}
}

func (SimulatedSession) JoinChannel(Channel)  {}
func (SimulatedSession) LeaveChannel(Channel) {}

// ComboState tracks typing deltas between progress reports.
type ComboState struct {
	LastPosition int
	LastErrors   int
	Chars        int
	Attacks      int
}

// Session is one participant's run. All fields are owned by the lobby mutex.
type Session struct {
	id       string
	seq      uint64
	identity Identity
	notifier Notifier

	height           float64
	hp               float64
	momentum         int
	momentumProgress float64
	decayPause       time.Duration
	tier             int
	floorHeight      float64

	sentence       []rune
	source         string
	injected       []protocol.Range
	combo          ComboState
	lastTyping     *protocol.Typing
	lastWPM        float64
	sentenceSince  time.Time
	lastActivity   time.Time
	startedAt      time.Time
	started        bool
	eliminated     bool
	knockouts      int
	finalHeight    float64
	finalTier      int
	lastAttacker   string
	lastAttackedAt time.Time

	countdown Timer
	bot       *botState
}

func newSession(id string, seq uint64, identity Identity, n Notifier, tuning Tuning) *Session {
	return &Session{
		id:       id,
		seq:      seq,
		identity: identity,
		notifier: n,
		hp:       tuning.MaxHP,
		momentum: 1,
		tier:     1,
	}
}

func (s *Session) ID() string         { return s.id }
func (s *Session) Identity() Identity { return s.identity }

func (s *Session) active() bool { return s.started && !s.eliminated }

func (s *Session) notify(msg protocol.Message) {
	if s.notifier != nil {
		s.notifier.Notify(msg)
	}
}

func (s *Session) runState() protocol.RunState {
	return protocol.RunState{
		Sentence: string(s.sentence),
		Source:   s.source,
		Tier:     s.tier,
		Height:   round1(s.height),
		HP:       roundInt(s.hp),
		Momentum: s.momentum,
	}
}

// SessionSnapshot is a point-in-time copy of a session.
type SessionSnapshot struct {
	ID             string
	Identity       Identity
	Height         float64
	HP             float64
	Momentum       int
	Tier           int
	FloorHeight    float64
	Sentence       string
	InjectedRanges []protocol.Range
	Combo          ComboState
	WPM            float64
	Started        bool
	Eliminated     bool
	Knockouts      int
}

func (s *Session) snapshot() SessionSnapshot {
	return SessionSnapshot{
		ID:             s.id,
		Identity:       s.identity,
		Height:         s.height,
		HP:             s.hp,
		Momentum:       s.momentum,
		Tier:           s.tier,
		FloorHeight:    s.floorHeight,
		Sentence:       string(s.sentence),
		InjectedRanges: append([]protocol.Range(nil), s.injected...),
		Combo:          s.combo,
		WPM:            s.lastWPM,
		Started:        s.started,
		Eliminated:     s.eliminated,
		Knockouts:      s.knockouts,
	}
}
