package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/Bold014/typeio-backend/protocol"
	"go.uber.org/zap"
)

const testSentence = "the quick brown fox jumps over the lazy dog while the cat naps in the warm sun"

var epoch = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type fixedSentences struct{ text string }

func (f fixedSentences) SentenceForTier(tier int) Sentence {
	return Sentence{Text: f.text, Source: fmt.Sprintf("tier %d", tier)}
}

// recorder is a Notifier that keeps everything it is sent.
type recorder struct {
	mu       sync.Mutex
	msgs     []protocol.Message
	joined   []Channel
	left     []Channel
	panicsOn string
}

func (r *recorder) Notify(msg protocol.Message) {
	if r.panicsOn != "" && msg.MessageType() == r.panicsOn {
		panic("notify " + r.panicsOn)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) JoinChannel(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.joined = append(r.joined, ch)
}

func (r *recorder) LeaveChannel(ch Channel) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.left = append(r.left, ch)
}

func (r *recorder) of(msgType string) []protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []protocol.Message
	for _, m := range r.msgs {
		if m.MessageType() == msgType {
			out = append(out, m)
		}
	}
	return out
}

func (r *recorder) last(msgType string) protocol.Message {
	all := r.of(msgType)
	if len(all) == 0 {
		return nil
	}
	return all[len(all)-1]
}

type grant struct {
	userID   uint
	won      bool
	wpm      float64
	mode     string
	duration time.Duration
}

type fakeProgression struct {
	mu      sync.Mutex
	grants  []grant
	runs    []float64
	failing bool
}

func (p *fakeProgression) GrantExperience(_ context.Context, userID uint, won bool, wpm float64, mode string, d time.Duration) (*protocol.XPGain, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.grants = append(p.grants, grant{userID, won, wpm, mode, d})
	if p.failing {
		return nil, errors.New("database unavailable")
	}
	return &protocol.XPGain{XPGained: 30, NewXP: 130, OldLevel: 1, NewLevel: 2}, nil
}

func (p *fakeProgression) RecordRun(_ context.Context, _ uint, _ string, height float64, _ int, _ time.Duration) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.runs = append(p.runs, height)
	if p.failing {
		return errors.New("database unavailable")
	}
	return nil
}

// quietTuning is the default tuning without bots.
func quietTuning() Tuning {
	t := DefaultTuning()
	t.BotMin, t.BotMax = 0, 0
	return t
}

func testDeps(clock *ManualClock, seed int64) Deps {
	var n int
	var mu sync.Mutex
	return Deps{
		Clock:     clock,
		Sentences: fixedSentences{text: testSentence},
		Logger:    zap.NewNop().Sugar(),
		Rand:      rand.New(rand.NewSource(seed)),
		Spawn:     func(f func()) { f() },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			n++
			return fmt.Sprintf("s%d", n)
		},
	}
}

type lobbyFixture struct {
	lobby  *Lobby
	clock  *ManualClock
	empty  int
	closed int
}

func newFixture(t *testing.T, tuning Tuning, deps func(*Deps)) *lobbyFixture {
	t.Helper()
	f := &lobbyFixture{clock: NewManualClock(epoch)}
	d := testDeps(f.clock, 1)
	if deps != nil {
		deps(&d)
	}
	f.lobby = NewLobby("test", tuning, d, LobbyHooks{
		OnEmpty:  func(*Lobby) { f.empty++ },
		OnClosed: func(*Lobby) { f.closed++ },
	})
	f.lobby.Open()
	return f
}

func (f *lobbyFixture) join(t *testing.T, name string, userID uint) (*Session, *recorder) {
	t.Helper()
	rec := &recorder{}
	s, err := f.lobby.Join(Identity{Username: name, UserID: userID}, rec)
	if err != nil {
		t.Fatalf("join %s: %v", name, err)
	}
	return s, rec
}

func (f *lobbyFixture) snap(t *testing.T, s *Session) SessionSnapshot {
	t.Helper()
	snap, ok := f.lobby.Snapshot(s.ID())
	if !ok {
		t.Fatalf("session %s not in lobby", s.ID())
	}
	return snap
}

func (f *lobbyFixture) countdown() time.Duration {
	return f.lobby.countdown()
}

// withLock runs fn against the lobby state directly.
func (f *lobbyFixture) withLock(fn func(l *Lobby)) {
	f.lobby.mu.Lock()
	defer f.lobby.mu.Unlock()
	fn(f.lobby)
}
