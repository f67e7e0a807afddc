package game

import (
	"errors"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

var ErrRegistryClosed = errors.New("registry closed")

// Registry holds every live lobby and routes joins to the current one.
// A lobby stops accepting joins through the registry once it empties, and
// is dropped when it closes.
type Registry struct {
	tuning Tuning
	deps   Deps
	seeds  *rand.Rand

	mu      sync.RWMutex
	lobbies map[string]*Lobby
	active  *Lobby
	closed  bool
}

func NewRegistry(tuning Tuning, deps Deps) *Registry {
	seeds := deps.Rand
	if seeds == nil {
		seeds = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	deps.Rand = nil
	return &Registry{
		tuning:  tuning,
		deps:    deps,
		seeds:   seeds,
		lobbies: make(map[string]*Lobby),
	}
}

// Join places the participant in the active lobby, creating one if needed.
func (r *Registry) Join(identity Identity, n Notifier) (*Lobby, *Session, error) {
	for attempt := 0; attempt < 3; attempt++ {
		l, err := r.activeLobby()
		if err != nil {
			return nil, nil, err
		}
		s, err := l.Join(identity, n)
		if errors.Is(err, ErrLobbyClosed) {
			r.forget(l)
			continue
		}
		return l, s, err
	}
	return nil, nil, ErrLobbyClosed
}

func (r *Registry) activeLobby() (*Lobby, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrRegistryClosed
	}
	if r.active != nil {
		return r.active, nil
	}

	deps := r.deps
	deps.Rand = rand.New(rand.NewSource(r.seeds.Int63()))
	l := NewLobby("ascend_"+uuid.NewString(), r.tuning, deps, LobbyHooks{
		OnEmpty:  r.release,
		OnClosed: r.forget,
	})
	r.lobbies[l.id] = l
	r.active = l
	l.Open()
	return l, nil
}

// release stops routing joins to l while it stays empty.
func (r *Registry) release(l *Lobby) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == l && l.SessionCount() == 0 {
		r.active = nil
	}
}

func (r *Registry) forget(l *Lobby) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.lobbies, l.id)
	if r.active == l {
		r.active = nil
	}
}

// Lobby looks up a live lobby by id.
func (r *Registry) Lobby(id string) (*Lobby, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	l, ok := r.lobbies[id]
	return l, ok
}

// Lobbies summarizes every live lobby, oldest first.
func (r *Registry) Lobbies() []LobbyInfo {
	r.mu.RLock()
	lobbies := make([]*Lobby, 0, len(r.lobbies))
	for _, l := range r.lobbies {
		lobbies = append(lobbies, l)
	}
	r.mu.RUnlock()

	out := make([]LobbyInfo, 0, len(lobbies))
	for _, l := range lobbies {
		out = append(out, l.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out
}

// Shutdown closes every lobby and refuses further joins.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	r.closed = true
	lobbies := make([]*Lobby, 0, len(r.lobbies))
	for _, l := range r.lobbies {
		lobbies = append(lobbies, l)
	}
	r.mu.Unlock()

	for _, l := range lobbies {
		l.Close()
	}
}
