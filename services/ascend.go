package services

import (
	"github.com/Bold014/typeio-backend/game"
	"github.com/Bold014/typeio-backend/protocol"
	"github.com/Bold014/typeio-backend/utils/logger"
	"github.com/google/uuid"
)

var _ game.Progression = (*ProgressionStore)(nil)
var _ game.Notifier = (*Client)(nil)

// AscendService routes client events to the lobby session each client plays.
type AscendService struct {
	registry *game.Registry
	store    *ProgressionStore // nil without a database
}

func NewAscendService(registry *game.Registry, store *ProgressionStore) *AscendService {
	return &AscendService{registry: registry, store: store}
}

func (a *AscendService) Registry() *game.Registry { return a.registry }

func (a *AscendService) Join(c *Client) error {
	if _, ok := c.Channel(); ok {
		return game.ErrAlreadyJoined
	}
	l, s, err := a.registry.Join(c.identity, c)
	if err != nil {
		return err
	}
	logger.Infof("[Client %s] %s playing session %s in lobby %s", c.id, c.identity.Username, s.ID(), l.ID())
	return nil
}

func (a *AscendService) Leave(c *Client) {
	if l, ch, ok := a.lobbyOf(c); ok {
		l.Leave(ch.SessionID)
	}
}

func (a *AscendService) Typing(c *Client, in protocol.Typing) {
	if l, ch, ok := a.lobbyOf(c); ok {
		l.HandleTyping(ch.SessionID, in)
	}
}

func (a *AscendService) Complete(c *Client, in protocol.SentenceComplete) {
	if l, ch, ok := a.lobbyOf(c); ok {
		l.HandleSentenceComplete(ch.SessionID, in)
	}
}

func (a *AscendService) Disconnect(c *Client) {
	if l, ch, ok := a.lobbyOf(c); ok {
		l.Disconnect(ch.SessionID)
	}
}

func (a *AscendService) lobbyOf(c *Client) (*game.Lobby, game.Channel, bool) {
	ch, ok := c.Channel()
	if !ok {
		return nil, ch, false
	}
	l, ok := a.registry.Lobby(ch.LobbyID)
	return l, ch, ok
}

func newClientID() string {
	return uuid.NewString()
}
