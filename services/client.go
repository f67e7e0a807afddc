package services

import (
	"sync"
	"time"

	"github.com/Bold014/typeio-backend/game"
	"github.com/Bold014/typeio-backend/protocol"
	"github.com/Bold014/typeio-backend/utils/logger"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 8 << 10
	sendBuffer     = 64
)

// Client is one websocket connection. It is the game.Notifier for the
// session it plays, so Notify never blocks: frames are dropped when the
// send buffer is full.
type Client struct {
	id       string
	identity game.Identity
	conn     *websocket.Conn
	svc      *AscendService
	send     chan []byte

	mu      sync.Mutex
	closed  bool
	channel *game.Channel
	once    sync.Once
}

func newClient(id string, identity game.Identity, conn *websocket.Conn, svc *AscendService) *Client {
	return &Client{
		id:       id,
		identity: identity,
		conn:     conn,
		svc:      svc,
		send:     make(chan []byte, sendBuffer),
	}
}

func (c *Client) Notify(msg protocol.Message) {
	frame, err := protocol.Encode(msg)
	if err != nil {
		logger.Errorf("[Client %s] encode %s: %v", c.id, msg.MessageType(), err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	select {
	case c.send <- frame:
	default:
		logger.Warnf("[Client %s] send buffer full, dropped %s", c.id, msg.MessageType())
	}
}

func (c *Client) JoinChannel(ch game.Channel) {
	c.mu.Lock()
	c.channel = &ch
	c.mu.Unlock()
}

func (c *Client) LeaveChannel(ch game.Channel) {
	c.mu.Lock()
	if c.channel != nil && *c.channel == ch {
		c.channel = nil
	}
	c.mu.Unlock()
}

// Channel reports the lobby session this client currently plays, if any.
func (c *Client) Channel() (game.Channel, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.channel == nil {
		return game.Channel{}, false
	}
	return *c.channel, true
}

func (c *Client) Close() {
	c.once.Do(func() {
		c.mu.Lock()
		c.closed = true
		close(c.send)
		c.mu.Unlock()
		c.conn.Close()
	})
}

// --------------------
// Client read/write pumps
// --------------------
func (c *Client) readPump() {
	defer func() {
		c.svc.Disconnect(c)
		c.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Infof("[Client %s] disconnected normally", c.id)
			} else {
				logger.Warnf("[Client %s] read error: %v", c.id, err)
			}
			return
		}
		c.handle(message)
	}
}

func (c *Client) handle(message []byte) {
	defer func() {
		if r := recover(); r != nil {
			logger.Errorf("[Client %s] recovered from panic: %v", c.id, r)
		}
	}()

	env, err := protocol.DecodeEnvelope(message)
	if err != nil {
		logger.Debugf("[Client %s] invalid message: %v", c.id, err)
		return
	}

	switch env.Type {
	case protocol.MsgJoin:
		if err := c.svc.Join(c); err != nil {
			logger.Warnf("[Client %s] join failed: %v", c.id, err)
		}
	case protocol.MsgLeave:
		c.svc.Leave(c)
	case protocol.MsgTyping:
		c.svc.Typing(c, protocol.ParseTyping(env.Data))
	case protocol.MsgSentenceComplete:
		c.svc.Complete(c, protocol.ParseSentenceComplete(env.Data))
	default:
		logger.Debugf("[Client %s] unknown message type: %s", c.id, env.Type)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Warnf("[Client %s] write error: %v", c.id, err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
