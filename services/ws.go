package services

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/Bold014/typeio-backend/game"
	"github.com/Bold014/typeio-backend/utils/logger"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const maxUsernameLen = 32

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWebSocket upgrades GET /ws?username=<name>[&user_id=<id>]. Without a
// database, or without user_id, the player is a guest.
func HandleWebSocket(svc *AscendService) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, status, err := svc.identify(c)
		if err != nil {
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			logger.Warnf("[WS] upgrade error: %v", err)
			return
		}

		client := newClient(newClientID(), identity, conn, svc)
		logger.Infof("[WS] New client: id=%s, username=%s, userID=%d", client.id, identity.Username, identity.UserID)

		go client.writePump()
		go client.readPump()
	}
}

func (a *AscendService) identify(c *gin.Context) (game.Identity, int, error) {
	username := strings.TrimSpace(c.Query("username"))
	if username == "" {
		return game.Identity{}, http.StatusBadRequest, errors.New("missing username")
	}
	if utf8.RuneCountInString(username) > maxUsernameLen {
		return game.Identity{}, http.StatusBadRequest, errors.New("username too long")
	}
	identity := game.Identity{Username: username}

	raw := c.Query("user_id")
	if raw == "" || a.store == nil {
		return identity, 0, nil
	}
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return identity, http.StatusBadRequest, errors.New("invalid user_id")
	}

	user, err := a.store.FindUser(c.Request.Context(), uint(id))
	if errors.Is(err, ErrUserNotFound) {
		return identity, http.StatusNotFound, err
	}
	if err != nil {
		logger.Errorf("[WS] user lookup %d: %v", id, err)
		return identity, http.StatusInternalServerError, errors.New("database error")
	}
	if !strings.EqualFold(user.Username, username) {
		return identity, http.StatusForbidden, errors.New("username does not match user_id")
	}

	identity.Username = user.Username
	identity.UserID = user.ID
	return identity, 0, nil
}
