package controllers

import (
	"net/http"

	"github.com/Bold014/typeio-backend/game"
	"github.com/gin-gonic/gin"
)

// ListLobbies returns every live lobby.
func ListLobbies(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, registry.Lobbies())
	}
}

// LobbyStatus returns one lobby with its current standings.
func LobbyStatus(registry *game.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		lobby, ok := registry.Lobby(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "Lobby not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"lobby":      lobby.Info(),
			"scoreboard": lobby.Scoreboard(),
		})
	}
}
