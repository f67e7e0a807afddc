package routes

import (
	"github.com/Bold014/typeio-backend/controllers"
	"github.com/Bold014/typeio-backend/services"
	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, svc *services.AscendService) {
	registry := svc.Registry()

	r.GET("/health", controllers.Health(registry))

	// Realtime ascend channel
	r.GET("/ws", services.HandleWebSocket(svc))

	api := r.Group("/api")

	// ----------------------
	// User routes
	// ----------------------
	api.POST("/users", controllers.RegisterUser)         // Register user
	api.GET("/users/:id", controllers.GetUser)           // Get user by id
	api.GET("/users/:id/runs", controllers.ListUserRuns) // Recent ascend runs

	// ----------------------
	// Lobby routes
	// ----------------------
	api.GET("/lobbies", controllers.ListLobbies(registry))     // Live lobbies
	api.GET("/lobbies/:id", controllers.LobbyStatus(registry)) // Lobby standings
}
