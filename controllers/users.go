package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/Bold014/typeio-backend/config"
	"github.com/Bold014/typeio-backend/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const maxRunsPage = 100

func database(c *gin.Context) (*gorm.DB, bool) {
	if config.DB == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Persistence is disabled"})
		return nil, false
	}
	return config.DB, true
}

func userID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user id"})
		return 0, false
	}
	return uint(id), true
}

// RegisterUser creates a player account by username.
func RegisterUser(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username" binding:"required,min=1,max=32"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	username := strings.TrimSpace(req.Username)
	if username == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username is empty"})
		return
	}

	// check if already exists
	var existing models.User
	if err := db.Where("LOWER(username) = LOWER(?)", username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
		return
	}

	user := models.User{Username: username, Level: 1}
	if err := db.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, user)
}

// GetUser fetches a user by id
func GetUser(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	id, ok := userID(c)
	if !ok {
		return
	}

	var user models.User
	if err := db.First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListUserRuns returns a user's most recent ascend runs, newest first.
func ListUserRuns(c *gin.Context) {
	db, ok := database(c)
	if !ok {
		return
	}
	id, ok := userID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
		return
	}
	if limit > maxRunsPage {
		limit = maxRunsPage
	}

	var runs []models.AscendRun
	if err := db.Where("user_id = ?", id).Order("created_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	c.JSON(http.StatusOK, runs)
}
