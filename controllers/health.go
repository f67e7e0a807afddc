package controllers

import (
	"net/http"
	"os"
	"runtime"
	"time"

	"github.com/Bold014/typeio-backend/config"
	"github.com/Bold014/typeio-backend/game"
	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"
)

// Health reports liveness plus process resource usage.
func Health(registry *game.Registry) gin.HandlerFunc {
	started := time.Now()
	return func(c *gin.Context) {
		body := gin.H{
			"status":     "ok",
			"timestamp":  time.Now(),
			"uptime":     time.Since(started).Round(time.Second).String(),
			"goroutines": runtime.NumGoroutine(),
			"lobbies":    len(registry.Lobbies()),
			"database":   config.DB != nil,
		}

		if proc, err := process.NewProcess(int32(os.Getpid())); err == nil {
			if mem, err := proc.MemoryInfo(); err == nil {
				body["rss_bytes"] = mem.RSS
			}
			if cpu, err := proc.CPUPercent(); err == nil {
				body["cpu_percent"] = cpu
			}
		}

		c.JSON(http.StatusOK, body)
	}
}
