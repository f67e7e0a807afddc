package main

import (
	"github.com/Bold014/typeio-backend/config"
	"github.com/Bold014/typeio-backend/utils/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("[FATAL] config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		logger.Fatalf("[FATAL] DATABASE_URL is required")
	}

	// connects + migrates
	if _, err := config.SetupDatabase(cfg.DatabaseURL); err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	logger.Info("✅ Database migration completed successfully")
}
