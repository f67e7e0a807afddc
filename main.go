package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/Bold014/typeio-backend/config"
	"github.com/Bold014/typeio-backend/game"
	"github.com/Bold014/typeio-backend/routes"
	"github.com/Bold014/typeio-backend/services"
	"github.com/Bold014/typeio-backend/utils/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// setupRouter initializes Gin routes and middleware
func setupRouter(cfg config.Config, svc *services.AscendService) *gin.Engine {
	r := gin.New()

	// Middleware
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.SetupRoutes(r, svc)
	return r
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("[FATAL] config: %v", err)
	}
	if err := logger.Configure(cfg.LogLevel, cfg.LogEncoding); err != nil {
		logger.Fatalf("[FATAL] logger: %v", err)
	}

	tuning, err := config.LoadTuning(cfg.TuningFile)
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}
	sentences, err := services.LoadSentences(cfg.SentencesFile)
	if err != nil {
		logger.Fatalf("[FATAL] %v", err)
	}

	deps := game.Deps{
		Sentences:      sentences,
		Logger:         logger.Log,
		PersistTimeout: cfg.PersistTimeout,
	}

	// Connect to database
	var store *services.ProgressionStore
	if cfg.DatabaseURL != "" {
		db, err := config.SetupDatabase(cfg.DatabaseURL)
		if err != nil {
			logger.Fatalf("[FATAL] %v", err)
		}
		store = services.NewProgressionStore(db)
		deps.Progression = store
		logger.Info("✅ Database connected and migrated")
	} else {
		logger.Warnf("[INFO] DATABASE_URL not set, runs will not be persisted")
	}

	registry := game.NewRegistry(tuning, deps)
	svc := services.NewAscendService(registry, store)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, svc),
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Infof("🚀 Ascend server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("[FATAL] Failed to start server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown: %v", err)
	}
	registry.Shutdown()
	_ = logger.Log.Sync()
}
