package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"freelancedesk/internal/config"
	"freelancedesk/internal/handler"
	"freelancedesk/internal/httpserver"
	"freelancedesk/internal/repository"
	"freelancedesk/internal/repository/memory"
	pkgconfig "freelancedesk/pkg/config"
	"freelancedesk/pkg/db"
	"freelancedesk/pkg/logger"
	"freelancedesk/pkg/redis"
)

func main() {
	env := pflag.String("env", pkgconfig.GetConfigEnv(), "configuration environment (base.yaml + <env>.yaml)")
	configDir := pflag.String("config-dir", pkgconfig.GetEnv("CONFIG_DIR", "config"), "directory holding the yaml files")
	pflag.Parse()

	cfg, err := config.Load(*env, *configDir)
	if err != nil {
		// logger 还没有初始化
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	gin.SetMode(cfg.Server.GinMode)

	log.Info("Starting freelancedesk...",
		zap.String("env", *env),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("port", cfg.Server.Port),
	)

	// Storage
	var (
		stores handler.Stores
		pinger httpserver.Pinger
	)
	switch cfg.Storage.Backend {
	case config.BackendMemory:
		log.Warn("Using the in-memory store, data is lost on restart")
		mem := memory.New()
		stores = handler.Stores{
			Clients:  mem.Clients(),
			Projects: mem.Projects(),
			Tasks:    mem.Tasks(),
			Payments: mem.Payments(),
			Stats:    mem.Stats(),
		}
		pinger = mem
	default:
		if cfg.Storage.Migrate {
			log.Info("Running database migrations...")
			if err := db.RunMigrations(cfg.DB, log); err != nil {
				log.Fatal("Failed to run migrations", zap.Error(err))
			}
		}

		log.Info("Initializing database connection...")
		dbConn, err := db.NewConnection(cfg.DB, log)
		if err != nil {
			log.Fatal("Failed to init DB", zap.Error(err))
		}
		defer dbConn.Close()

		stores = handler.Stores{
			Clients:  repository.NewClientRepository(dbConn, log),
			Projects: repository.NewProjectRepository(dbConn, log),
			Tasks:    repository.NewTaskRepository(dbConn, log),
			Payments: repository.NewPaymentRepository(dbConn, log),
			Stats:    repository.NewStatsRepository(dbConn, log),
		}
		pinger = dbConn
	}

	// Redis (optional, rate limiting)
	var rdb *goredis.Client
	if cfg.Redis.Enabled() {
		rdb, err = redis.NewRedisClient(cfg.Redis, log)
		if err != nil {
			log.Fatal("Failed to init Redis", zap.Error(err))
		}
		defer rdb.Close()
	} else {
		log.Info("Redis not configured, rate limiting disabled")
	}

	router := httpserver.NewRouter(httpserver.Deps{
		Stores:            stores,
		Store:             pinger,
		Redis:             rdb,
		RequestsPerMinute: cfg.RateLimit.RequestsPerMinute,
		Logger:            log,
	})
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("HTTP server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down HTTP server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	log.Info("freelancedesk shutdown complete")
}
