package main

import (
	"context"
	"time"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"freelancedesk/internal/config"
	"freelancedesk/internal/handler"
	"freelancedesk/internal/repository"
	"freelancedesk/internal/seed"
	pkgconfig "freelancedesk/pkg/config"
	"freelancedesk/pkg/db"
	"freelancedesk/pkg/logger"
)

func main() {
	env := pflag.String("env", pkgconfig.GetConfigEnv(), "configuration environment")
	configDir := pflag.String("config-dir", pkgconfig.GetEnv("CONFIG_DIR", "config"), "directory holding the yaml files")
	username := pflag.String("username", "", "also create this user (requires --password)")
	password := pflag.String("password", "", "password for --username, stored as a bcrypt hash")
	pflag.Parse()

	cfg, err := config.Load(*env, *configDir)
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}
	log := logger.NewLogger(cfg.Log)
	defer log.Sync()

	if cfg.Storage.Backend != config.BackendPostgres {
		log.Fatal("Seeding needs the postgres backend", zap.String("backend", cfg.Storage.Backend))
	}
	if (*username == "") != (*password == "") {
		log.Fatal("--username and --password must be given together")
	}

	if err := db.RunMigrations(cfg.DB, log); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}
	dbConn, err := db.NewConnection(cfg.DB, log)
	if err != nil {
		log.Fatal("Failed to init DB", zap.Error(err))
	}
	defer dbConn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	stores := handler.Stores{
		Clients:  repository.NewClientRepository(dbConn, log),
		Projects: repository.NewProjectRepository(dbConn, log),
		Tasks:    repository.NewTaskRepository(dbConn, log),
		Payments: repository.NewPaymentRepository(dbConn, log),
		Stats:    repository.NewStatsRepository(dbConn, log),
	}
	if _, err := seed.Run(ctx, stores, time.Now(), log); err != nil {
		log.Fatal("Seeding failed", zap.Error(err))
	}

	if *username != "" {
		users := repository.NewUserRepository(dbConn, log)
		if _, err := seed.EnsureUser(ctx, users, *username, *password, log); err != nil {
			log.Fatal("Failed to create user", zap.Error(err))
		}
	}
}
