// main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"sports-prediction/cmd"
	"sports-prediction/internal/adaptor"
	"sports-prediction/internal/data/repository"
	"sports-prediction/internal/wire"
	"sports-prediction/pkg/database"
	"sports-prediction/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	if err := run(config, logger); err != nil {
		logger.Error("Application stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}

func run(config *utils.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("session_store", config.Session.Store),
	)

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	if config.Database.AutoMigrate {
		if err := database.Migrate(database.ConnString(config.Database, "postgres"), logger); err != nil {
			return err
		}
	}

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)
	checks := map[string]adaptor.Pinger{"database": db.Ping}

	if config.Session.Store == utils.SessionStoreRedis {
		rdb, err := database.InitRedis(config.Redis)
		if err != nil {
			return err
		}
		defer rdb.Close()

		repos.Session = repository.NewRedisSessionRepository(rdb, logger)
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
		logger.Info("Redis session store connected", zap.String("addr", config.Redis.Addr))
	}

	// Wire all dependencies
	app := wire.Wiring(ctx, repos, checks, config, logger)

	if config.App.SeedDemoData {
		if err := app.Service.Admin.SeedDemoData(ctx); err != nil {
			return err
		}
	}

	if config.Session.Store == utils.SessionStorePostgres {
		app.Service.Auth.StartSessionJanitor(ctx, config.Session.CleanupInterval)
	}

	return cmd.APIServer(ctx, app.Router, config.App.Port, config.App.ShutdownTimeout, logger)
}
