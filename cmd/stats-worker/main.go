package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/billfold/billfold/internal/config"
	"github.com/billfold/billfold/internal/repository"
	"github.com/billfold/billfold/internal/service"
	"github.com/billfold/billfold/pkg/database"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	_ = godotenv.Load()

	configPath := os.Getenv("WORKER_CONFIG_PATH")
	cfg, err := config.LoadWorkerConfig(configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}

	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, disconnect, err := database.Connect(ctx, cfg.MongoURI, cfg.DatabaseName)
	if err != nil {
		logger.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer disconnect(ctx)

	invoiceRepo := repository.NewInvoiceRepository(db, logger)
	snapshotRepo := repository.NewSnapshotRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)

	worker := service.NewSnapshotWorker(invoiceRepo, snapshotRepo, userRepo, cfg.SnapshotInterval, logger)

	go worker.Run(ctx)
	logger.Infof("Snapshot worker started, interval %s", cfg.SnapshotInterval)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down")
	cancel()
}
