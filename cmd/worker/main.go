package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	cacheAdapter "school-app-backend/internal/infrastructure/cache/adapter"
	"school-app-backend/internal/infrastructure/database"
	"school-app-backend/internal/infrastructure/logger"
	pushAdapter "school-app-backend/internal/infrastructure/push/adapter"
	queueAdapter "school-app-backend/internal/infrastructure/queue/adapter"
	"school-app-backend/internal/pkg/chat/application/task"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// The worker consumes queued tasks: provider push deliveries for offline
// users and administrative duplicate-thread sweeps.
func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found or could not be loaded")
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(startCtx)
	if err != nil {
		logger.Errorf("failed to connect to database: %v", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter()
	if err != nil {
		logger.Errorf("failed to connect to redis: %v", err)
		os.Exit(1)
	}
	defer cache.Close()

	sender, err := pushAdapter.NewFCMSenderFromEnv(startCtx)
	if err != nil {
		logger.Errorf("failed to initialize push provider: %v", err)
		os.Exit(1)
	}

	srv, err := queueAdapter.NewAsynqServer()
	if err != nil {
		logger.Errorf("failed to create queue server: %v", err)
		os.Exit(1)
	}

	task.RegisterDeliverPushTask(srv,
		repoAdapter.NewPgDeviceRepository(pool),
		cache,
		sender,
		logger.Log,
	)
	task.RegisterSweepThreadsTask(srv,
		repoAdapter.NewPgThreadRepository(pool),
		logger.Log,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("worker started")
	if err := srv.Run(ctx); err != nil {
		logger.Errorf("worker stopped: %v", err)
		os.Exit(1)
	}
}
