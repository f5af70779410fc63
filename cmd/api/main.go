package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	v1 "school-app-backend/cmd/api/router/v1"
	cacheAdapter "school-app-backend/internal/infrastructure/cache/adapter"
	"school-app-backend/internal/infrastructure/database"
	"school-app-backend/internal/infrastructure/logger"
	pushAdapter "school-app-backend/internal/infrastructure/push/adapter"
	queueAdapter "school-app-backend/internal/infrastructure/queue/adapter"
	"school-app-backend/internal/infrastructure/realtime"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/fanout"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
	"school-app-backend/internal/pkg/notification"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Warn(".env file not found or could not be loaded")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := database.NewPoolFromEnv(ctx)
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

	queueClient, err := queueAdapter.NewAsynqClientFromEnv()
	if err != nil {
		logger.Errorf("failed to create queue client: %v", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	sender, err := pushAdapter.NewFCMSenderFromEnv(ctx)
	if err != nil {
		logger.Errorf("failed to initialize push provider: %v", err)
		os.Exit(1)
	}

	rt := realtime.NewRouter()
	defer rt.Close()

	dispatcher := fanout.NewDispatcher(rt, queueClient, logger.Log)
	policy := chat.ParseModerationPairs(os.Getenv("MODERATED_ROLE_PAIRS"))
	notifySvc := notification.NewService(repoAdapter.NewPgDeviceRepository(pool), sender, cache, logger.Log)

	r := gin.Default()

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	v1.RegisterRoutes(r, pool, queueClient, rt, policy, dispatcher, notifySvc)

	// Start HTTP server (blocks until shutdown)
	if err := r.Run(); err != nil {
		logger.Errorf("http server stopped: %v", err)
		os.Exit(1)
	}
}
