package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	qport "school-app-backend/internal/infrastructure/queue/port"
	"school-app-backend/internal/infrastructure/realtime"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
	chatHTTP "school-app-backend/internal/pkg/chat/presentation/http"
	"school-app-backend/internal/pkg/notification"
	notificationHTTP "school-app-backend/internal/pkg/notification/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1.
func RegisterRoutes(r *gin.Engine, pool *pgxpool.Pool, client qport.Client, router *realtime.Router, policy chat.ModerationPolicy, events usecase.EventSink, notifySvc *notification.Service) {
	v1 := r.Group("/api/v1")
	chatHTTP.RegisterRoutes(v1, pool, client, router, policy, events)
	notificationHTTP.RegisterRoutes(v1, notifySvc)
}
