package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/pkg/notification"
)

// UnsubscribeTopicController detaches a device token from a broadcast topic.
type UnsubscribeTopicController struct {
	svc     *notification.Service
	timeout time.Duration
}

func NewUnsubscribeTopicController(svc *notification.Service) *UnsubscribeTopicController {
	return &UnsubscribeTopicController{svc: svc, timeout: 5 * time.Second}
}

func (h *UnsubscribeTopicController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.IdentityFrom(c); !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		token := c.Param("token")
		topic := c.Param("topic")
		if token == "" || topic == "" {
			respondError(c, http.StatusBadRequest, "bad_request", "token and topic are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.svc.Unsubscribe(ctx, token, topic); err != nil {
			respondError(c, http.StatusBadGateway, "provider_error", "failed to unsubscribe from topic")
			return
		}
		respondData(c, http.StatusOK, gin.H{"unsubscribed": true, "topic": topic})
	}
}
