package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"school-app-backend/internal/auth"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/notification"
)

// AnnounceController handles the admin topic-broadcast endpoint used for
// school-wide announcements (events, closures, fee reminders).
type AnnounceController struct {
	svc     *notification.Service
	timeout time.Duration
}

func NewAnnounceController(svc *notification.Service) *AnnounceController {
	return &AnnounceController{svc: svc, timeout: 10 * time.Second}
}

type announceRequest struct {
	Topic string            `json:"topic" binding:"required"`
	Title string            `json:"title" binding:"required"`
	Body  string            `json:"body" binding:"required"`
	Data  map[string]string `json:"data"`
}

func (h *AnnounceController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}
		if id.Role != chat.RoleAdmin {
			respondError(c, http.StatusForbidden, "forbidden", "admin role required")
			return
		}

		var req announceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.svc.Announce(ctx, req.Topic, req.Title, req.Body, req.Data); err != nil {
			respondError(c, http.StatusBadGateway, "provider_error", "failed to send announcement")
			return
		}
		respondData(c, http.StatusOK, gin.H{"announced": true, "topic": req.Topic})
	}
}
