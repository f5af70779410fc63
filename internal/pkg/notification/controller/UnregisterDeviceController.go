package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/pkg/notification"
)

// UnregisterDeviceController handles push token removal.
type UnregisterDeviceController struct {
	svc     *notification.Service
	timeout time.Duration
}

func NewUnregisterDeviceController(svc *notification.Service) *UnregisterDeviceController {
	return &UnregisterDeviceController{svc: svc, timeout: 3 * time.Second}
}

func (h *UnregisterDeviceController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		token := c.Param("token")
		if token == "" {
			respondError(c, http.StatusBadRequest, "bad_request", "token is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.svc.UnregisterDevice(ctx, id.UserID, token); err != nil {
			respondError(c, http.StatusInternalServerError, "internal_error", "failed to unregister device")
			return
		}
		respondData(c, http.StatusOK, gin.H{"unregistered": true})
	}
}
