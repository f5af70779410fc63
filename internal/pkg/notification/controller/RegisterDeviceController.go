package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/pkg/notification"
)

// RegisterDeviceController handles push token registration for the caller's
// device.
type RegisterDeviceController struct {
	svc     *notification.Service
	timeout time.Duration
}

func NewRegisterDeviceController(svc *notification.Service) *RegisterDeviceController {
	return &RegisterDeviceController{svc: svc, timeout: 3 * time.Second}
}

type registerDeviceRequest struct {
	Token    string `json:"token" binding:"required"`
	Platform string `json:"platform"`
}

func (h *RegisterDeviceController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		var req registerDeviceRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		if err := h.svc.RegisterDevice(ctx, id.UserID, req.Token, req.Platform); err != nil {
			respondError(c, http.StatusInternalServerError, "internal_error", "failed to register device")
			return
		}
		respondData(c, http.StatusCreated, gin.H{"registered": true})
	}
}
