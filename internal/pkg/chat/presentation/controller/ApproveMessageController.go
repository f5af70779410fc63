package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// ApproveMessageController handles the moderation approve endpoint.
type ApproveMessageController struct {
	approveUC *usecase.ApproveMessageUseCase
	timeout   time.Duration
}

func NewApproveMessageController(pool *pgxpool.Pool, events usecase.EventSink) *ApproveMessageController {
	return &ApproveMessageController{
		approveUC: usecase.NewApproveMessageUseCase(
			repoAdapter.NewPgThreadRepository(pool),
			repoAdapter.NewPgMessageRepository(pool),
			events,
		),
		timeout: 5 * time.Second,
	}
}

func (h *ApproveMessageController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		messageID := c.Param("messageId")
		if messageID == "" {
			respondError(c, http.StatusBadRequest, "bad_request", "messageId is required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		msg, err := h.approveUC.Execute(ctx, usecase.ApproveMessageInput{
			MessageID:     messageID,
			ModeratorID:   id.UserID,
			ModeratorRole: id.Role,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"message": msg})
	}
}
