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

// DeleteMessageController handles message removal, sender-only.
type DeleteMessageController struct {
	deleteUC *usecase.DeleteMessageUseCase
	timeout  time.Duration
}

func NewDeleteMessageController(pool *pgxpool.Pool) *DeleteMessageController {
	return &DeleteMessageController{
		deleteUC: usecase.NewDeleteMessageUseCase(repoAdapter.NewPgMessageRepository(pool)),
		timeout:  3 * time.Second,
	}
}

func (h *DeleteMessageController) Handle() gin.HandlerFunc {
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

		if err := h.deleteUC.Execute(ctx, usecase.DeleteMessageInput{
			MessageID:   messageID,
			RequesterID: id.UserID,
		}); err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"deleted": true})
	}
}
