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

// GetMessageController handles single-message fetch, visibility-filtered.
type GetMessageController struct {
	getUC   *usecase.GetMessageUseCase
	timeout time.Duration
}

func NewGetMessageController(pool *pgxpool.Pool) *GetMessageController {
	return &GetMessageController{
		getUC: usecase.NewGetMessageUseCase(
			repoAdapter.NewPgThreadRepository(pool),
			repoAdapter.NewPgMessageRepository(pool),
		),
		timeout: 3 * time.Second,
	}
}

func (h *GetMessageController) Handle() gin.HandlerFunc {
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

		msg, err := h.getUC.Execute(ctx, usecase.GetMessageInput{
			MessageID:  messageID,
			ViewerID:   id.UserID,
			ViewerRole: id.Role,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"message": msg})
	}
}
