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

// RejectMessageController handles the moderation reject endpoint.
type RejectMessageController struct {
	rejectUC *usecase.RejectMessageUseCase
	timeout  time.Duration
}

func NewRejectMessageController(pool *pgxpool.Pool) *RejectMessageController {
	return &RejectMessageController{
		rejectUC: usecase.NewRejectMessageUseCase(repoAdapter.NewPgMessageRepository(pool)),
		timeout:  5 * time.Second,
	}
}

func (h *RejectMessageController) Handle() gin.HandlerFunc {
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

		msg, err := h.rejectUC.Execute(ctx, usecase.RejectMessageInput{
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
