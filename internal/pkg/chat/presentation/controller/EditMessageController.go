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

// EditMessageController handles in-place content edits, sender-only.
type EditMessageController struct {
	editUC  *usecase.EditMessageUseCase
	timeout time.Duration
}

func NewEditMessageController(pool *pgxpool.Pool) *EditMessageController {
	return &EditMessageController{
		editUC:  usecase.NewEditMessageUseCase(repoAdapter.NewPgMessageRepository(pool)),
		timeout: 3 * time.Second,
	}
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

func (h *EditMessageController) Handle() gin.HandlerFunc {
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

		var req editMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		msg, err := h.editUC.Execute(ctx, usecase.EditMessageInput{
			MessageID:   messageID,
			RequesterID: id.UserID,
			Content:     req.Content,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"message": msg})
	}
}
