package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/infrastructure/logger"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// ListMessagesController handles the thread history endpoint. Fetching marks
// the returned messages from other senders as read for the caller.
type ListMessagesController struct {
	listUC  *usecase.ListMessagesUseCase
	timeout time.Duration
}

func NewListMessagesController(pool *pgxpool.Pool) *ListMessagesController {
	return &ListMessagesController{
		listUC: usecase.NewListMessagesUseCase(
			repoAdapter.NewPgThreadRepository(pool),
			repoAdapter.NewPgMessageRepository(pool),
			logger.Log,
		),
		timeout: 3 * time.Second,
	}
}

func (h *ListMessagesController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		threadID := c.Param("threadId")
		if threadID == "" {
			respondError(c, http.StatusBadRequest, "bad_request", "threadId is required")
			return
		}

		limit, offset := paging(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		msgs, err := h.listUC.Execute(ctx, usecase.ListMessagesInput{
			ThreadID:   threadID,
			ViewerID:   id.UserID,
			ViewerRole: id.Role,
			Limit:      limit,
			Offset:     offset,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"messages": msgs})
	}
}
