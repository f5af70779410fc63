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

// MarkThreadReadController handles the mark-all-read endpoint. Rerunning on
// a fully read thread reports zero newly marked messages.
type MarkThreadReadController struct {
	markUC  *usecase.MarkThreadReadUseCase
	timeout time.Duration
}

func NewMarkThreadReadController(pool *pgxpool.Pool) *MarkThreadReadController {
	return &MarkThreadReadController{
		markUC: usecase.NewMarkThreadReadUseCase(
			repoAdapter.NewPgThreadRepository(pool),
			repoAdapter.NewPgMessageRepository(pool),
		),
		timeout: 3 * time.Second,
	}
}

func (h *MarkThreadReadController) Handle() gin.HandlerFunc {
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

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		out, err := h.markUC.Execute(ctx, usecase.MarkThreadReadInput{
			ThreadID: threadID,
			UserID:   id.UserID,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, out)
	}
}
