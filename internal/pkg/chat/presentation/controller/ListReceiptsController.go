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

// ListReceiptsController handles the read-by endpoint, restricted to the
// message sender and moderators.
type ListReceiptsController struct {
	listUC  *usecase.ListReceiptsUseCase
	timeout time.Duration
}

func NewListReceiptsController(pool *pgxpool.Pool) *ListReceiptsController {
	return &ListReceiptsController{
		listUC:  usecase.NewListReceiptsUseCase(repoAdapter.NewPgMessageRepository(pool)),
		timeout: 3 * time.Second,
	}
}

func (h *ListReceiptsController) Handle() gin.HandlerFunc {
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

		receipts, err := h.listUC.Execute(ctx, usecase.ListReceiptsInput{
			MessageID:     messageID,
			RequesterID:   id.UserID,
			RequesterRole: id.Role,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"receipts": receipts})
	}
}
