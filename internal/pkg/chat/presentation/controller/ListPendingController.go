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

// ListPendingController handles the moderation queue endpoint.
type ListPendingController struct {
	listUC  *usecase.ListPendingUseCase
	timeout time.Duration
}

func NewListPendingController(pool *pgxpool.Pool) *ListPendingController {
	return &ListPendingController{
		listUC:  usecase.NewListPendingUseCase(repoAdapter.NewPgMessageRepository(pool)),
		timeout: 3 * time.Second,
	}
}

func (h *ListPendingController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		limit, offset := paging(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		msgs, err := h.listUC.Execute(ctx, usecase.ListPendingInput{
			RequesterRole: id.Role,
			Limit:         limit,
			Offset:        offset,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"messages": msgs})
	}
}
