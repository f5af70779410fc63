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

// ListThreadsController handles the caller's thread overview endpoint.
type ListThreadsController struct {
	listUC  *usecase.ListThreadsUseCase
	timeout time.Duration
}

func NewListThreadsController(pool *pgxpool.Pool) *ListThreadsController {
	return &ListThreadsController{
		listUC:  usecase.NewListThreadsUseCase(repoAdapter.NewPgThreadRepository(pool)),
		timeout: 3 * time.Second,
	}
}

func (h *ListThreadsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		limit, offset := paging(c)

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		threads, err := h.listUC.Execute(ctx, usecase.ListThreadsInput{
			UserID: id.UserID,
			Limit:  limit,
			Offset: offset,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, gin.H{"threads": threads})
	}
}
