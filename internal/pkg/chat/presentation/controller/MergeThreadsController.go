package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/infrastructure/logger"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// MergeThreadsController handles an explicit admin merge of named duplicate
// threads into a chosen primary, for cases the automatic resolution and the
// sweep have not caught (e.g. duplicates reported by support).
type MergeThreadsController struct {
	mergeUC *usecase.MergeThreadsUseCase
	timeout time.Duration
}

func NewMergeThreadsController(pool *pgxpool.Pool) *MergeThreadsController {
	return &MergeThreadsController{
		mergeUC: usecase.NewMergeThreadsUseCase(repoAdapter.NewPgThreadRepository(pool), logger.Log),
		timeout: 30 * time.Second,
	}
}

type mergeThreadsRequest struct {
	PrimaryID    string   `json:"primary_id" binding:"required"`
	DuplicateIDs []string `json:"duplicate_ids" binding:"required"`
}

type mergeResultResponse struct {
	DuplicateID   string `json:"duplicate_id"`
	MessagesMoved int64  `json:"messages_moved"`
	Error         string `json:"error,omitempty"`
}

func (h *MergeThreadsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}
		if id.Role != chat.RoleAdmin {
			respondError(c, http.StatusForbidden, "forbidden", "admin role required")
			return
		}

		var req mergeThreadsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", "primary_id and duplicate_ids are required")
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		results, err := h.mergeUC.Execute(ctx, usecase.MergeThreadsInput{
			PrimaryID:    req.PrimaryID,
			DuplicateIDs: req.DuplicateIDs,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		out := make([]mergeResultResponse, 0, len(results))
		for _, r := range results {
			row := mergeResultResponse{DuplicateID: r.DuplicateID, MessagesMoved: r.Messages}
			if r.Err != nil {
				row.Error = r.Err.Error()
			}
			out = append(out, row)
		}
		respondData(c, http.StatusOK, gin.H{"primary_id": req.PrimaryID, "results": out})
	}
}
