package controller

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/infrastructure/logger"
	qport "school-app-backend/internal/infrastructure/queue/port"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/task"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// SweepThreadsController handles the admin duplicate-sweep trigger. The
// sweep runs inline by default and returns its report; ?async=true enqueues
// it to the worker instead.
type SweepThreadsController struct {
	sweepUC *usecase.SweepThreadsUseCase
	queue   qport.Client
	timeout time.Duration
}

func NewSweepThreadsController(pool *pgxpool.Pool, queue qport.Client) *SweepThreadsController {
	return &SweepThreadsController{
		sweepUC: usecase.NewSweepThreadsUseCase(repoAdapter.NewPgThreadRepository(pool), logger.Log),
		queue:   queue,
		timeout: 30 * time.Second,
	}
}

type sweepThreadsRequest struct {
	Kind string `json:"kind"`
}

func (h *SweepThreadsController) Handle() gin.HandlerFunc {
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

		var req sweepThreadsRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			respondError(c, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		kind := chat.ThreadKind(req.Kind)
		if req.Kind != "" && !kind.IsValid() {
			respondError(c, http.StatusBadRequest, "bad_request", "kind must be direct or group")
			return
		}

		if c.Query("async") == "true" {
			h.enqueue(c, kind)
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		report, err := h.sweepUC.Execute(ctx, usecase.SweepThreadsInput{Kind: kind})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusOK, report)
	}
}

func (h *SweepThreadsController) enqueue(c *gin.Context, kind chat.ThreadKind) {
	kinds := []chat.ThreadKind{chat.ThreadKindDirect, chat.ThreadKindGroup}
	if kind != "" {
		kinds = []chat.ThreadKind{kind}
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	taskIDs := make([]string, 0, len(kinds))
	for _, k := range kinds {
		b, err := json.Marshal(task.SweepThreadsPayload{Kind: k})
		if err != nil {
			respondError(c, http.StatusInternalServerError, "internal_error", "failed to encode task payload")
			return
		}
		opts := qport.EnqueueOption{Queue: "default", MaxRetry: 3}
		id, err := h.queue.Enqueue(ctx, qport.Task{Type: task.SweepThreadsTaskType, Payload: b}, opts)
		if err != nil {
			respondError(c, http.StatusServiceUnavailable, "queue_unavailable", "failed to enqueue sweep")
			return
		}
		taskIDs = append(taskIDs, id)
	}
	respondData(c, http.StatusAccepted, gin.H{"queued": true, "task_ids": taskIDs})
}
