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

// ResolveThreadController handles the create-or-continue endpoint: the
// caller names who the conversation is with, the engine answers with the
// canonical thread. An optional first message is sent into the resolved
// thread in the same call.
type ResolveThreadController struct {
	resolveUC *usecase.ResolveThreadUseCase
	sendUC    *usecase.SendMessageUseCase
	timeout   time.Duration
}

func NewResolveThreadController(pool *pgxpool.Pool, policy chat.ModerationPolicy, events usecase.EventSink) *ResolveThreadController {
	threads := repoAdapter.NewPgThreadRepository(pool)
	messages := repoAdapter.NewPgMessageRepository(pool)
	directory := repoAdapter.NewPgDirectory(pool)
	merge := usecase.NewMergeThreadsUseCase(threads, logger.Log)
	return &ResolveThreadController{
		resolveUC: usecase.NewResolveThreadUseCase(threads, merge, events, logger.Log),
		sendUC:    usecase.NewSendMessageUseCase(threads, messages, directory, policy, events),
		timeout:   5 * time.Second,
	}
}

type resolveThreadRequest struct {
	ParticipantIDs []string `json:"participant_ids" binding:"required"`
	Kind           string   `json:"kind" binding:"required"`
	Title          *string  `json:"title"`
	FirstMessage   *string  `json:"first_message"`
}

func (h *ResolveThreadController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := auth.IdentityFrom(c)
		if !ok {
			respondError(c, http.StatusUnauthorized, "unauthorized", "missing identity")
			return
		}

		var req resolveThreadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		out, err := h.resolveUC.Execute(ctx, usecase.ResolveThreadInput{
			RequesterID:    id.UserID,
			ParticipantIDs: req.ParticipantIDs,
			Kind:           chat.ThreadKind(req.Kind),
			Title:          req.Title,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}

		var firstMessage *chat.Message
		if req.FirstMessage != nil && *req.FirstMessage != "" {
			firstMessage, err = h.sendUC.Execute(ctx, usecase.SendMessageInput{
				ThreadID: out.Thread.ID,
				SenderID: id.UserID,
				Content:  *req.FirstMessage,
				MsgType:  chat.MessageTypeText,
			})
			if err != nil {
				respondUseCaseError(c, err)
				return
			}
		}

		status := http.StatusOK
		if out.Created {
			status = http.StatusCreated
		}
		respondData(c, status, gin.H{
			"thread":        out.Thread,
			"created":       out.Created,
			"first_message": firstMessage,
		})
	}
}
