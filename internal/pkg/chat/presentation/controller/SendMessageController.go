package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// SendMessageController handles the send endpoint. Sending is synchronous:
// the caller needs the approval state back to know whether the message is
// live or held for moderation.
type SendMessageController struct {
	sendUC  *usecase.SendMessageUseCase
	timeout time.Duration
}

func NewSendMessageController(pool *pgxpool.Pool, policy chat.ModerationPolicy, events usecase.EventSink) *SendMessageController {
	return &SendMessageController{
		sendUC: usecase.NewSendMessageUseCase(
			repoAdapter.NewPgThreadRepository(pool),
			repoAdapter.NewPgMessageRepository(pool),
			repoAdapter.NewPgDirectory(pool),
			policy,
			events,
		),
		timeout: 5 * time.Second,
	}
}

type sendMessageRequest struct {
	Content string `json:"content" binding:"required"`
	MsgType *int16 `json:"msg_type"`
}

func (h *SendMessageController) Handle() gin.HandlerFunc {
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

		var req sendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "bad_request", err.Error())
			return
		}

		msgType := chat.MessageTypeText
		if req.MsgType != nil {
			msgType = chat.MessageType(*req.MsgType)
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
		defer cancel()

		msg, err := h.sendUC.Execute(ctx, usecase.SendMessageInput{
			ThreadID: threadID,
			SenderID: id.UserID,
			Content:  req.Content,
			MsgType:  msgType,
		})
		if err != nil {
			respondUseCaseError(c, err)
			return
		}
		respondData(c, http.StatusCreated, gin.H{"message": msg})
	}
}
