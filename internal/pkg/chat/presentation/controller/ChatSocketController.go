package controller

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/infrastructure/realtime"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
	repoAdapter "school-app-backend/internal/pkg/chat/persistence/repository/adapter"
)

// ChatSocketController handles the websocket endpoint for realtime chat
// traffic. Message delivery to other participants goes through the fan-out
// dispatcher, the same path HTTP sends take; the socket additionally carries
// room-scoped ephemeral frames (typing) that never touch storage.
type ChatSocketController struct {
	router          *realtime.Router
	sendMessageUC   *usecase.SendMessageUseCase
	joinThreadUC    *usecase.JoinThreadUseCase
	inflightTimeout time.Duration
}

func NewChatSocketController(pool *pgxpool.Pool, router *realtime.Router, policy chat.ModerationPolicy, events usecase.EventSink) *ChatSocketController {
	threads := repoAdapter.NewPgThreadRepository(pool)
	messages := repoAdapter.NewPgMessageRepository(pool)
	directory := repoAdapter.NewPgDirectory(pool)
	return &ChatSocketController{
		router:          router,
		sendMessageUC:   usecase.NewSendMessageUseCase(threads, messages, directory, policy, events),
		joinThreadUC:    usecase.NewJoinThreadUseCase(threads),
		inflightTimeout: 5 * time.Second,
	}
}

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Token auth guards the handshake; browser origin is not trusted
		// either way.
		return true
	},
}

type inboundFrame struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id,omitempty"`
	Content  string `json:"content,omitempty"`
	MsgType  *int16 `json:"msg_type,omitempty"`
}

type errorFrame struct {
	Type  string `json:"type"`
	Code  string `json:"code"`
	Error string `json:"error"`
}

type ackFrame struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id,omitempty"`
}

type sentFrame struct {
	Type    string       `json:"type"`
	Message chat.Message `json:"message"`
}

type typingFrame struct {
	Type     string `json:"type"`
	ThreadID string `json:"thread_id"`
	UserID   string `json:"user_id"`
}

const defaultReadTimeout = 60 * time.Second

// Handle upgrades HTTP connections to websocket and processes frames until
// the client disconnects.
func (ctl *ChatSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := auth.VerifyRequest(c.Request)
		if err != nil {
			respondError(c, http.StatusUnauthorized, "unauthorized", "invalid or missing token")
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just return.
			return
		}

		conn := realtime.NewConnection(id.UserID, ws)
		ctl.router.Attach(conn)
		defer func() {
			ctl.router.Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 20) // 1MB payload cap
		_ = ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(defaultReadTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected"}); err == nil {
			_ = conn.Send(payload)
		}

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway, websocket.CloseNoStatusReceived) ||
					errors.Is(err, websocket.ErrCloseSent) {
					return
				}
				ctl.replyError(conn, "read_error", err.Error())
				return
			}

			var frame inboundFrame
			if err := json.Unmarshal(data, &frame); err != nil {
				ctl.replyError(conn, "bad_request", "invalid payload")
				continue
			}

			switch frame.Type {
			case "join":
				ctl.handleJoin(c, conn, frame)
			case "leave":
				ctl.handleLeave(conn, frame)
			case "typing":
				ctl.handleTyping(conn, frame)
			case "message":
				ctl.handleMessage(c, conn, *id, frame)
			default:
				ctl.replyError(conn, "unsupported_type", "unknown frame type")
			}
		}
	}
}

func (ctl *ChatSocketController) handleJoin(c *gin.Context, conn *realtime.Connection, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	err := ctl.joinThreadUC.Execute(ctx, usecase.JoinThreadInput{
		ThreadID: frame.ThreadID,
		UserID:   conn.UserID,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	ctl.router.Join(frame.ThreadID, conn)

	if payload, err := json.Marshal(ackFrame{Type: "joined", ThreadID: frame.ThreadID}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleLeave(conn *realtime.Connection, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required")
		return
	}
	ctl.router.Leave(frame.ThreadID, conn)

	if payload, err := json.Marshal(ackFrame{Type: "left", ThreadID: frame.ThreadID}); err == nil {
		_ = conn.Send(payload)
	}
}

// handleTyping broadcasts an ephemeral indicator to everyone joined to the
// room on this node. No validation beyond room membership; the frame is
// never stored.
func (ctl *ChatSocketController) handleTyping(conn *realtime.Connection, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required")
		return
	}

	payload, err := json.Marshal(typingFrame{Type: "typing", ThreadID: frame.ThreadID, UserID: conn.UserID})
	if err != nil {
		return
	}
	ctl.router.Broadcast(frame.ThreadID, payload, conn.UserID)
}

func (ctl *ChatSocketController) handleMessage(c *gin.Context, conn *realtime.Connection, id auth.Identity, frame inboundFrame) {
	if frame.ThreadID == "" {
		ctl.replyError(conn, "bad_request", "thread_id is required")
		return
	}

	msgType := chat.MessageTypeText
	if frame.MsgType != nil {
		msgType = chat.MessageType(*frame.MsgType)
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), ctl.inflightTimeout)
	defer cancel()

	result, err := ctl.sendMessageUC.Execute(ctx, usecase.SendMessageInput{
		ThreadID: frame.ThreadID,
		SenderID: id.UserID,
		Content:  frame.Content,
		MsgType:  msgType,
	})
	if err != nil {
		ctl.handleUseCaseError(conn, err)
		return
	}

	// Fan-out to the other participants already happened inside the use
	// case when the message went live; the sender just gets the stored
	// message back, approval state included.
	if payload, err := json.Marshal(sentFrame{Type: "sent", Message: *result}); err == nil {
		_ = conn.Send(payload)
	}
}

func (ctl *ChatSocketController) handleUseCaseError(conn *realtime.Connection, err error) {
	switch {
	case errors.Is(err, usecase.ErrPersistence):
		ctl.replyError(conn, "internal_error", "unexpected persistence error")
	case errors.Is(err, chat.ErrNotParticipant):
		ctl.replyError(conn, "forbidden", "user is not a participant in this thread")
	case errors.Is(err, chat.ErrThreadNotFound):
		ctl.replyError(conn, "not_found", "thread not found")
	case errors.Is(err, chat.ErrThreadNotActive):
		ctl.replyError(conn, "conflict", "thread is no longer active")
	default:
		ctl.replyError(conn, "bad_request", err.Error())
	}
}

func (ctl *ChatSocketController) replyError(conn *realtime.Connection, code string, message string) {
	frame := errorFrame{
		Type:  "error",
		Code:  code,
		Error: message,
	}
	if payload, err := json.Marshal(frame); err == nil {
		_ = conn.Send(payload)
	}
}
