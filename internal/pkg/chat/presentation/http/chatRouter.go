package http

import (
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"school-app-backend/internal/auth"
	qport "school-app-backend/internal/infrastructure/queue/port"
	"school-app-backend/internal/infrastructure/realtime"
	chat "school-app-backend/internal/pkg/chat/application/domain"
	"school-app-backend/internal/pkg/chat/application/usecase"
	"school-app-backend/internal/pkg/chat/presentation/controller"
)

// RegisterRoutes registers chat endpoints under the given router group.
// It constructs per-endpoint controllers and binds them directly to routes.
func RegisterRoutes(g *gin.RouterGroup, pool *pgxpool.Pool, client qport.Client, router *realtime.Router, policy chat.ModerationPolicy, events usecase.EventSink) {
	resolveCtl := controller.NewResolveThreadController(pool, policy, events)
	listThreadsCtl := controller.NewListThreadsController(pool)
	listMsgsCtl := controller.NewListMessagesController(pool)
	sendMsgCtl := controller.NewSendMessageController(pool, policy, events)
	getMsgCtl := controller.NewGetMessageController(pool)
	editMsgCtl := controller.NewEditMessageController(pool)
	deleteMsgCtl := controller.NewDeleteMessageController(pool)
	markReadCtl := controller.NewMarkThreadReadController(pool)
	receiptsCtl := controller.NewListReceiptsController(pool)
	pendingCtl := controller.NewListPendingController(pool)
	approveCtl := controller.NewApproveMessageController(pool, events)
	rejectCtl := controller.NewRejectMessageController(pool)
	sweepCtl := controller.NewSweepThreadsController(pool, client)
	mergeCtl := controller.NewMergeThreadsController(pool)
	socketCtl := controller.NewChatSocketController(pool, router, policy, events)

	// The websocket handshake authenticates itself (browser clients cannot
	// set headers), everything else goes through the bearer middleware.
	g.GET("/chat/ws", socketCtl.Handle())

	authed := g.Group("", auth.Middleware())

	authed.POST("/threads/resolve", resolveCtl.Handle())
	authed.GET("/threads", listThreadsCtl.Handle())
	authed.GET("/threads/:threadId/messages", listMsgsCtl.Handle())
	authed.POST("/threads/:threadId/messages", sendMsgCtl.Handle())
	authed.POST("/threads/:threadId/read", markReadCtl.Handle())

	authed.GET("/messages/:messageId", getMsgCtl.Handle())
	authed.PATCH("/messages/:messageId", editMsgCtl.Handle())
	authed.DELETE("/messages/:messageId", deleteMsgCtl.Handle())
	authed.GET("/messages/:messageId/receipts", receiptsCtl.Handle())

	authed.GET("/moderation/pending", pendingCtl.Handle())
	authed.POST("/moderation/messages/:messageId/approve", approveCtl.Handle())
	authed.POST("/moderation/messages/:messageId/reject", rejectCtl.Handle())

	authed.POST("/admin/threads/sweep", sweepCtl.Handle())
	authed.POST("/admin/threads/merge", mergeCtl.Handle())
}
