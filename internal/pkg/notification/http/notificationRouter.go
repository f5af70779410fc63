package http

import (
	"github.com/gin-gonic/gin"

	"school-app-backend/internal/auth"
	"school-app-backend/internal/pkg/notification"
	"school-app-backend/internal/pkg/notification/controller"
)

// RegisterRoutes registers device and announcement endpoints under the given
// router group.
func RegisterRoutes(g *gin.RouterGroup, svc *notification.Service) {
	registerCtl := controller.NewRegisterDeviceController(svc)
	unregisterCtl := controller.NewUnregisterDeviceController(svc)
	subscribeCtl := controller.NewSubscribeTopicController(svc)
	unsubscribeCtl := controller.NewUnsubscribeTopicController(svc)
	announceCtl := controller.NewAnnounceController(svc)

	authed := g.Group("", auth.Middleware())

	authed.POST("/devices", registerCtl.Handle())
	authed.DELETE("/devices/:token", unregisterCtl.Handle())
	authed.POST("/devices/:token/subscriptions/:topic", subscribeCtl.Handle())
	authed.DELETE("/devices/:token/subscriptions/:topic", unsubscribeCtl.Handle())

	authed.POST("/admin/announcements", announceCtl.Handle())
}
