package rest

import (
	"github.com/dfryer1193/signboard/display/application"
	"github.com/dfryer1193/signboard/internal/middleware"
	"github.com/dfryer1193/signboard/internal/ws"
	"github.com/gin-gonic/gin"
)

// NewApi wires the display routes onto the router.
func NewApi(router *gin.Engine, service *application.DisplayService, hub *ws.Hub, adminSecret string, imageDir string) {
	handler := NewDisplayHandler(service, adminSecret)

	apiGroup := router.Group("/api")
	{
		apiGroup.GET("/image", handler.GetImage)
		// Plain updates are deliberately unguarded; only upload carries the
		// shared-secret requirement.
		apiGroup.POST("/image", handler.UpdateImage)
		apiGroup.GET("/images", handler.ListImages)
		apiGroup.POST("/login", handler.Login)
		apiGroup.POST("/upload", middleware.RequireSecret(adminSecret), handler.UploadImage)
	}

	router.GET("/ws", hub.ServeWS)
	router.Static(application.StaticImagePath, imageDir)
}
