package notification

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	notifications := rg.Group("/notifications")
	{
		notifications.GET("", handler.ListNotifications)
		notifications.PATCH("/:id/read", handler.MarkRead)
		notifications.PATCH("/read-all", handler.MarkAllRead)
		notifications.GET("/preferences", handler.GetPreferences)
		notifications.PUT("/preferences", handler.UpdatePreferences)
	}
}
