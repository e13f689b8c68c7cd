package session

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.POST("/session", handler.CreateSession)
	rg.GET("/session/me", handler.GetCurrentUser)
}
