package activity

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.GET("/boards/:board_id/activity", handler.GetBoardFeed)
}
