package board

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	boards := rg.Group("/boards")
	{
		boards.GET("", handler.GetBoards)
		boards.POST("", handler.CreateBoard)
		boards.GET("/:board_id", handler.GetBoardByID)
		boards.POST("/:board_id/members", handler.AddMember)
		boards.DELETE("/:board_id/members/:user_id", handler.RemoveMember)
	}
}
