package list

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.POST("/boards/:board_id/lists", handler.CreateList)
	rg.GET("/boards/:board_id/lists", handler.GetLists)

	lists := rg.Group("/lists")
	{
		lists.PATCH("/:id", handler.RenameList)
		lists.PATCH("/:id/move", handler.MoveList)
		lists.DELETE("/:id", handler.DeleteList)
	}
}
