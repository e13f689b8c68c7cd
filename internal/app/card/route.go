package card

import "github.com/gin-gonic/gin"

func RegisterRoutes(rg *gin.RouterGroup, handler Handler) {
	rg.POST("/lists/:id/cards", handler.CreateCard)
	rg.GET("/lists/:id/cards", handler.GetCards)

	cards := rg.Group("/cards")
	{
		cards.PATCH("/:id", handler.UpdateCard)
		cards.PATCH("/:id/move", handler.MoveCard)
		cards.DELETE("/:id", handler.DeleteCard)
	}
}
