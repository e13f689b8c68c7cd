package activity

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	GetBoardFeed(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Board activity feed
// @Description Get the formatted activity feed for a board, newest first
// @Tags Activity
// @Produce json
// @Param board_id path int true "Board ID"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} FeedResponse
// @Failure 400 {object} ErrorResponse
// @Router /api/boards/{board_id}/activity [get]
func (h *handler) GetBoardFeed(c *gin.Context) {
	boardIDStr := c.Param("board_id")
	boardID, err := strconv.ParseUint(boardIDStr, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board ID"})
		return
	}

	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 20
	}

	items, total, err := h.service.GetBoardFeed(c.Request.Context(), boardID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get activity feed"})
		return
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)

	c.JSON(http.StatusOK, FeedResponse{
		Items: items,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
		},
	})
}
