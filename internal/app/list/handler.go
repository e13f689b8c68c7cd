package list

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/app/session"
	"taskboard/internal/app/user"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	CreateList(c *gin.Context)
	GetLists(c *gin.Context)
	RenameList(c *gin.Context)
	MoveList(c *gin.Context)
	DeleteList(c *gin.Context)
}

type handler struct {
	service    Service
	sessionSvc session.Service
}

func NewHandler(service Service, sessionSvc session.Service) Handler {
	return &handler{
		service:    service,
		sessionSvc: sessionSvc,
	}
}

func (h *handler) currentUser(c *gin.Context) (*user.User, bool) {
	sessionKey := c.Query("session_key")
	if sessionKey == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_key is required"})
		return nil, false
	}
	u, err := h.sessionSvc.GetUserBySessionKey(sessionKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session not found"})
		return nil, false
	}
	return u, true
}

// @Summary Create list
// @Description Append a list at the end of the board
// @Tags List
// @Accept json
// @Produce json
// @Param board_id path int true "Board ID"
// @Param session_key query string true "Session key"
// @Success 201 {object} List
// @Failure 403 {object} ErrorResponse
// @Router /api/boards/{board_id}/lists [post]
func (h *handler) CreateList(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board ID"})
		return
	}

	var req CreateListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	list, err := h.service.CreateList(c.Request.Context(), u.ID, boardID, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, list)
}

// @Summary Lists of a board
// @Tags List
// @Produce json
// @Param board_id path int true "Board ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} ListsResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/boards/{board_id}/lists [get]
func (h *handler) GetLists(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board ID"})
		return
	}

	lists, err := h.service.GetLists(c.Request.Context(), u.ID, boardID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ListsResponse{Lists: lists})
}

// @Summary Rename list
// @Tags List
// @Accept json
// @Produce json
// @Param id path int true "List ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} List
// @Failure 403 {object} ErrorResponse
// @Router /api/lists/{id} [patch]
func (h *handler) RenameList(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid list ID"})
		return
	}

	var req RenameListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	list, err := h.service.RenameList(c.Request.Context(), u.ID, listID, req.Title)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, list)
}

// @Summary Move list
// @Description Store the client-computed position; siblings are not renumbered
// @Tags List
// @Accept json
// @Produce json
// @Param id path int true "List ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /api/lists/{id}/move [patch]
func (h *handler) MoveList(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid list ID"})
		return
	}

	var req MoveListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.service.MoveList(c.Request.Context(), u.ID, listID, req.Position); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary Delete list
// @Description Delete a list and its cards
// @Tags List
// @Produce json
// @Param id path int true "List ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /api/lists/{id} [delete]
func (h *handler) DeleteList(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid list ID"})
		return
	}

	if err := h.service.DeleteList(c.Request.Context(), u.ID, listID); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func respondServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrForbidden):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: "not permitted"})
	case errors.Is(err, ErrCreateFailed):
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create, please retry"})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
