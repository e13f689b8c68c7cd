package board

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/app/session"
	"taskboard/internal/app/user"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	CreateBoard(c *gin.Context)
	GetBoards(c *gin.Context)
	GetBoardByID(c *gin.Context)
	AddMember(c *gin.Context)
	RemoveMember(c *gin.Context)
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

// @Summary Create board
// @Tags Board
// @Accept json
// @Produce json
// @Param session_key query string true "Session key"
// @Success 201 {object} Board
// @Failure 400 {object} ErrorResponse
// @Router /api/boards [post]
func (h *handler) CreateBoard(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req CreateBoardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	board, err := h.service.CreateBoard(c.Request.Context(), u.ID, req.Title, req.Description)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, board)
}

// @Summary List boards
// @Description Boards the current user owns or belongs to
// @Tags Board
// @Produce json
// @Param session_key query string true "Session key"
// @Success 200 {object} BoardListResponse
// @Router /api/boards [get]
func (h *handler) GetBoards(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	boards, err := h.service.GetBoardsForUser(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to fetch boards"})
		return
	}

	c.JSON(http.StatusOK, BoardListResponse{Boards: boards})
}

// @Summary Get board
// @Tags Board
// @Produce json
// @Param board_id path int true "Board ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} Board
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /api/boards/{board_id} [get]
func (h *handler) GetBoardByID(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board ID"})
		return
	}

	board, err := h.service.GetBoardByID(c.Request.Context(), boardID, u.ID)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not permitted"})
			return
		}
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "board not found"})
		return
	}

	c.JSON(http.StatusOK, board)
}

// @Summary Add board member
// @Tags Board
// @Accept json
// @Produce json
// @Param board_id path int true "Board ID"
// @Param session_key query string true "Session key"
// @Success 201 {object} Member
// @Failure 403 {object} ErrorResponse
// @Router /api/boards/{board_id}/members [post]
func (h *handler) AddMember(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board ID"})
		return
	}

	var req AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	member, err := h.service.AddMember(c.Request.Context(), u.ID, boardID, req.UserID, req.Role)
	if err != nil {
		if errors.Is(err, ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not permitted"})
			return
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to add member"})
		return
	}

	c.JSON(http.StatusCreated, member)
}

// @Summary Remove board member
// @Tags Board
// @Produce json
// @Param board_id path int true "Board ID"
// @Param user_id path int true "User ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /api/boards/{board_id}/members/{user_id} [delete]
func (h *handler) RemoveMember(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	boardID, err := strconv.ParseUint(c.Param("board_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid board ID"})
		return
	}
	memberUserID, err := strconv.ParseUint(c.Param("user_id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid user ID"})
		return
	}

	if err := h.service.RemoveMember(c.Request.Context(), u.ID, boardID, memberUserID); err != nil {
		if errors.Is(err, ErrForbidden) {
			c.JSON(http.StatusForbidden, ErrorResponse{Error: "not permitted"})
			return
		}
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "member not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}
