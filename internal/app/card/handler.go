package card

import (
	"errors"
	"net/http"
	"strconv"

	"taskboard/internal/app/session"
	"taskboard/internal/app/user"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	CreateCard(c *gin.Context)
	GetCards(c *gin.Context)
	UpdateCard(c *gin.Context)
	MoveCard(c *gin.Context)
	DeleteCard(c *gin.Context)
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

// @Summary Create card
// @Description Append a card at the end of the list
// @Tags Card
// @Accept json
// @Produce json
// @Param list_id path int true "List ID"
// @Param session_key query string true "Session key"
// @Success 201 {object} Card
// @Failure 403 {object} ErrorResponse
// @Router /api/lists/{list_id}/cards [post]
func (h *handler) CreateCard(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid list ID"})
		return
	}

	var req CreateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	card, err := h.service.CreateCard(c.Request.Context(), u.ID, listID, req.Title, req.Description)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, card)
}

// @Summary Cards of a list
// @Tags Card
// @Produce json
// @Param list_id path int true "List ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} CardsResponse
// @Failure 403 {object} ErrorResponse
// @Router /api/lists/{list_id}/cards [get]
func (h *handler) GetCards(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	listID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid list ID"})
		return
	}

	cards, err := h.service.GetCards(c.Request.Context(), u.ID, listID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, CardsResponse{Cards: cards})
}

// @Summary Update card
// @Description Update title, description, assignment or due date
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} Card
// @Failure 403 {object} ErrorResponse
// @Router /api/cards/{id} [patch]
func (h *handler) UpdateCard(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid card ID"})
		return
	}

	var req UpdateCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	card, err := h.service.UpdateCard(c.Request.Context(), u.ID, cardID, req)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, card)
}

// @Summary Move card
// @Description Store the client-computed target list and position; siblings are not renumbered
// @Tags Card
// @Accept json
// @Produce json
// @Param id path int true "Card ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /api/cards/{id}/move [patch]
func (h *handler) MoveCard(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid card ID"})
		return
	}

	var req MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	if err := h.service.MoveCard(c.Request.Context(), u.ID, cardID, req.ListID, req.Position); err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary Delete card
// @Tags Card
// @Produce json
// @Param id path int true "Card ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} ErrorResponse
// @Router /api/cards/{id} [delete]
func (h *handler) DeleteCard(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	cardID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid card ID"})
		return
	}

	if err := h.service.DeleteCard(c.Request.Context(), u.ID, cardID); err != nil {
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
	case errors.Is(err, ErrCrossBoard):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "target list belongs to a different board"})
	default:
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	}
}
