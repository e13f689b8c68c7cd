package notification

import (
	"net/http"
	"strconv"

	"taskboard/internal/app/session"
	"taskboard/internal/app/user"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	ListNotifications(c *gin.Context)
	MarkRead(c *gin.Context)
	MarkAllRead(c *gin.Context)
	GetPreferences(c *gin.Context)
	UpdatePreferences(c *gin.Context)
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

// @Summary List notifications
// @Description Get the current user's notifications, newest first, with the unread count
// @Tags Notification
// @Produce json
// @Param session_key query string true "Session key"
// @Param limit query int false "Page size"
// @Param offset query int false "Offset"
// @Success 200 {object} ListResponse
// @Failure 401 {object} ErrorResponse
// @Router /api/notifications [get]
func (h *handler) ListNotifications(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if err != nil || limit < 1 {
		limit = 20
	}
	offset, err := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if err != nil || offset < 0 {
		offset = 0
	}

	notifications, unread, err := h.service.ListNotifications(c.Request.Context(), u.ID, limit, offset)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get notifications"})
		return
	}

	c.JSON(http.StatusOK, ListResponse{
		Notifications: notifications,
		UnreadCount:   unread,
	})
}

// @Summary Mark notification read
// @Tags Notification
// @Produce json
// @Param id path int true "Notification ID"
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} ErrorResponse
// @Router /api/notifications/{id}/read [patch]
func (h *handler) MarkRead(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	notificationID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid notification ID"})
		return
	}

	if err := h.service.MarkRead(c.Request.Context(), u.ID, notificationID); err != nil {
		c.JSON(http.StatusNotFound, ErrorResponse{Error: "notification not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// @Summary Mark all notifications read
// @Tags Notification
// @Produce json
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Router /api/notifications/read-all [patch]
func (h *handler) MarkAllRead(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	updated, err := h.service.MarkAllRead(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to mark notifications read"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"updated": updated})
}

// @Summary Get notification preferences
// @Description Get the current user's preferences, creating defaults on first access
// @Tags Notification
// @Produce json
// @Param session_key query string true "Session key"
// @Success 200 {object} Preferences
// @Router /api/notifications/preferences [get]
func (h *handler) GetPreferences(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	prefs, err := h.service.GetPreferences(c.Request.Context(), u.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to get preferences"})
		return
	}

	c.JSON(http.StatusOK, prefs)
}

// @Summary Update notification preferences
// @Tags Notification
// @Accept json
// @Produce json
// @Param session_key query string true "Session key"
// @Success 200 {object} Preferences
// @Failure 400 {object} ErrorResponse
// @Router /api/notifications/preferences [put]
func (h *handler) UpdatePreferences(c *gin.Context) {
	u, ok := h.currentUser(c)
	if !ok {
		return
	}

	var req UpdatePreferencesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	prefs, err := h.service.UpdatePreferences(c.Request.Context(), u.ID, req)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, prefs)
}
