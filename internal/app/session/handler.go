package session

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler interface {
	CreateSession(c *gin.Context)
	GetCurrentUser(c *gin.Context)
}

type handler struct {
	service Service
}

func NewHandler(service Service) Handler {
	return &handler{service: service}
}

// @Summary Create session
// @Description Create a session for a user identified by email, creating the user on first contact
// @Tags Session
// @Accept json
// @Produce json
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} ErrorResponse
// @Router /api/session [post]
func (h *handler) CreateSession(c *gin.Context) {
	var req CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	session, u, err := h.service.CreateSession(req.Name, req.Email, c.GetHeader("User-Agent"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to create session"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"session_key": session.SessionKey,
		"user":        u,
	})
}

// @Summary Current user
// @Description Resolve the user behind a session key
// @Tags Session
// @Produce json
// @Param session_key query string true "Session key"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} ErrorResponse
// @Router /api/session/me [get]
func (h *handler) GetCurrentUser(c *gin.Context) {
	sessionKey := c.Query("session_key")
	if sessionKey == "" {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session_key is required"})
		return
	}

	u, err := h.service.GetUserBySessionKey(sessionKey)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "session not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": u})
}
