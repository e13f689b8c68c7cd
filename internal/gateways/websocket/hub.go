package websocket

import (
	"crypto/rand"
	"encoding/base64"

	"taskboard/internal/app/session"
	"taskboard/internal/utils"

	"go.uber.org/zap"
)

type Client struct {
	hub        *Hub
	conn       ClientConn
	ID         string
	UserID     uint64
	SessionKey string
}

type ClientConn interface {
	ReadMessage() (messageType int, p []byte, err error)
	WriteJSON(v interface{}) error
	Close() error
}

func generateClientID() string {
	bytes := make([]byte, 6)
	if _, err := rand.Read(bytes); err != nil {
		return "xxxxx"
	}
	return base64.URLEncoding.EncodeToString(bytes)
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan utils.Event
	sessionSvc session.Service
	logger     *zap.SugaredLogger
}

func NewHub(sessionSvc session.Service, logger *zap.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan utils.Event, 64),
		sessionSvc: sessionSvc,
		logger:     logger.Sugar(),
	}
}

// BroadcastEvent queues a board event for delivery to every connected client.
// Registered on the event bus from bootstrap.
func (h *Hub) BroadcastEvent(event utils.Event) {
	select {
	case h.broadcast <- event:
	default:
		h.logger.Warnw("Broadcast buffer full, event dropped", "event", event.Event)
	}
}

func (h *Hub) Run() {
	h.logger.Info("WebSocket Hub started")

	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Infow("Client connected",
				"client_id", client.ID,
				"user_id", client.UserID,
				"clients_count", len(h.clients),
			)

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				h.logger.Infow("Client disconnected",
					"client_id", client.ID,
					"clients_count", len(h.clients),
				)
			}

		case event := <-h.broadcast:
			for client := range h.clients {
				if err := client.conn.WriteJSON(event); err != nil {
					h.logger.Warnw("Failed to push event, dropping client",
						"client_id", client.ID,
						"event", event.Event,
						"error", err,
					)
					client.conn.Close()
					delete(h.clients, client)
				}
			}
		}
	}
}
