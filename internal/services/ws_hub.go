package services

import (
	"encoding/json"
	"fmt"
	"sync"

	"places-backend/internal/models"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// WSMessage represents a WebSocket event sent to subscribers.
type WSMessage struct {
	Type    string        `json:"type"`
	PlaceID string        `json:"place_id,omitempty"`
	Place   *models.Place `json:"place,omitempty"`
	Message string        `json:"message,omitempty"`
}

// WSHub fans out place events to connected clients. A user's connections
// receive events about that user's own places, which keeps multiple devices
// of the same account in sync. Delivery is best effort.
type WSHub struct {
	mu          sync.RWMutex
	connections map[string]map[*websocket.Conn]struct{}
}

// NewWSHub creates a new WebSocket hub
func NewWSHub() *WSHub {
	return &WSHub{
		connections: make(map[string]map[*websocket.Conn]struct{}),
	}
}

// Register adds a connection for a user. A user may hold several connections.
func (h *WSHub) Register(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.connections[userID] == nil {
		h.connections[userID] = make(map[*websocket.Conn]struct{})
	}
	h.connections[userID][conn] = struct{}{}

	log.Info().Str("user_id", userID).Msg("WebSocket connection registered")
}

// Unregister removes a connection for a user.
func (h *WSHub) Unregister(userID string, conn *websocket.Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, exists := h.connections[userID]; exists {
		if _, ok := conns[conn]; ok {
			conn.Close()
			delete(conns, conn)
			if len(conns) == 0 {
				delete(h.connections, userID)
			}
			log.Info().Str("user_id", userID).Msg("WebSocket connection unregistered")
		}
	}
}

// IsOnline reports whether a user has at least one open connection.
func (h *WSHub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.connections[userID]) > 0
}

// SendToUser sends a message to all connections of a user. Connections that
// fail to take the write are dropped.
func (h *WSHub) SendToUser(userID string, message WSMessage) error {
	data, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	h.mu.RLock()
	conns := make([]*websocket.Conn, 0, len(h.connections[userID]))
	for conn := range h.connections[userID] {
		conns = append(conns, conn)
	}
	h.mu.RUnlock()

	if len(conns) == 0 {
		return fmt.Errorf("user %s is not connected", userID)
	}

	for _, conn := range conns {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			h.Unregister(userID, conn)
			log.Warn().Err(err).Str("user_id", userID).Msg("Dropped failing WebSocket connection")
		}
	}

	return nil
}

// NotifyPlaceCreated tells the owner's connections about a new place.
func (h *WSHub) NotifyPlaceCreated(place *models.Place) {
	if !h.IsOnline(place.CreatorID) {
		return
	}
	if err := h.SendToUser(place.CreatorID, WSMessage{Type: "place_created", Place: place}); err != nil {
		log.Warn().Err(err).Str("user_id", place.CreatorID).Msg("Failed to notify place creation")
	}
}

// NotifyPlaceDeleted tells the owner's connections that a place is gone.
func (h *WSHub) NotifyPlaceDeleted(ownerID, placeID string) {
	if !h.IsOnline(ownerID) {
		return
	}
	if err := h.SendToUser(ownerID, WSMessage{Type: "place_deleted", PlaceID: placeID}); err != nil {
		log.Warn().Err(err).Str("user_id", ownerID).Msg("Failed to notify place deletion")
	}
}
