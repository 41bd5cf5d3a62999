package services

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WSConn is the part of *websocket.Conn the hub writes to.
type WSConn interface {
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// WSClient is one websocket connection of a user. Writes are serialized.
type WSClient struct {
	UserID uint
	Conn   WSConn

	mu sync.Mutex
}

func (c *WSClient) Write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Conn.WriteMessage(messageType, data)
}

// RealtimeHub fans events out to every open connection of a user.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[uint]map[*WSClient]struct{}
	logger  *zap.Logger
}

func NewRealtimeHub(logger *zap.Logger) *RealtimeHub {
	return &RealtimeHub{
		clients: make(map[uint]map[*WSClient]struct{}),
		logger:  logger.Named("realtime"),
	}
}

func (h *RealtimeHub) Register(c *WSClient) {
	h.mu.Lock()
	if h.clients[c.UserID] == nil {
		h.clients[c.UserID] = make(map[*WSClient]struct{})
	}
	h.clients[c.UserID][c] = struct{}{}
	h.mu.Unlock()
	h.logger.Debug("client registered", zap.Uint("user_id", c.UserID))
}

func (h *RealtimeHub) Unregister(c *WSClient) {
	h.mu.Lock()
	if set := h.clients[c.UserID]; set != nil {
		delete(set, c)
		if len(set) == 0 {
			delete(h.clients, c.UserID)
		}
	}
	h.mu.Unlock()
	_ = c.Conn.Close()
}

// Connections returns the number of open connections for userID.
func (h *RealtimeHub) Connections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends payload as JSON to all of userID's connections. Write
// failures are logged; the read loop owning the connection unregisters it.
func (h *RealtimeHub) Broadcast(userID uint, kind string, payload any) {
	msg, err := json.Marshal(map[string]any{"kind": kind, "data": payload})
	if err != nil {
		h.logger.Error("marshal event", zap.String("kind", kind), zap.Error(err))
		return
	}

	h.mu.RLock()
	targets := make([]*WSClient, 0, len(h.clients[userID]))
	for c := range h.clients[userID] {
		targets = append(targets, c)
	}
	h.mu.RUnlock()

	for _, c := range targets {
		if err := c.Write(websocket.TextMessage, msg); err != nil {
			h.logger.Warn("websocket write failed", zap.Uint("user_id", userID), zap.Error(err))
		}
	}
}
