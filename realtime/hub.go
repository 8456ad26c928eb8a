// Package realtime pushes domain events to connected clients over
// WebSocket. Every client joins its user room and its role room on connect.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/UmangSachdeva/MessMate/metrics"
	"github.com/UmangSachdeva/MessMate/models"
	"github.com/sirupsen/logrus"
)

const (
	EventBookingCreated   = "booking:created"
	EventBookingUpdated   = "booking:updated"
	EventPaymentCompleted = "payment:completed"
	EventWalletUpdated    = "wallet:updated"
	EventInventoryAlert   = "inventory:alert"
	EventNotificationNew  = "notification:new"
	EventAdminBroadcast   = "admin:broadcast"
)

// sendBuffer is the number of frames queued per client before it is
// considered too slow and dropped.
const sendBuffer = 64

type Message struct {
	Event     string      `json:"event"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

func UserRoom(userID string) string    { return "user_" + userID }
func RoleRoom(role models.Role) string { return "role_" + string(role) }

type Client struct {
	UserID string
	Role   models.Role
	send   chan []byte
	rooms  []string
}

func newClient(userID string, role models.Role) *Client {
	return &Client{
		UserID: userID,
		Role:   role,
		send:   make(chan []byte, sendBuffer),
		rooms:  []string{UserRoom(userID), RoleRoom(role)},
	}
}

// Hub is the connection registry. The zero value is not usable, use NewHub.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[string]map[*Client]struct{}
	closed bool
	log    *logrus.Entry
}

func NewHub(log *logrus.Entry) *Hub {
	return &Hub{
		rooms: make(map[string]map[*Client]struct{}),
		log:   log.WithField("component", "realtime"),
	}
}

// Register creates a client and joins it to its rooms. It returns nil once
// the hub is closed.
func (h *Hub) Register(userID string, role models.Role) *Client {
	c := newClient(userID, role)

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return nil
	}
	for _, room := range c.rooms {
		members, ok := h.rooms[room]
		if !ok {
			members = make(map[*Client]struct{})
			h.rooms[room] = members
		}
		members[c] = struct{}{}
	}
	metrics.RealtimeConnections.Inc()
	h.log.WithFields(logrus.Fields{"user": userID, "role": role}).Debug("Client connected")
	return c
}

// Unregister removes c from every room and closes its queue. Calling it
// twice is harmless.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	present := false
	for _, room := range c.rooms {
		members := h.rooms[room]
		if _, ok := members[c]; ok {
			present = true
			delete(members, c)
		}
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	if present {
		close(c.send)
		metrics.RealtimeConnections.Dec()
	}
}

func (h *Hub) EmitToUser(userID string, event string, data interface{}) {
	h.emit(UserRoom(userID), event, data)
}

func (h *Hub) EmitToRole(role models.Role, event string, data interface{}) {
	h.emit(RoleRoom(role), event, data)
}

// Broadcast sends to every connected client once.
func (h *Hub) Broadcast(event string, data interface{}) {
	frame, ok := h.encode(event, data)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	seen := make(map[*Client]struct{})
	for _, members := range h.rooms {
		for c := range members {
			if _, dup := seen[c]; dup {
				continue
			}
			seen[c] = struct{}{}
			h.deliverLocked(c, frame)
		}
	}
}

func (h *Hub) emit(room, event string, data interface{}) {
	frame, ok := h.encode(event, data)
	if !ok {
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.rooms[room] {
		h.deliverLocked(c, frame)
	}
}

// deliverLocked queues frame for c or drops c when its queue is full.
func (h *Hub) deliverLocked(c *Client, frame []byte) {
	select {
	case c.send <- frame:
	default:
		h.log.WithField("user", c.UserID).Warn("Dropping slow client")
		h.removeLocked(c)
	}
}

func (h *Hub) encode(event string, data interface{}) ([]byte, bool) {
	frame, err := json.Marshal(Message{Event: event, Data: data, Timestamp: time.Now()})
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("Failed to encode event")
		return nil, false
	}
	return frame, true
}

// RoomSize reports how many clients are in room.
func (h *Hub) RoomSize(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Close disconnects every client and refuses new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, members := range h.rooms {
		for c := range members {
			h.removeLocked(c)
		}
	}
	h.rooms = make(map[string]map[*Client]struct{})
}
