package websocket

import (
	"encoding/json"
	"log"
	"sync"
	"time"

	"oficios-server/models"
)

// Event is the envelope pushed to connected clients.
type Event struct {
	Type      string      `json:"type"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// Hub tracks one connection per authenticated user and pushes lifecycle
// events to the request participants. Delivery is best-effort: a slow or
// absent client never blocks the caller.
type Hub struct {
	clients    map[uint]*Client
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
}

// NewHub creates a new hub
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[uint]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

// Run processes register/unregister requests. Call it in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			if existing, ok := h.clients[client.userID]; ok {
				close(existing.send)
			}
			h.clients[client.userID] = client
			h.mu.Unlock()

		case client := <-h.unregister:
			h.mu.Lock()
			if current, ok := h.clients[client.userID]; ok && current == client {
				delete(h.clients, client.userID)
				close(client.send)
			}
			h.mu.Unlock()
		}
	}
}

// SendToUser delivers an event to a connected user; a full send buffer or
// a disconnected user drops the event.
func (h *Hub) SendToUser(userID uint, ev *Event) {
	h.mu.RLock()
	client, ok := h.clients[userID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	payload, err := json.Marshal(ev)
	if err != nil {
		log.Printf("failed to marshal websocket event: %v", err)
		return
	}

	select {
	case client.send <- payload:
	default:
		log.Printf("websocket send buffer full for user %d, dropping event", userID)
	}
}

// RequestStatusChanged pushes a status-change event to the request's client
// and assigned worker. Implements services.Notifier.
func (h *Hub) RequestStatusChanged(req *models.ServiceRequest) {
	ev := &Event{
		Type: "request_status_changed",
		Data: map[string]interface{}{
			"request_id":  req.ID,
			"status":      req.Status,
			"category_id": req.CategoryID,
			"worker_id":   req.WorkerID,
		},
		Timestamp: time.Now(),
	}

	h.SendToUser(req.ClientID, ev)
	if req.WorkerID != nil {
		h.SendToUser(*req.WorkerID, ev)
	}
}
