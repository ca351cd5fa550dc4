// Package livereload notifies connected browsers after each rebuild.
package livereload

import (
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Path is where the hub is mounted.
const Path = "/__ncc/reload"

// Message types.
const (
	TypeHello  = "HELLO"
	TypeAck    = "ACK"
	TypeReload = "RELOAD"
	TypeError  = "ERROR"
)

// Message is the JSON frame exchanged with clients.
type Message struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
}

// Hub tracks websocket clients and broadcasts messages to them.
type Hub struct {
	upgrader websocket.Upgrader
	clients  map[*websocket.Conn]bool
	mu       sync.Mutex
}

// NewHub creates a hub accepting connections from any origin.
func NewHub() *Hub {
	return &Hub{
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				// Dev tooling only
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		clients: make(map[*websocket.Conn]bool),
	}
}

// ServeHTTP upgrades the request and serves the client until it goes away.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Println("WebSocket upgrade error:", err)
		return
	}
	defer conn.Close()

	h.mu.Lock()
	h.clients[conn] = true
	h.mu.Unlock()

	defer func() {
		h.mu.Lock()
		delete(h.clients, conn)
		h.mu.Unlock()
	}()

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			return
		}
		if msg.Type == TypeHello {
			h.mu.Lock()
			err := conn.WriteJSON(Message{Type: TypeAck})
			h.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}

// Broadcast sends msg to every client and returns how many received it.
// Writes are serialized with the hub lock, as a connection supports only
// one concurrent writer.
func (h *Hub) Broadcast(msg Message) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	sent := 0
	for client := range h.clients {
		if err := client.WriteJSON(msg); err != nil {
			log.Printf("Failed to send message to client: %v", err)
			continue
		}
		sent++
	}
	return sent
}

// Clients returns the number of connected clients.
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}
