package events

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub fans events out to connected websocket clients. Publish enqueues
// onto a buffered channel and drops when the buffer is full, so request
// handlers never wait on slow consumers.
type Hub struct {
	queue chan Event

	mu     sync.Mutex
	closed bool
	conns  map[*websocket.Conn]struct{}

	upgrader websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		queue: make(chan Event, 256),
		conns: map[*websocket.Conn]struct{}{},
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Run drains the queue until the channel is closed.
func (h *Hub) Run() {
	for ev := range h.queue {
		h.fanout(ev)
	}
}

// Close is idempotent; a Publish after Close is a silent no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	h.closed = true
	close(h.queue)
}

func (h *Hub) Publish(ev Event) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return
	}
	select {
	case h.queue <- ev:
	default:
		// buffer full: drop rather than block the request
		log.Printf("[events] dropped %s %s", ev.Kind, ev.ID)
	}
}

func (h *Hub) fanout(ev Event) {
	msg, err := json.Marshal(ev)
	if err != nil {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	for conn := range h.conns {
		if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
			conn.Close()
			delete(h.conns, conn)
		}
	}
}

// Serve upgrades the request and keeps the connection registered until
// the client goes away. Clients only listen; inbound frames are read
// solely to detect disconnects.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	h.mu.Lock()
	h.conns[conn] = struct{}{}
	h.mu.Unlock()

	go func() {
		defer func() {
			h.mu.Lock()
			delete(h.conns, conn)
			h.mu.Unlock()
			conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return nil
}
