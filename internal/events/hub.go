package events

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

// Conn is the part of *websocket.Conn the hub writes to. WriteControl and
// Close may be called concurrently with WriteJSON; nothing else may.
type Conn interface {
	WriteJSON(v any) error
	WriteControl(messageType int, data []byte, deadline time.Time) error
	SetWriteDeadline(t time.Time) error
	Close() error
}

// client owns one connection. Only its writer goroutine calls WriteJSON.
type client struct {
	conn      Conn
	send      chan Event
	done      chan struct{}
	closeOnce sync.Once
}

func newClient(conn Conn) *client {
	return &client{
		conn: conn,
		send: make(chan Event, sendBuffer),
		done: make(chan struct{}),
	}
}

func (c *client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

func (h *Hub) writeLoop(userID int64, c *client) {
	for {
		select {
		case <-c.done:
			return
		case e := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(e); err != nil {
				h.Unregister(userID, c.conn)
				return
			}
		}
	}
}

// Hub keeps one feed connection per admin. Broadcast never waits on a
// socket: events are queued per connection and a connection whose queue
// is full is dropped.
type Hub struct {
	connections map[int64]*client
	mutex       sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		connections: make(map[int64]*client),
	}
}

// Register replaces and closes any previous connection of the same user.
func (h *Hub) Register(userID int64, conn Conn) {
	c := newClient(conn)

	h.mutex.Lock()
	old, exists := h.connections[userID]
	h.connections[userID] = c
	h.mutex.Unlock()

	if exists && old.conn != conn {
		old.close()
	}
	go h.writeLoop(userID, c)
}

// Unregister drops conn if it is still the user's current connection.
func (h *Hub) Unregister(userID int64, conn Conn) {
	h.mutex.Lock()
	c, exists := h.connections[userID]
	if exists && c.conn == conn {
		delete(h.connections, userID)
	}
	h.mutex.Unlock()

	if exists && c.conn == conn {
		c.close()
	}
}

// Broadcast queues e for every connection and returns how many accepted it.
func (h *Hub) Broadcast(e Event) int {
	h.mutex.RLock()
	targets := make(map[int64]*client, len(h.connections))
	for id, c := range h.connections {
		targets[id] = c
	}
	h.mutex.RUnlock()

	queued := 0
	for id, c := range targets {
		select {
		case c.send <- e:
			queued++
		default:
			h.Unregister(id, c.conn)
		}
	}
	return queued
}

// Ping sends a keep-alive to the user's connection.
func (h *Hub) Ping(userID int64) error {
	h.mutex.RLock()
	c, exists := h.connections[userID]
	h.mutex.RUnlock()
	if !exists {
		return websocket.ErrCloseSent
	}
	return c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

func (h *Hub) IsOnline(userID int64) bool {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	_, exists := h.connections[userID]
	return exists
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	return len(h.connections)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	clients := h.connections
	h.connections = make(map[int64]*client)
	h.mutex.Unlock()

	for _, c := range clients {
		c.close()
	}
}
