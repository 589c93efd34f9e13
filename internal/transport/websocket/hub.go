package websocket

import (
	"context"
	"io"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512

	// Messages buffered per client before it is dropped as too slow.
	sendBuffer = 256

	// DefaultStream is used when a spectator names no stream.
	DefaultStream = "default"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Spectating is read-only, so any origin may watch.
	CheckOrigin: func(*http.Request) bool { return true },
}

// Client is one spectator connection.
type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	stream string
}

type outbound struct {
	stream string
	data   []byte
}

// Hub maintains the set of active clients and broadcasts messages.
type Hub struct {
	streams    map[string]map[*Client]bool
	broadcast  chan outbound
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	clients    atomic.Int64
	logger     *log.Logger
}

// NewHub creates a new hub. A nil logger discards logs.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Hub{
		streams:    make(map[string]map[*Client]bool),
		broadcast:  make(chan outbound),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// Run starts the hub's event loop and blocks until ctx is done, then
// disconnects every client.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case msg := <-h.broadcast:
			h.deliver(msg)

		case <-ctx.Done():
			for _, clients := range h.streams {
				for client := range clients {
					h.unregisterClient(client)
				}
			}
			return
		}
	}
}

// Clients returns the number of connected spectators.
func (h *Hub) Clients() int {
	return int(h.clients.Load())
}

// WaitForClients blocks until at least n spectators are connected or ctx
// is done.
func (h *Hub) WaitForClients(ctx context.Context, n int) error {
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for h.Clients() < n {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-h.done:
			return context.Canceled
		case <-ticker.C:
		}
	}
	return nil
}

// Publish queues data for every client of stream. It is a no-op once
// the hub has stopped.
func (h *Hub) Publish(stream string, data []byte) {
	select {
	case h.broadcast <- outbound{stream: stream, data: data}:
	case <-h.done:
	}
}

// ServeWS upgrades the request and registers the spectator.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request) {
	stream := r.URL.Query().Get("stream")
	if stream == "" {
		stream = DefaultStream
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "err", err)
		return
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		stream: stream,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) registerClient(client *Client) {
	if h.streams[client.stream] == nil {
		h.streams[client.stream] = make(map[*Client]bool)
	}
	h.streams[client.stream][client] = true
	h.clients.Add(1)

	h.logger.Info("spectator joined", "stream", client.stream, "clients", len(h.streams[client.stream]))
}

func (h *Hub) unregisterClient(client *Client) {
	clients, ok := h.streams[client.stream]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	h.clients.Add(-1)

	if len(clients) == 0 {
		delete(h.streams, client.stream)
	}
	h.logger.Info("spectator left", "stream", client.stream, "clients", len(clients))
}

func (h *Hub) deliver(msg outbound) {
	for client := range h.streams[msg.stream] {
		select {
		case client.send <- msg.data:
		default:
			// Too slow to keep up
			h.unregisterClient(client)
		}
	}
}

// readPump discards spectator input and detects disconnects.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	//nolint:errcheck // Deadline errors surface on the next read
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket error", "err", err)
			}
			return
		}
	}
}

// writePump sends queued messages, one WebSocket message each, and pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel
				//nolint:errcheck // Connection is closing anyway
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			//nolint:errcheck // Deadline errors surface on the write
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
