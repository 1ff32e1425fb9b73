// Package ws pushes live reminder updates to connected dashboards over
// WebSocket using gorilla/websocket.
//
// # Quick start
//
//	// Define a hub and start it:
//	var ReminderHub = ws.NewHub()
//	func init() { go ReminderHub.Run() }
//
//	// In your route handler (after auth):
//	ws.Upgrade(w, r, ReminderHub, claims.UserID)
//
//	// Push to one tailor's open dashboards:
//	ReminderHub.SendTo(tailorID, payload)
package ws

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shashiranjanraj/tailorcraft/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 64 * 1024 // 64 KB
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// Allow all origins by default — restrict in production.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// SetCheckOrigin replaces the default (allow-all) origin checker.
func SetCheckOrigin(fn func(r *http.Request) bool) {
	upgrader.CheckOrigin = fn
}

// ─── Client ───────────────────────────────────────────────────────────────────

// Client represents a single connected WebSocket client. TailorID identifies
// whose dashboard this connection belongs to; a tailor may have several open.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	TailorID string
}

// readPump pumps messages from the WebSocket connection to the hub.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Warn("ws: unexpected close", "error", err)
			}
			break
		}
		c.hub.Inbound <- Message{Client: c, Data: msg}
	}
}

// writePump pumps messages from the hub to the WebSocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Send queues a message to be sent to this specific client.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		// Buffer full — drop message.
	}
}

// ─── Hub ──────────────────────────────────────────────────────────────────────

// Message is an inbound message received from a client.
type Message struct {
	Client *Client
	Data   []byte
}

// targeted is a message addressed to one tailor's connections.
type targeted struct {
	tailorID string
	data     []byte
}

// Hub maintains all active WebSocket connections, keyed by tailor so
// reminder pushes reach only the dashboards they belong to.
type Hub struct {
	clients    map[*Client]bool
	byTailor   map[string]map[*Client]bool
	Broadcast  chan []byte  // send to all connected clients
	Inbound    chan Message // messages received from clients
	direct     chan targeted
	register   chan *Client
	unregister chan *Client
	count      chan chan int
	// OnMessage is called for every inbound message (optional).
	OnMessage func(hub *Hub, msg Message)
}

// NewHub creates a new Hub. Call hub.Run() in a goroutine at startup.
func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		byTailor:   make(map[string]map[*Client]bool),
		Broadcast:  make(chan []byte, 256),
		Inbound:    make(chan Message, 256),
		direct:     make(chan targeted, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		count:      make(chan chan int),
	}
}

// Run starts the hub event loop. Must be run in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			if client.TailorID != "" {
				if h.byTailor[client.TailorID] == nil {
					h.byTailor[client.TailorID] = make(map[*Client]bool)
				}
				h.byTailor[client.TailorID][client] = true
			}
			logger.Info("ws: client connected", "tailor_id", client.TailorID, "total", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				h.drop(client)
				logger.Info("ws: client disconnected", "total", len(h.clients))
			}

		case msg := <-h.Broadcast:
			for client := range h.clients {
				select {
				case client.send <- msg:
				default:
					h.drop(client)
				}
			}

		case t := <-h.direct:
			for client := range h.byTailor[t.tailorID] {
				select {
				case client.send <- t.data:
				default:
					h.drop(client)
				}
			}

		case msg := <-h.Inbound:
			if h.OnMessage != nil {
				h.OnMessage(h, msg)
			}

		case reply := <-h.count:
			reply <- len(h.clients)
		}
	}
}

func (h *Hub) drop(client *Client) {
	delete(h.clients, client)
	close(client.send)
	if client.TailorID != "" {
		delete(h.byTailor[client.TailorID], client)
		if len(h.byTailor[client.TailorID]) == 0 {
			delete(h.byTailor, client.TailorID)
		}
	}
}

// SendTo queues data for every open connection belonging to tailorID.
func (h *Hub) SendTo(tailorID string, data []byte) {
	select {
	case h.direct <- targeted{tailorID: tailorID, data: data}:
	default:
		// Hub overloaded — drop push, clients refetch on next poll.
	}
}

// ClientCount returns the number of currently connected clients.
func (h *Hub) ClientCount() int {
	reply := make(chan int, 1)
	h.count <- reply
	return <-reply
}

// ─── Upgrade ─────────────────────────────────────────────────────────────────

// Upgrade upgrades an HTTP connection to a WebSocket and registers the
// resulting client with the given hub under tailorID.
func Upgrade(w http.ResponseWriter, r *http.Request, hub *Hub, tailorID string) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Error("ws: upgrade failed", "error", err)
		return
	}
	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 256), TailorID: tailorID}
	hub.register <- client
	go client.writePump()
	go client.readPump()
}
