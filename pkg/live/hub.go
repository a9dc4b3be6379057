// Package live pushes widget updates to browsers over WebSocket.
//
// Every connection joins a room keyed by the widget session. Publish sends a
// Message to every connection in a room; messages from the browser are
// handed to Config.OnMessage. File bodies never travel over the socket; they
// are posted over plain HTTP so large drops cannot stall the heartbeat.
package live

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/vango-dev/dropzone/pkg/metrics"
)

// ErrClosed is returned by ServeWS after Close.
var ErrClosed = errors.New("live: hub closed")

// Message is a server-to-browser update.
type Message struct {
	// Type is "render" for a full widget re-render.
	Type string `json:"type"`

	// HTML is the rendered widget.
	HTML string `json:"html,omitempty"`

	// Progress is set while an upload is in flight.
	Progress *int `json:"progress,omitempty"`

	DragActive bool `json:"drag_active"`
	Files      int  `json:"files"`
}

// Config configures a Hub.
type Config struct {
	// WriteTimeout bounds a single write. Default: 10s.
	WriteTimeout time.Duration

	// PongWait is how long a connection may stay silent. Default: 60s.
	PongWait time.Duration

	// PingPeriod must be shorter than PongWait. Default: 9/10 of PongWait.
	PingPeriod time.Duration

	// MaxMessageSize limits inbound messages. Default: 4KB.
	MaxMessageSize int64

	// SendBuffer is the per-connection outbound queue. A connection whose
	// queue is full is dropped. Default: 16.
	SendBuffer int

	// CheckOrigin is passed to the upgrader. Nil allows same-origin only.
	CheckOrigin func(r *http.Request) bool

	// OnMessage receives inbound messages with the room they came from.
	OnMessage func(room string, data []byte)

	Logger  *slog.Logger
	Metrics *metrics.Collector
}

func (c *Config) setDefaults() {
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	if c.PongWait <= 0 {
		c.PongWait = 60 * time.Second
	}
	if c.PingPeriod <= 0 || c.PingPeriod >= c.PongWait {
		c.PingPeriod = c.PongWait * 9 / 10
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = 4096
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = 16
	}
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
}

// Hub tracks live connections by room.
type Hub struct {
	config   Config
	logger   *slog.Logger
	upgrader websocket.Upgrader

	mu     sync.RWMutex
	rooms  map[string]map[*conn]struct{}
	closed bool
}

type conn struct {
	ws   *websocket.Conn
	room string
	send chan []byte
	done chan struct{}
	once sync.Once
}

func (c *conn) close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// NewHub creates a Hub.
func NewHub(config Config) *Hub {
	config.setDefaults()
	return &Hub{
		config: config,
		logger: config.Logger.With("component", "live"),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     config.CheckOrigin,
		},
		rooms: make(map[string]map[*conn]struct{}),
	}
}

// ServeWS upgrades the request and serves the connection in room until it
// closes. It blocks for the lifetime of the connection.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, room string) error {
	h.mu.RLock()
	closed := h.closed
	h.mu.RUnlock()
	if closed {
		http.Error(w, "Service unavailable", http.StatusServiceUnavailable)
		return ErrClosed
	}

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// The upgrader has already written the error response.
		return err
	}

	c := &conn{
		ws:   ws,
		room: room,
		send: make(chan []byte, h.config.SendBuffer),
		done: make(chan struct{}),
	}
	if !h.register(c) {
		ws.Close()
		return ErrClosed
	}
	defer h.unregister(c)

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		h.writePump(c)
	}()
	h.readPump(c)
	c.close()
	<-writerDone
	return nil
}

func (h *Hub) register(c *conn) bool {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return false
	}
	room := h.rooms[c.room]
	if room == nil {
		room = make(map[*conn]struct{})
		h.rooms[c.room] = room
	}
	room[c] = struct{}{}
	h.mu.Unlock()

	h.config.Metrics.LiveConnected(1)
	h.logger.Debug("connection opened", "room", c.room)
	return true
}

func (h *Hub) unregister(c *conn) {
	h.mu.Lock()
	if room, ok := h.rooms[c.room]; ok {
		delete(room, c)
		if len(room) == 0 {
			delete(h.rooms, c.room)
		}
	}
	h.mu.Unlock()

	c.close()
	c.ws.Close()
	h.config.Metrics.LiveConnected(-1)
	h.logger.Debug("connection closed", "room", c.room)
}

func (h *Hub) readPump(c *conn) {
	c.ws.SetReadLimit(h.config.MaxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(h.config.PongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(h.config.PongWait))
	})

	for {
		_, data, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
				websocket.CloseNormalClosure) {
				h.logger.Warn("read error", "room", c.room, "error", err)
			}
			return
		}
		c.ws.SetReadDeadline(time.Now().Add(h.config.PongWait))
		if h.config.OnMessage != nil {
			h.config.OnMessage(c.room, data)
		}
	}
}

func (h *Hub) writePump(c *conn) {
	ticker := time.NewTicker(h.config.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case msg := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(h.config.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				h.logger.Debug("write failed", "room", c.room, "error", err)
				c.ws.Close()
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.config.WriteTimeout)); err != nil {
				c.ws.Close()
				return
			}
		case <-c.done:
			c.ws.WriteControl(
				websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(time.Second),
			)
			c.ws.Close()
			return
		}
	}
}

// Publish queues msg for every connection in room. Connections that cannot
// keep up are closed.
func (h *Hub) Publish(room string, msg Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("dropping slow connection", "room", room)
			c.close()
		}
	}
	return nil
}

// Count returns the number of open connections in room.
func (h *Hub) Count(room string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// CloseRoom disconnects every connection in room.
func (h *Hub) CloseRoom(room string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		c.close()
	}
}

// Close disconnects everyone and refuses new connections.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for _, room := range h.rooms {
		for c := range room {
			c.close()
		}
	}
}
