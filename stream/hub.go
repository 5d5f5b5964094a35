// Package stream serves world frames to websocket viewers and forwards
// their commands to the world.
package stream

import (
	"net/http"
	"net/url"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/vmihailenco/msgpack/v5"
	"go.uber.org/zap"

	"github.com/akmonengine/droplet"
)

const DEFAULT_MAX_CLIENTS = 64

// Hub tracks the connected viewers. Frames are sent as msgpack binary
// messages, a viewer too slow to keep up loses frames.
type Hub struct {
	queue      droplet.Enqueuer
	logger     *zap.Logger
	maxClients int
	upgrader   websocket.Upgrader

	mu      sync.RWMutex
	clients map[uuid.UUID]*Client
	closed  bool
}

type Option func(*Hub)

func WithLogger(logger *zap.Logger) Option {
	return func(h *Hub) {
		h.logger = logger
	}
}

func WithMaxClients(n int) Option {
	return func(h *Hub) {
		if n > 0 {
			h.maxClients = n
		}
	}
}

// NewHub creates a hub forwarding viewer commands to queue
func NewHub(queue droplet.Enqueuer, opts ...Option) *Hub {
	h := &Hub{
		queue:      queue,
		logger:     zap.NewNop(),
		maxClients: DEFAULT_MAX_CLIENTS,
		clients:    make(map[uuid.UUID]*Client),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     sameOrigin,
		},
	}
	for _, opt := range opts {
		opt(h)
	}

	return h
}

// Handler returns a mux serving the hub on /ws
func (h *Hub) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/ws", h)
	return mux
}

func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !h.canAccept() {
		http.Error(w, "too many viewers", http.StatusServiceUnavailable)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := newClient(h, conn)
	if !h.register(client) {
		conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "hub full"))
		conn.Close()
		return
	}
	h.logger.Info("viewer connected",
		zap.Stringer("client", client.id),
		zap.String("remote", r.RemoteAddr),
	)

	go client.writePump()
	go client.readPump()
}

// Broadcast encodes the frame once and queues it to every viewer.
// It matches driver.Sink.
func (h *Hub) Broadcast(frame droplet.Frame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.clients) == 0 {
		return
	}

	data, err := msgpack.Marshal(frame)
	if err != nil {
		h.logger.Error("frame encoding failed", zap.Uint64("frame", frame.FrameNumber), zap.Error(err))
		return
	}

	message := outMessage{kind: websocket.BinaryMessage, data: data}
	for _, client := range h.clients {
		select {
		case client.send <- message:
		default:
			// Client too slow, drop frame
		}
	}
}

// ClientCount returns the number of connected viewers
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Close disconnects every viewer and refuses new ones
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.closed = true
	for id, client := range h.clients {
		close(client.send)
		delete(h.clients, id)
	}
}

func (h *Hub) canAccept() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return !h.closed && len(h.clients) < h.maxClients
}

func (h *Hub) register(client *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed || len(h.clients) >= h.maxClients {
		return false
	}
	h.clients[client.id] = client
	return true
}

func (h *Hub) unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.id]; ok {
		delete(h.clients, client.id)
		close(client.send)
		h.logger.Info("viewer disconnected", zap.Stringer("client", client.id))
	}
}

// sendTo queues a message for one viewer, unless it is gone or lagging
func (h *Hub) sendTo(client *Client, message outMessage) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if _, ok := h.clients[client.id]; !ok {
		return
	}
	select {
	case client.send <- message:
	default:
	}
}

func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true // non-browser viewers don't send Origin
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}
