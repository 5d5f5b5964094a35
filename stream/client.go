package stream

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/akmonengine/droplet"
)

const (
	writeWait         = 10 * time.Second
	pongWait          = 60 * time.Second
	pingPeriod        = (pongWait * 9) / 10
	maxMessageSize    = 4096
	sendBufSize       = 16
	maxMessagesPerSec = 50
)

type outMessage struct {
	kind int
	data []byte
}

// Client is one viewer connection
type Client struct {
	id   uuid.UUID
	hub  *Hub
	conn *websocket.Conn
	send chan outMessage

	msgCount   int
	msgResetAt time.Time
}

func newClient(hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		id:   uuid.New(),
		hub:  hub,
		conn: conn,
		send: make(chan outMessage, sendBufSize),
	}
}

// readPump decodes viewer commands until the connection fails
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		msgType, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Warn("viewer read failed", zap.Stringer("client", c.id), zap.Error(err))
			}
			return
		}

		now := time.Now()
		if now.After(c.msgResetAt) {
			c.msgCount = 0
			c.msgResetAt = now.Add(time.Second)
		}
		c.msgCount++
		if c.msgCount > maxMessagesPerSec {
			c.hub.logger.Warn("viewer rate limit exceeded, disconnecting", zap.Stringer("client", c.id))
			return
		}

		if msgType != websocket.TextMessage {
			continue
		}
		c.handleMessage(message)
	}
}

func (c *Client) handleMessage(raw []byte) {
	cmd, err := DecodeCommand(raw)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	if err := c.hub.queue.Enqueue(cmd); err != nil {
		if errors.Is(err, droplet.ErrQueueFull) {
			c.hub.logger.Debug("command dropped", zap.Stringer("client", c.id), zap.Error(err))
		}
		c.sendError(err.Error())
	}
}

func (c *Client) sendError(msg string) {
	data, err := json.Marshal(Envelope{T: MsgError, Data: ErrorMsg{Msg: msg}})
	if err != nil {
		return
	}
	c.hub.sendTo(c, outMessage{kind: websocket.TextMessage, data: data})
}

// writePump owns the writes on the connection, and pings it while idle
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, ""))
				return
			}
			if err := c.conn.WriteMessage(message.kind, message.data); err != nil {
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
