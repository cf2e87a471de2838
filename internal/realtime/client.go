package realtime

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/mcoot/auctionhouse/internal/model"
)

// ConnectionConfig holds configuration for websocket connections
type ConnectionConfig struct {
	WriteTimeout    time.Duration
	ReadTimeout     time.Duration
	PingInterval    time.Duration
	MaxMessageSize  int64
	ReadBufferSize  int
	WriteBufferSize int
	SendBufferSize  int
	CheckOrigin     func(r *http.Request) bool
}

// DefaultConnectionConfig returns default websocket configuration
func DefaultConnectionConfig() ConnectionConfig {
	return ConnectionConfig{
		WriteTimeout:    10 * time.Second,
		ReadTimeout:     60 * time.Second,
		PingInterval:    30 * time.Second,
		MaxMessageSize:  1 << 20, // bulk player uploads
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		SendBufferSize:  256,
		CheckOrigin: func(r *http.Request) bool {
			return true
		},
	}
}

// MessageHandler processes frames read from a connection
type MessageHandler interface {
	Handle(connID model.ConnectionID, data []byte)
	Disconnect(connID model.ConnectionID)
}

// Client is one websocket connection
type Client struct {
	id          model.ConnectionID
	conn        *websocket.Conn
	send        chan []byte
	hub         *Hub
	handler     MessageHandler
	config      ConnectionConfig
	connectedAt time.Time
	logger      *slog.Logger

	closeOnce sync.Once
}

func newClient(id model.ConnectionID, conn *websocket.Conn, hub *Hub, handler MessageHandler, cfg ConnectionConfig, logger *slog.Logger) *Client {
	return &Client{
		id:          id,
		conn:        conn,
		send:        make(chan []byte, cfg.SendBufferSize),
		hub:         hub,
		handler:     handler,
		config:      cfg,
		connectedAt: time.Now(),
		logger:      logger.With(slog.String("connection_id", string(id))),
	}
}

// ID returns the connection id
func (c *Client) ID() model.ConnectionID {
	return c.id
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		_ = c.conn.Close()
	})
}

// writePump sends queued messages and keepalive pings
func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if !ok {
				// Hub closed the channel
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.logger.Warn("failed to write message", slog.Any("error", err))
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.logger.Warn("failed to send ping", slog.Any("error", err))
				return
			}
		}
	}
}

// readPump reads frames until the connection fails, then tears the client down
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.handler.Disconnect(c.id)
		c.close()
	}()

	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("unexpected websocket close", slog.Any("error", err))
			}
			return
		}

		c.handle(message)
		_ = c.conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
	}
}

// handle dispatches one frame. A panic drops the frame, not the connection.
func (c *Client) handle(message []byte) {
	defer func() {
		if err := recover(); err != nil {
			c.logger.Error("panic handling message", slog.Any("panic", err))
		}
	}()
	c.handler.Handle(c.id, message)
}
