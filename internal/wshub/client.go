package wshub

import (
	"context"
	"sync/atomic"
	"time"

	"triviabuzz/internal/metrics"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

const sendBuffer = 256

const pingInterval = 20 * time.Second

// Client represents a single WebSocket connection joined to a room.
// The handle ID is unique per connection and never reused after close.
type Client struct {
	ID       string
	UserID   string
	Name     string
	IsHost   bool
	RoomCode string
	Conn     *websocket.Conn
	Send     chan []byte

	closed atomic.Bool
	left   atomic.Bool
}

func NewClient(conn *websocket.Conn, roomCode, userID, name string, isHost bool) *Client {
	return &Client{
		ID:       uuid.New().String(),
		UserID:   userID,
		Name:     name,
		IsHost:   isHost,
		RoomCode: roomCode,
		Conn:     conn,
		Send:     make(chan []byte, sendBuffer),
	}
}

// WritePump reads from the Send channel and writes to the WebSocket
// connection, pinging periodically so dead peers are detected.
func (c *Client) WritePump(ctx context.Context) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-c.Send:
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				c.closed.Store(true)
				return
			}
		case <-ticker.C:
			if err := c.Conn.Ping(ctx); err != nil {
				c.closed.Store(true)
				return
			}
		}
	}
}

// TrySend queues data without blocking. It returns false once the client is
// closed so callers can prune it; a full buffer only drops the message.
func (c *Client) TrySend(data []byte) bool {
	if c.closed.Load() {
		return false
	}
	select {
	case c.Send <- data:
	default:
		metrics.MessagesDroppedTotal.Inc()
	}
	return true
}

// Closed reports whether the connection is known dead.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

// Close marks the client dead and closes the underlying connection.
func (c *Client) Close() {
	c.closed.Store(true)
	if c.Conn != nil {
		c.Conn.Close(websocket.StatusNormalClosure, "bye")
	}
}
