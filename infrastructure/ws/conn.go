// Package ws is the live-connection transport: one websocket per user
// session, upgraded from the gin router, registered in the runtime
// registry for the lifetime of the socket.
//
// The read goroutine only watches for close/errors; the write goroutine
// drains the connection's send channel. Separating read and write avoids
// head-of-line blocking when a browser is slow.
package ws

import (
	"chat-engine/domain/event"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const writeDeadline = 5 * time.Second

// Conn adapts a websocket to the contract.EventSink the registry tracks.
// Consume never blocks: events are queued on a buffered channel and a slow
// consumer overflowing it loses the event, which callers absorb as a
// best-effort delivery failure.
type Conn struct {
	userID string
	socket *websocket.Conn
	send   chan []byte
	log    *slog.Logger

	closeOnce sync.Once
	closed    chan struct{}
}

func NewConn(userID string, socket *websocket.Conn, sendQueueSize int, log *slog.Logger) *Conn {
	return &Conn{
		userID: userID,
		socket: socket,
		send:   make(chan []byte, sendQueueSize),
		log:    log,
		closed: make(chan struct{}),
	}
}

func (c *Conn) UserID() string { return c.userID }

// Consume encodes the event and enqueues it for the write pump.
func (c *Conn) Consume(e event.Outbound) error {
	data, err := EncodeFrame(e)
	if err != nil {
		return err
	}
	// Closed is checked on its own first; a combined select picks randomly
	// between a ready closed channel and free queue space, and Consume
	// after Close must always fail.
	select {
	case <-c.closed:
		return fmt.Errorf("connection closed for user %s", c.userID)
	default:
	}
	select {
	case <-c.closed:
		return fmt.Errorf("connection closed for user %s", c.userID)
	case c.send <- data:
		return nil
	default:
		return fmt.Errorf("send queue full for user %s", c.userID)
	}
}

// Close makes the pumps wind down. Safe to call more than once: the
// registry closes a replaced connection while its read pump may be
// closing it too.
func (c *Conn) Close() error {
	c.closeOnce.Do(func() { close(c.closed) })
	return nil
}

// writePump drains the send queue onto the socket until the connection is
// closed. It owns all writes to the socket.
func (c *Conn) writePump() {
	defer func() {
		_ = c.socket.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(writeDeadline))
		_ = c.socket.Close()
	}()

	for {
		select {
		case <-c.closed:
			return
		case data := <-c.send:
			_ = c.socket.SetWriteDeadline(time.Now().Add(writeDeadline))
			if err := c.socket.WriteMessage(websocket.TextMessage, data); err != nil {
				c.log.Debug("write failed, dropping connection", "user", c.userID, "error", err)
				return
			}
		}
	}
}

// readPump blocks until the peer closes or errors. Inbound traffic carries
// no commands; all client actions arrive over HTTP.
func (c *Conn) readPump() {
	defer c.Close()
	for {
		if _, _, err := c.socket.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.log.Debug("read error", "user", c.userID, "error", err)
			}
			return
		}
	}
}
