package signal

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/baatlink/baatlink/internal/core"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrConnClosed   = errors.New("connection closed")
)

// wsSocket is an indirection over *websocket.Conn to ease testing.
type wsSocket interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	SetWriteDeadline(t time.Time) error
	SetReadDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(appData string) error)
	Close() error
}

// wsSignalConn is the transport endpoint for one client. It implements
// core.SignalConnection; the write pump is the only goroutine that
// touches the underlying socket for writes. The send channel is never
// closed: teardown is signaled through done, so a TrySend racing Close
// fails with an error instead of panicking.
type wsSignalConn struct {
	conn      wsSocket
	send      chan core.Frame
	done      chan struct{}
	writeWait time.Duration
	once      sync.Once
}

var _ core.SignalConnection = (*wsSignalConn)(nil)

func newWSSignalConn(conn wsSocket, writeWait time.Duration) *wsSignalConn {
	return &wsSignalConn{
		conn:      conn,
		send:      make(chan core.Frame, 32),
		done:      make(chan struct{}),
		writeWait: writeWait,
	}
}

func (c *wsSignalConn) TrySend(f core.Frame) error {
	select {
	case <-c.done:
		return ErrConnClosed
	default:
	}
	select {
	case c.send <- f:
		return nil
	case <-c.done:
		return ErrConnClosed
	default:
		return ErrBackpressure
	}
}

func (c *wsSignalConn) Close() {
	c.once.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// writePump pumps frames to the network and keeps the connection alive
// with periodic pings. Exits when the connection closes or a write
// fails; frames still buffered at that point are discarded.
func (c *wsSignalConn) writePump(ctx context.Context, pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(c.writeWait)); err != nil {
				log.Debug().Str("module", "adapters.signal").Err(err).Msg("writePump set deadline error")
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Debug().Str("module", "adapters.signal").Err(err).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
