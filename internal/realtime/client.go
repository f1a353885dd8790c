package realtime

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// ClientConfig tunes a websocket connection's keepalive and buffering
type ClientConfig struct {
	// WriteWait is the time allowed to write a message to the peer
	WriteWait time.Duration
	// PongWait is the time allowed to read the next pong from the peer
	PongWait time.Duration
	// PingPeriod must be less than PongWait
	PingPeriod time.Duration
	// MaxMessageSize bounds inbound messages
	MaxMessageSize int64
	// SendBufferSize is the number of outbound messages queued before sends fail
	SendBufferSize int
}

// DefaultClientConfig returns standard websocket settings
func DefaultClientConfig() ClientConfig {
	pongWait := 60 * time.Second
	return ClientConfig{
		WriteWait:      10 * time.Second,
		PongWait:       pongWait,
		PingPeriod:     (pongWait * 9) / 10,
		MaxMessageSize: 512,
		SendBufferSize: 256,
	}
}

// Client is a websocket connection with a buffered outbound queue.
// Writes happen on a dedicated goroutine; Send never blocks.
type Client struct {
	conn   *websocket.Conn
	config ClientConfig
	send   chan []byte
	done   chan struct{}
	once   sync.Once
	logger *slog.Logger
}

var _ Conn = (*Client)(nil)

// NewClient wraps an upgraded websocket connection
func NewClient(conn *websocket.Conn, config ClientConfig, logger *slog.Logger) *Client {
	return &Client{
		conn:   conn,
		config: config,
		send:   make(chan []byte, config.SendBufferSize),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Send queues a message for delivery
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrClientClosed
	default:
		return ErrSendBufferFull
	}
}

// Close stops the client; the write pump sends a close frame and the read pump exits
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
	})
}

// Done is closed once the client has been closed
func (c *Client) Done() <-chan struct{} {
	return c.done
}

// Run pumps the connection until the peer goes away, the client is closed or
// ctx is cancelled. Each inbound text message is passed to handle on the
// calling goroutine, in order.
func (c *Client) Run(ctx context.Context, handle func([]byte)) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		c.writePump()
	}()

	stop := context.AfterFunc(ctx, c.Close)
	defer stop()

	c.readPump(handle)
	c.Close()
	wg.Wait()
	_ = c.conn.Close()
}

func (c *Client) readPump(handle func([]byte)) {
	c.conn.SetReadLimit(c.config.MaxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	})

	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.logger.Warn("websocket read failed", slog.String("error", err.Error()))
			}
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		handle(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.config.PingPeriod)
	defer ticker.Stop()

	for {
		select {
		case message := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				c.fail(err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.fail(err)
				return
			}

		case <-c.done:
			deadline := time.Now().Add(c.config.WriteWait)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
			_ = c.conn.WriteControl(websocket.CloseMessage, msg, deadline)
			// unblock the read pump if the peer never answers the close frame
			_ = c.conn.SetReadDeadline(deadline)
			return
		}
	}
}

func (c *Client) fail(err error) {
	if !errors.Is(err, websocket.ErrCloseSent) {
		c.logger.Warn("websocket write failed", slog.String("error", err.Error()))
	}
	c.Close()
	_ = c.conn.SetReadDeadline(time.Now())
}
