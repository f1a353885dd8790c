package testutil

import (
	"encoding/json"
	"sync"
)

// FakeConn records outbound messages in memory in place of a websocket
type FakeConn struct {
	mu       sync.Mutex
	messages [][]byte
	closed   bool

	// Err, when set, is returned by every Send
	Err error
}

// NewFakeConn creates a FakeConn that accepts every message
func NewFakeConn() *FakeConn {
	return &FakeConn{}
}

func (c *FakeConn) Send(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.messages = append(c.messages, data)
	return nil
}

func (c *FakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

// Closed reports whether Close was called
func (c *FakeConn) Closed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}

// Messages returns the raw messages sent so far
func (c *FakeConn) Messages() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.messages))
	for i, m := range c.messages {
		out[i] = string(m)
	}
	return out
}

// Types returns the "type" field of each message sent so far
func (c *FakeConn) Types() []string {
	var types []string
	for _, m := range c.Messages() {
		var envelope struct {
			Type string `json:"type"`
		}
		_ = json.Unmarshal([]byte(m), &envelope)
		types = append(types, envelope.Type)
	}
	return types
}

// Last decodes the most recent message into v
func (c *FakeConn) Last(v any) error {
	msgs := c.Messages()
	if len(msgs) == 0 {
		return json.Unmarshal([]byte("null"), v)
	}
	return json.Unmarshal([]byte(msgs[len(msgs)-1]), v)
}

// Reset forgets recorded messages
func (c *FakeConn) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = nil
}
