package realtime

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mcoot/gridbattle/internal/testutil"
)

// serveClients upgrades each request, hands the Client to onConnect and runs it
// with an echo handler
func serveClients(t *testing.T, config ClientConfig, onConnect func(*Client)) *httptest.Server {
	t.Helper()
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		client := NewClient(conn, config, testutil.NopLogger())
		onConnect(client)
		client.Run(r.Context(), func(data []byte) {
			_ = client.Send(append([]byte("echo:"), data...))
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func dial(t *testing.T, srv *httptest.Server) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func TestClientEchoesInOrder(t *testing.T) {
	srv := serveClients(t, DefaultClientConfig(), func(*Client) {})
	conn := dial(t, srv)

	for _, msg := range []string{"one", "two", "three"} {
		require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(msg)))
	}

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for _, want := range []string{"echo:one", "echo:two", "echo:three"} {
		_, data, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Equal(t, want, string(data))
	}
}

func TestClientCloseSendsCloseFrame(t *testing.T) {
	clients := make(chan *Client, 1)
	srv := serveClients(t, DefaultClientConfig(), func(c *Client) { clients <- c })
	conn := dial(t, srv)

	client := <-clients
	client.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
	assert.ErrorIs(t, client.Send([]byte("late")), ErrClientClosed)
}

func TestClientStopsWhenPeerLeaves(t *testing.T) {
	clients := make(chan *Client, 1)
	srv := serveClients(t, DefaultClientConfig(), func(c *Client) { clients <- c })
	conn := dial(t, srv)
	client := <-clients

	_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	_ = conn.Close()

	select {
	case <-client.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("client did not stop after peer closed")
	}
}

func TestClientAnswersPings(t *testing.T) {
	config := DefaultClientConfig()
	config.PingPeriod = 20 * time.Millisecond
	srv := serveClients(t, config, func(*Client) {})
	conn := dial(t, srv)

	pinged := make(chan struct{}, 1)
	conn.SetPingHandler(func(string) error {
		select {
		case pinged <- struct{}{}:
		default:
		}
		return nil
	})

	// Reading drives the ping handler
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case <-pinged:
	case <-time.After(5 * time.Second):
		t.Fatal("no ping received")
	}
}

func TestSendFailsWhenBufferFull(t *testing.T) {
	config := DefaultClientConfig()
	config.SendBufferSize = 1
	// Not running: nothing drains the queue
	client := NewClient(nil, config, testutil.NopLogger())

	require.NoError(t, client.Send([]byte("a")))
	assert.ErrorIs(t, client.Send([]byte("b")), ErrSendBufferFull)

	client.Close()
	assert.ErrorIs(t, client.Send([]byte("c")), ErrClientClosed)
}

func TestRunStopsOnContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	upgrader := websocket.Upgrader{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		NewClient(conn, DefaultClientConfig(), testutil.NopLogger()).Run(ctx, func([]byte) {})
		close(stopped)
	}))
	t.Cleanup(srv.Close)
	conn := dial(t, srv)

	cancel()

	// The server's close frame must be answered for the read pump to exit promptly
	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)

	select {
	case <-stopped:
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
