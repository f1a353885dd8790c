package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var errQuit = errors.New("quit")

func newPlayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "play <grid>",
		Short: "Join a grid and play interactively",
		Long: `Connect to a grid's game channel as the saved player and play.

Type a position such as B7 to fire at it, "new" to ask for a rematch
once the game is finished, or "quit" to leave. Every event on the grid
is printed as it arrives.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			playerID, err := cfg.RequirePlayer()
			if err != nil {
				return err
			}
			return play(cmd.Context(), playerID, args[0], cmd.InOrStdin())
		},
	}
}

// inputMessage maps a line typed by the user to a channel message.
// Blank lines map to nil.
func inputMessage(line string) (map[string]string, error) {
	line = strings.TrimSpace(line)
	switch strings.ToLower(line) {
	case "":
		return nil, nil
	case "quit", "exit":
		return nil, errQuit
	case "new":
		return map[string]string{"type": "new_game"}, nil
	default:
		return map[string]string{"type": "shot", "position": line}, nil
	}
}

func play(ctx context.Context, playerID, gridID string, in io.Reader) error {
	conn, err := client.Dial(ctx, playerID, gridID)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	out := NewOutput(cfg.Output)
	if cfg.Output != "json" {
		out.PrintMessage(fmt.Sprintf("Connected to grid %s as %s", gridID, playerID))
	}

	// stdin reads cannot be cancelled, so lines are fed through a channel
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)

	// Reader: print every event until the server goes away
	g.Go(func() error {
		for {
			var event Event
			if err := conn.ReadJSON(&event); err != nil {
				if gctx.Err() != nil || websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					return io.EOF
				}
				return fmt.Errorf("connection lost: %w", err)
			}
			out.Print(event)
		}
	})

	// Writer: the only goroutine that writes to the connection
	g.Go(func() error {
		for {
			select {
			case <-gctx.Done():
				closeConn(conn)
				return nil
			case line, ok := <-lines:
				if !ok {
					closeConn(conn)
					return io.EOF
				}
				msg, err := inputMessage(line)
				if errors.Is(err, errQuit) {
					closeConn(conn)
					return io.EOF
				}
				if msg == nil {
					continue
				}
				if err := conn.WriteJSON(msg); err != nil {
					return fmt.Errorf("send failed: %w", err)
				}
			}
		}
	})

	err = g.Wait()
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		out.PrintError(err)
		return err
	}
	if cfg.Output != "json" {
		out.PrintMessage("Disconnected")
	}
	return nil
}

func closeConn(conn *websocket.Conn) {
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
	// unblock the reader if the server never answers
	_ = conn.SetReadDeadline(time.Now().Add(time.Second))
}
