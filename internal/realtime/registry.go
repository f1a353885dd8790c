package realtime

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/mcoot/gridbattle/internal/model"
)

var (
	// ErrSendBufferFull is returned when a connection cannot keep up with outbound messages
	ErrSendBufferFull = errors.New("send buffer full")
	// ErrClientClosed is returned when sending to a connection that has shut down
	ErrClientClosed = errors.New("client closed")
)

// Conn is a live outbound channel to one player
type Conn interface {
	Send(data []byte) error
	Close()
}

// Registry tracks the live connection of each player in each grid.
// A grid entry exists only while it has at least one connection.
type Registry struct {
	mu     sync.RWMutex
	grids  map[model.GridID]map[model.PlayerID]Conn
	logger *slog.Logger
}

// NewRegistry creates an empty Registry
func NewRegistry(logger *slog.Logger) *Registry {
	return &Registry{
		grids:  make(map[model.GridID]map[model.PlayerID]Conn),
		logger: logger.With(slog.String("component", "realtime")),
	}
}

// Register records the player's connection in the grid and returns the
// connection it replaced, if any
func (r *Registry) Register(gridID model.GridID, playerID model.PlayerID, conn Conn) Conn {
	r.mu.Lock()
	players, ok := r.grids[gridID]
	if !ok {
		players = make(map[model.PlayerID]Conn)
		r.grids[gridID] = players
	}
	previous := players[playerID]
	players[playerID] = conn
	count := len(players)
	r.mu.Unlock()

	r.logger.Info("connection registered",
		slog.String("grid_id", string(gridID)),
		slog.String("player_id", string(playerID)),
		slog.Bool("replaced", previous != nil),
		slog.Int("grid_connections", count))
	return previous
}

// Deregister removes the player's connection if it is still the registered one.
// It reports whether an entry was removed.
func (r *Registry) Deregister(gridID model.GridID, playerID model.PlayerID, conn Conn) bool {
	r.mu.Lock()
	players, ok := r.grids[gridID]
	if !ok || players[playerID] != conn {
		r.mu.Unlock()
		return false
	}
	delete(players, playerID)
	count := len(players)
	if count == 0 {
		delete(r.grids, gridID)
	}
	r.mu.Unlock()

	r.logger.Info("connection deregistered",
		slog.String("grid_id", string(gridID)),
		slog.String("player_id", string(playerID)),
		slog.Int("grid_connections", count))
	return true
}

// Send marshals v and delivers it to one player's connection in the grid
func (r *Registry) Send(gridID model.GridID, playerID model.PlayerID, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	r.mu.RLock()
	conn, ok := r.grids[gridID][playerID]
	r.mu.RUnlock()
	if !ok {
		return ErrClientClosed
	}
	return conn.Send(data)
}

// Broadcast marshals v once and delivers it to every connection in the grid.
// Delivery happens outside the lock; a failing recipient does not affect the
// others. It returns the number of successful deliveries.
func (r *Registry) Broadcast(gridID model.GridID, v any) int {
	data, err := json.Marshal(v)
	if err != nil {
		r.logger.Error("failed to marshal broadcast",
			slog.String("grid_id", string(gridID)),
			slog.String("error", err.Error()))
		return 0
	}

	type recipient struct {
		playerID model.PlayerID
		conn     Conn
	}
	r.mu.RLock()
	recipients := make([]recipient, 0, len(r.grids[gridID]))
	for playerID, conn := range r.grids[gridID] {
		recipients = append(recipients, recipient{playerID, conn})
	}
	r.mu.RUnlock()

	sent := 0
	for _, rc := range recipients {
		if err := rc.conn.Send(data); err != nil {
			r.logger.Warn("broadcast delivery failed",
				slog.String("grid_id", string(gridID)),
				slog.String("player_id", string(rc.playerID)),
				slog.String("error", err.Error()))
			continue
		}
		sent++
	}
	return sent
}

// Count returns the total number of registered connections across all grids
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n := 0
	for _, players := range r.grids {
		n += len(players)
	}
	return n
}

// GridCount returns the number of registered connections in one grid
func (r *Registry) GridCount(gridID model.GridID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.grids[gridID])
}
