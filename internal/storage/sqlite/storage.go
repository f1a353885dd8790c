package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/mattn/go-sqlite3"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage"
)

// Storage is a SQLite-backed implementation of the storage interface.
// Players are stored as columns; games are stored as a JSON document per row.
type Storage struct {
	db *sql.DB
}

// New opens the database at cfg.Path and migrates it
func New(cfg Config, logger *slog.Logger) (*Storage, error) {
	db, err := Open(cfg, logger)
	if err != nil {
		return nil, err
	}
	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	return s.db.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, name, is_online, score, created_at, updated_at FROM players WHERE id = ?`, id)

	var p model.Player
	err := row.Scan(&p.ID, &p.Name, &p.IsOnline, &p.Score, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO players (id, name, is_online, score, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		player.ID, player.Name, player.IsOnline, player.Score, player.CreatedAt, player.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrPlayerNameTaken
	}
	return err
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE players SET is_online = ?, score = ?, updated_at = ? WHERE id = ?`,
		player.IsOnline, player.Score, player.UpdatedAt, player.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrPlayerNotFound)
}

// Game operations

func (s *Storage) GetGames(ctx context.Context, gridID model.GridID) ([]*model.Game, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM games WHERE grid_id = ? ORDER BY seq`, gridID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	games := []*model.Game{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var game model.Game
		if err := json.Unmarshal([]byte(data), &game); err != nil {
			return nil, err
		}
		games = append(games, &game)
	}
	return games, rows.Err()
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM games WHERE id = ?`, id).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal([]byte(data), &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO games (id, grid_id, state, data, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?)`,
		game.ID, game.GridID, game.State, string(data), game.CreatedAt, game.UpdatedAt)
	if isUniqueViolation(err) {
		return model.ErrGameExists
	}
	return err
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx,
		`UPDATE games SET state = ?, data = ?, updated_at = ? WHERE id = ?`,
		game.State, string(data), game.UpdatedAt, game.ID)
	if err != nil {
		return err
	}
	return requireAffected(res, model.ErrGameNotFound)
}

func requireAffected(res sql.Result, notFound error) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
