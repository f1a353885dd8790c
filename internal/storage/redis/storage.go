package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage"
)

// Storage is a Redis-backed implementation of the storage interface
type Storage struct {
	client *redis.Client
	cfg    Config
}

// New creates a new Redis storage instance
func New(cfg Config) (*Storage, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	opts.PoolSize = cfg.PoolSize
	opts.MinIdleConns = cfg.MinIdleConns

	client := redis.NewClient(opts)

	// Verify connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, err
	}

	return &Storage{
		client: client,
		cfg:    cfg,
	}, nil
}

// NewWithClient creates a Redis storage with an existing client (for testing)
func NewWithClient(client *redis.Client, cfg Config) *Storage {
	return &Storage{
		client: client,
		cfg:    cfg,
	}
}

// Close closes the Redis connection
func (s *Storage) Close() error {
	return s.client.Close()
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	data, err := s.client.Get(ctx, playerKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrPlayerNotFound
		}
		return nil, err
	}

	var player model.Player
	if err := json.Unmarshal(data, &player); err != nil {
		return nil, err
	}
	return &player, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	data, err := json.Marshal(player)
	if err != nil {
		return err
	}

	// Reserve the name first; SETNX makes the uniqueness check atomic
	reserved, err := s.client.SetNX(ctx, playerNameIndexKey(player.Name), string(player.ID), 0).Result()
	if err != nil {
		return err
	}
	if !reserved {
		return model.ErrPlayerNameTaken
	}

	if err := s.client.Set(ctx, playerKey(player.ID), data, 0).Err(); err != nil {
		// Release the name so a retry can succeed
		_ = s.client.Del(ctx, playerNameIndexKey(player.Name)).Err()
		return err
	}
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	existing, err := s.GetPlayer(ctx, player.ID)
	if err != nil {
		return err
	}

	updated := *player
	updated.Name = existing.Name
	data, err := json.Marshal(&updated)
	if err != nil {
		return err
	}

	ok, err := s.client.SetXX(ctx, playerKey(player.ID), data, 0).Result()
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrPlayerNotFound
	}
	return nil
}

// Game operations

func (s *Storage) GetGames(ctx context.Context, gridID model.GridID) ([]*model.Game, error) {
	ids, err := s.client.LRange(ctx, gridGamesIndexKey(gridID), 0, -1).Result()
	if err != nil {
		return nil, err
	}

	if len(ids) == 0 {
		return []*model.Game{}, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = gameKey(model.GameID(id))
	}

	// Fetch all games in one round trip using MGET
	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}

	games := make([]*model.Game, 0, len(values))
	for _, val := range values {
		str, ok := val.(string)
		if !ok {
			continue // Game may have expired
		}
		var game model.Game
		if err := json.Unmarshal([]byte(str), &game); err != nil {
			continue // Skip invalid data
		}
		games = append(games, &game)
	}

	return games, nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	data, err := s.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, model.ErrGameNotFound
		}
		return nil, err
	}

	var game model.Game
	if err := json.Unmarshal(data, &game); err != nil {
		return nil, err
	}
	return &game, nil
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	key := gameKey(game.ID)
	indexKey := gridGamesIndexKey(game.GridID)

	// WATCH the game key so a concurrent create of the same id aborts the transaction
	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		n, err := tx.Exists(ctx, key).Result()
		if err != nil {
			return err
		}
		if n > 0 {
			return model.ErrGameExists
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, s.cfg.GameTTL)
			pipe.RPush(ctx, indexKey, string(game.ID))
			s.expireIndex(ctx, pipe, indexKey)
			return nil
		})
		return err
	}, key)
	if errors.Is(err, redis.TxFailedErr) {
		return model.ErrGameExists
	}
	return err
}

// expireIndex keeps the grid index alive as long as its most recently written game
func (s *Storage) expireIndex(ctx context.Context, pipe redis.Pipeliner, indexKey string) {
	if s.cfg.GameTTL > 0 {
		pipe.Expire(ctx, indexKey, s.cfg.GameTTL)
	}
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	data, err := json.Marshal(game)
	if err != nil {
		return err
	}

	pipe := s.client.TxPipeline()
	set := pipe.SetXX(ctx, gameKey(game.ID), data, s.cfg.GameTTL)
	s.expireIndex(ctx, pipe, gridGamesIndexKey(game.GridID))
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return err
	}
	if !set.Val() {
		return model.ErrGameNotFound
	}
	return nil
}
