package memory

import (
	"context"
	"sync"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage"
)

// Storage is an in-memory implementation of the storage interface.
// Records are copied on the way in and out so callers never share state.
type Storage struct {
	mu sync.RWMutex

	players   map[model.PlayerID]*model.Player
	nameIndex map[string]model.PlayerID
	games     map[model.GameID]*model.Game
	gridIndex map[model.GridID][]model.GameID
}

// New creates a new in-memory storage instance
func New() *Storage {
	return &Storage{
		players:   make(map[model.PlayerID]*model.Player),
		nameIndex: make(map[string]model.PlayerID),
		games:     make(map[model.GameID]*model.Game),
		gridIndex: make(map[model.GridID][]model.GameID),
	}
}

// Ensure Storage implements the interface
var _ storage.Storage = (*Storage)(nil)

// Player operations

func (s *Storage) GetPlayer(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	player, ok := s.players[id]
	if !ok {
		return nil, model.ErrPlayerNotFound
	}
	p := *player
	return &p, nil
}

func (s *Storage) CreatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.nameIndex[player.Name]; taken {
		return model.ErrPlayerNameTaken
	}
	p := *player
	s.players[player.ID] = &p
	s.nameIndex[player.Name] = player.ID
	return nil
}

func (s *Storage) UpdatePlayer(ctx context.Context, player *model.Player) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.players[player.ID]
	if !ok {
		return model.ErrPlayerNotFound
	}
	p := *player
	// names are immutable once created
	p.Name = existing.Name
	s.players[player.ID] = &p
	return nil
}

// Game operations

func (s *Storage) GetGames(ctx context.Context, gridID model.GridID) ([]*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := s.gridIndex[gridID]
	games := make([]*model.Game, 0, len(ids))
	for _, id := range ids {
		games = append(games, s.games[id].Clone())
	}
	return games, nil
}

func (s *Storage) GetGame(ctx context.Context, id model.GameID) (*model.Game, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	game, ok := s.games[id]
	if !ok {
		return nil, model.ErrGameNotFound
	}
	return game.Clone(), nil
}

func (s *Storage) CreateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; exists {
		return model.ErrGameExists
	}
	s.gridIndex[game.GridID] = append(s.gridIndex[game.GridID], game.ID)
	s.games[game.ID] = game.Clone()
	return nil
}

func (s *Storage) UpdateGame(ctx context.Context, game *model.Game) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.games[game.ID]; !ok {
		return model.ErrGameNotFound
	}
	s.games[game.ID] = game.Clone()
	return nil
}
