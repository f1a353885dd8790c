package player

import (
	"context"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/mcoot/gridbattle/internal/dependencies/clock"
	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage"
	"github.com/mcoot/gridbattle/internal/syncutil"
)

// Service manages player profiles: creation, presence and score
type Service struct {
	storage storage.Storage
	clock   clock.Clock
	locks   *syncutil.KeyedMutex
	logger  *slog.Logger
}

// New creates a new player Service
func New(storage storage.Storage, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage: storage,
		clock:   clock,
		locks:   syncutil.NewKeyedMutex(),
		logger:  logger.With(slog.String("component", "player")),
	}
}

// Create registers a player under a display name. Names are trimmed and must be unique.
func (s *Service) Create(ctx context.Context, name string) (*model.Player, error) {
	name, err := ValidateName(name)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	player := &model.Player{
		ID:        model.PlayerID(uuid.NewString()),
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.storage.CreatePlayer(ctx, player); err != nil {
		return nil, err
	}

	s.logger.Info("player created",
		slog.String("player_id", string(player.ID)),
		slog.String("name", player.Name),
	)
	return player, nil
}

// ValidateName trims a display name and checks its length in characters
func ValidateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	n := utf8.RuneCountInString(name)
	if n < model.MinPlayerNameLength || n > model.MaxPlayerNameLength {
		return "", model.ErrInvalidPlayerName
	}
	return name, nil
}

// Get retrieves a player by ID
func (s *Service) Get(ctx context.Context, id model.PlayerID) (*model.Player, error) {
	return s.storage.GetPlayer(ctx, id)
}

// SetOnline records whether the player currently has a live connection
func (s *Service) SetOnline(ctx context.Context, id model.PlayerID, online bool) error {
	return s.update(ctx, id, func(p *model.Player) {
		p.IsOnline = online
	})
}

// AddScore adds points to the player's cumulative score
func (s *Service) AddScore(ctx context.Context, id model.PlayerID, points int) error {
	err := s.update(ctx, id, func(p *model.Player) {
		p.Score += points
	})
	if err == nil {
		s.logger.Info("score credited",
			slog.String("player_id", string(id)),
			slog.Int("points", points),
		)
	}
	return err
}

func (s *Service) update(ctx context.Context, id model.PlayerID, mutate func(*model.Player)) error {
	unlock := s.locks.Lock(string(id))
	defer unlock()

	player, err := s.storage.GetPlayer(ctx, id)
	if err != nil {
		return err
	}
	mutate(player)
	player.UpdatedAt = s.clock.Now()
	return s.storage.UpdatePlayer(ctx, player)
}
