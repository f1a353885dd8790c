package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	mini    *miniredis.Miniredis
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.GameTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func (s *StorageSuite) TestGameTTL() {
	game := &model.Game{ID: "game-1", GridID: "G1", State: model.GameStateWaiting, Players: []model.PlayerID{"p1"}}
	s.Require().NoError(s.storage.CreateGame(s.Ctx, game))

	s.True(s.mini.TTL(gameKey("game-1")) > 0, "game should have TTL")
	s.True(s.mini.TTL(gridGamesIndexKey("G1")) > 0, "grid index should have TTL")
}

func (s *StorageSuite) TestUpdateGameRefreshesGridIndexTTL() {
	game := &model.Game{ID: "game-1", GridID: "G1", State: model.GameStateWaiting, Players: []model.PlayerID{"p1"}}
	s.Require().NoError(s.storage.CreateGame(s.Ctx, game))

	// most of the TTL elapses while the game is still being played
	s.mini.FastForward(50 * time.Minute)
	game.State = model.GameStateInProgress
	s.Require().NoError(s.storage.UpdateGame(s.Ctx, game))
	s.mini.FastForward(50 * time.Minute)

	games, err := s.storage.GetGames(s.Ctx, "G1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameStateInProgress, games[0].State)
	s.Equal(s.mini.TTL(gameKey("game-1")), s.mini.TTL(gridGamesIndexKey("G1")))
}

func (s *StorageSuite) TestPlayersDoNotExpire() {
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, &model.Player{ID: "p1", Name: "Alice"}))

	s.Equal(time.Duration(0), s.mini.TTL(playerKey("p1")))
	s.Equal(time.Duration(0), s.mini.TTL(playerNameIndexKey("Alice")))
}

func (s *StorageSuite) TestExpiredGameIsSkippedInGridListing() {
	s.Require().NoError(s.storage.CreateGame(s.Ctx, &model.Game{ID: "game-1", GridID: "G1"}))
	s.Require().NoError(s.storage.CreateGame(s.Ctx, &model.Game{ID: "game-2", GridID: "G1"}))

	s.mini.Del(gameKey("game-1"))

	games, err := s.storage.GetGames(s.Ctx, "G1")
	s.Require().NoError(err)
	s.Require().Len(games, 1)
	s.Equal(model.GameID("game-2"), games[0].ID)
}

func (s *StorageSuite) TestNameIndexPointsAtPlayer() {
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, &model.Player{ID: "p1", Name: "Alice"}))

	id, err := s.mini.Get(playerNameIndexKey("Alice"))
	s.Require().NoError(err)
	s.Equal("p1", id)
}
