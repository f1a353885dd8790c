package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage/storagetest"
)

type StorageSuite struct {
	storagetest.Suite
	storage *Storage
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.Storage = s.storage
	s.Ctx = context.Background()
}

func (s *StorageSuite) TestMutatingReturnedGameDoesNotLeak() {
	game := &model.Game{
		ID:      "game-1",
		GridID:  "G1",
		State:   model.GameStateInProgress,
		Players: []model.PlayerID{"p1", "p2"},
		Boards: map[model.PlayerID]*model.Board{
			"p2": {Cells: map[model.Position]*model.Cell{"A1": {Type: model.ShipTypeP}}},
		},
	}
	s.Require().NoError(s.storage.CreateGame(s.Ctx, game))

	retrieved, err := s.storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	retrieved.Boards["p2"].Cells["A1"].Destroyed = true
	retrieved.Players[0] = "someone-else"

	again, err := s.storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.False(again.Boards["p2"].Cells["A1"].Destroyed)
	s.Equal(model.PlayerID("p1"), again.Players[0])
}

func (s *StorageSuite) TestUpdatePlayerKeepsOriginalName() {
	s.Require().NoError(s.storage.CreatePlayer(s.Ctx, &model.Player{ID: "p1", Name: "Alice"}))
	s.Require().NoError(s.storage.UpdatePlayer(s.Ctx, &model.Player{ID: "p1", Name: "Mallory"}))

	p, err := s.storage.GetPlayer(s.Ctx, "p1")
	s.Require().NoError(err)
	s.Equal("Alice", p.Name)
}
