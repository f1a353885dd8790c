// Package storagetest holds a behavioural test suite shared by every storage backend.
package storagetest

import (
	"context"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/storage"
)

// Suite exercises the storage.Storage contract. Backends embed it and set Storage in SetupTest.
type Suite struct {
	suite.Suite
	Storage storage.Storage
	Ctx     context.Context
}

var testTime = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

func (s *Suite) player(id, name string) *model.Player {
	return &model.Player{
		ID:        model.PlayerID(id),
		Name:      name,
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

func (s *Suite) waitingGame(id string, grid model.GridID, player model.PlayerID) *model.Game {
	return &model.Game{
		ID:        model.GameID(id),
		GridID:    grid,
		State:     model.GameStateWaiting,
		Players:   []model.PlayerID{player},
		Boards:    map[model.PlayerID]*model.Board{},
		CreatedAt: testTime,
		UpdatedAt: testTime,
	}
}

// Player tests

func (s *Suite) TestCreateAndGetPlayer() {
	err := s.Storage.CreatePlayer(s.Ctx, s.player("player-1", "Alice"))
	s.Require().NoError(err)

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(model.PlayerID("player-1"), retrieved.ID)
	s.Equal("Alice", retrieved.Name)
	s.False(retrieved.IsOnline)
	s.Equal(0, retrieved.Score)
}

func (s *Suite) TestGetPlayerNotFound() {
	_, err := s.Storage.GetPlayer(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrPlayerNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestCreatePlayerDuplicateName() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.player("player-1", "Alice")))

	err := s.Storage.CreatePlayer(s.Ctx, s.player("player-2", "Alice"))
	s.ErrorIs(err, model.ErrPlayerNameTaken)
	s.ErrorIs(err, model.ErrConflict)

	_, err = s.Storage.GetPlayer(s.Ctx, "player-2")
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestUpdatePlayer() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.player("player-1", "Alice")))

	updated := s.player("player-1", "Alice")
	updated.IsOnline = true
	updated.Score = 42
	s.Require().NoError(s.Storage.UpdatePlayer(s.Ctx, updated))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.True(retrieved.IsOnline)
	s.Equal(42, retrieved.Score)
}

func (s *Suite) TestUpdatePlayerNotFound() {
	err := s.Storage.UpdatePlayer(s.Ctx, s.player("ghost", "Ghost"))
	s.ErrorIs(err, model.ErrPlayerNotFound)
}

func (s *Suite) TestReturnedPlayerIsACopy() {
	s.Require().NoError(s.Storage.CreatePlayer(s.Ctx, s.player("player-1", "Alice")))

	retrieved, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	retrieved.Score = 99

	again, err := s.Storage.GetPlayer(s.Ctx, "player-1")
	s.Require().NoError(err)
	s.Equal(0, again.Score)
}

// Game tests

func (s *Suite) TestCreateAndGetGame() {
	game := s.waitingGame("game-1", "G1", "player-1")
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameID("game-1"), retrieved.ID)
	s.Equal(model.GridID("G1"), retrieved.GridID)
	s.Equal(model.GameStateWaiting, retrieved.State)
	s.Equal([]model.PlayerID{"player-1"}, retrieved.Players)
}

func (s *Suite) TestCreateGameDuplicateID() {
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.waitingGame("game-1", "G1", "player-1")))

	err := s.Storage.CreateGame(s.Ctx, s.waitingGame("game-1", "G2", "player-2"))
	s.ErrorIs(err, model.ErrGameExists)
	s.ErrorIs(err, model.ErrConflict)

	// the original game and both grid listings are untouched
	retrieved, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GridID("G1"), retrieved.GridID)
	s.Equal([]model.PlayerID{"player-1"}, retrieved.Players)

	games, err := s.Storage.GetGames(s.Ctx, "G1")
	s.Require().NoError(err)
	s.Len(games, 1)
	games, err = s.Storage.GetGames(s.Ctx, "G2")
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestGetGameNotFound() {
	_, err := s.Storage.GetGame(s.Ctx, "nonexistent")
	s.ErrorIs(err, model.ErrGameNotFound)
	s.ErrorIs(err, model.ErrNotFound)
}

func (s *Suite) TestUpdateGameRoundTripsBoards() {
	game := s.waitingGame("game-1", "G1", "player-1")
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, game))

	score := 7
	game.State = model.GameStateFinished
	game.Players = append(game.Players, "player-2")
	game.Boards = map[model.PlayerID]*model.Board{
		"player-1": {
			GridSize:     3,
			MissileCount: 9,
			Cells: map[model.Position]*model.Cell{
				"A1": {Type: model.ShipTypeQ, Hits: 1},
			},
		},
		"player-2": {
			GridSize:     3,
			MissileCount: 4,
			IsBerserk:    true,
			Cells: map[model.Position]*model.Cell{
				"B2": {Type: model.ShipTypeP, Hits: 1, Destroyed: true},
			},
		},
	}
	game.Winner = "player-1"
	game.Score = &score
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, game))

	retrieved, err := s.Storage.GetGame(s.Ctx, "game-1")
	s.Require().NoError(err)
	s.Equal(model.GameStateFinished, retrieved.State)
	s.Equal(model.PlayerID("player-1"), retrieved.Winner)
	s.Require().NotNil(retrieved.Score)
	s.Equal(7, *retrieved.Score)
	s.Require().Contains(retrieved.Boards, model.PlayerID("player-2"))
	s.True(retrieved.Boards["player-2"].IsBerserk)
	s.Equal(4, retrieved.Boards["player-2"].MissileCount)
	s.True(retrieved.Boards["player-2"].Cells["B2"].Destroyed)
	s.Equal(1, retrieved.Boards["player-1"].Cells["A1"].Hits)
}

func (s *Suite) TestUpdateGameNotFound() {
	err := s.Storage.UpdateGame(s.Ctx, s.waitingGame("ghost", "G1", "player-1"))
	s.ErrorIs(err, model.ErrGameNotFound)
}

func (s *Suite) TestGetGamesPreservesCreationOrder() {
	for _, id := range []string{"game-c", "game-a", "game-b"} {
		s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.waitingGame(id, "G1", model.PlayerID("p-"+id))))
	}
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.waitingGame("other", "G2", "p-other")))

	games, err := s.Storage.GetGames(s.Ctx, "G1")
	s.Require().NoError(err)
	s.Require().Len(games, 3)
	s.Equal(model.GameID("game-c"), games[0].ID)
	s.Equal(model.GameID("game-a"), games[1].ID)
	s.Equal(model.GameID("game-b"), games[2].ID)
}

func (s *Suite) TestGetGamesEmptyGrid() {
	games, err := s.Storage.GetGames(s.Ctx, "empty")
	s.Require().NoError(err)
	s.Empty(games)
}

func (s *Suite) TestUpdateGameKeepsGridOrder() {
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, s.waitingGame("game-1", "G1", "p1")))
	second := s.waitingGame("game-2", "G1", "p2")
	s.Require().NoError(s.Storage.CreateGame(s.Ctx, second))

	first := s.waitingGame("game-1", "G1", "p1")
	first.State = model.GameStateInProgress
	s.Require().NoError(s.Storage.UpdateGame(s.Ctx, first))

	games, err := s.Storage.GetGames(s.Ctx, "G1")
	s.Require().NoError(err)
	s.Require().Len(games, 2)
	s.Equal(model.GameID("game-1"), games[0].ID)
	s.Equal(model.GameStateInProgress, games[0].State)
}
