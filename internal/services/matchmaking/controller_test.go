package matchmaking

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/gridbattle/internal/dependencies/mocks"
	"github.com/mcoot/gridbattle/internal/model"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/services/player"
	"github.com/mcoot/gridbattle/internal/storage/memory"
	"github.com/mcoot/gridbattle/internal/testutil"
)

type ControllerSuite struct {
	suite.Suite
	storage     *memory.Storage
	random      *mocks.MockRandom
	games       *game.Controller
	matchmaking *Controller
	ctx         context.Context
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerSuite))
}

func (s *ControllerSuite) SetupTest() {
	s.storage = memory.New()
	clk := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s.random = mocks.NewMockRandom()
	players := player.New(s.storage, clk, testutil.NopLogger())
	s.games = game.NewController(
		s.storage,
		testutil.NewFixedGenerator(),
		players,
		game.Config{BoardSize: 9},
		clk,
		s.random,
		testutil.NopLogger(),
	)
	s.matchmaking = NewController(s.games, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ControllerSuite) join(grid model.GridID, p model.PlayerID) *Match {
	match, err := s.matchmaking.JoinOrCreate(s.ctx, grid, p)
	s.Require().NoError(err)
	return match
}

func (s *ControllerSuite) win(gameID model.GameID, shooter model.PlayerID) {
	for _, pos := range []string{"A1", "B2", "B2"} {
		_, err := s.games.Fire(s.ctx, gameID, shooter, pos)
		s.Require().NoError(err)
	}
}

// JoinOrCreate tests

func (s *ControllerSuite) TestFirstPlayerCreatesWaitingGame() {
	s.random.QueueString("GAME1")

	match := s.join("G1", "A")

	s.Equal(OutcomeCreated, match.Outcome)
	s.Equal(model.GameID("GAME1"), match.Game.ID)
	s.Equal(model.GameStateWaiting, match.Game.State)
}

func (s *ControllerSuite) TestSecondPlayerJoinsWaitingGame() {
	s.random.QueueString("GAME1")
	s.join("G1", "A")

	match := s.join("G1", "B")

	s.Equal(OutcomeJoined, match.Outcome)
	s.Equal(model.GameID("GAME1"), match.Game.ID)
	s.Equal(model.GameStateInProgress, match.Game.State)
	s.Equal([]model.PlayerID{"A", "B"}, match.Game.Players)
	s.Equal(model.PlayerID("A"), match.Game.CurrentTurn)
}

func (s *ControllerSuite) TestGridsAreIndependent() {
	s.random.QueueString("GAME1", "GAME2")
	s.join("G1", "A")

	match := s.join("G2", "B")

	s.Equal(OutcomeCreated, match.Outcome)
	s.Equal(model.GridID("G2"), match.Game.GridID)
}

func (s *ControllerSuite) TestThirdPlayerOpensNewGame() {
	s.random.QueueString("GAME1", "GAME2")
	s.join("G1", "A")
	s.join("G1", "B")

	match := s.join("G1", "C")

	s.Equal(OutcomeCreated, match.Outcome)
	s.Equal(model.GameID("GAME2"), match.Game.ID)
}

func (s *ControllerSuite) TestReconnectResumesWaitingGame() {
	s.random.QueueString("GAME1")
	s.join("G1", "A")

	match := s.join("G1", "A")

	s.Equal(OutcomeResumed, match.Outcome)
	s.Equal(model.GameID("GAME1"), match.Game.ID)
	s.Equal([]model.PlayerID{"A"}, match.Game.Players)

	games, _ := s.games.GamesForGrid(s.ctx, "G1")
	s.Len(games, 1)
}

func (s *ControllerSuite) TestReconnectResumesGameInProgress() {
	s.random.QueueString("GAME1")
	s.join("G1", "A")
	s.join("G1", "B")

	match := s.join("G1", "B")

	s.Equal(OutcomeResumed, match.Outcome)
	s.Equal(model.GameStateInProgress, match.Game.State)
}

func (s *ControllerSuite) TestFinishedGameIsNotResumed() {
	s.random.QueueString("GAME1", "GAME2")
	s.join("G1", "A")
	s.join("G1", "B")
	s.win("GAME1", "A")

	match := s.join("G1", "A")

	s.Equal(OutcomeCreated, match.Outcome)
	s.Equal(model.GameID("GAME2"), match.Game.ID)
}

func (s *ControllerSuite) TestOldestWaitingGameIsJoinedFirst() {
	s.random.QueueString("GAME1", "GAME2")
	_, err := s.games.CreateWaitingGame(s.ctx, "G1", "A")
	s.Require().NoError(err)
	_, err = s.games.CreateWaitingGame(s.ctx, "G1", "B")
	s.Require().NoError(err)

	match := s.join("G1", "C")

	s.Equal(OutcomeJoined, match.Outcome)
	s.Equal(model.GameID("GAME1"), match.Game.ID)
	s.Equal([]model.PlayerID{"A", "C"}, match.Game.Players)
}

func (s *ControllerSuite) TestPlayerIsNotPairedWithThemself() {
	s.random.QueueString("GAME1", "GAME2")
	s.join("G1", "A")
	s.join("G1", "B")
	s.win("GAME1", "A")
	_, err := s.matchmaking.Rematch(s.ctx, "G1", "A")
	s.Require().NoError(err)

	// A's new waiting game is resumed, never joined by A
	match := s.join("G1", "A")
	s.Equal(OutcomeResumed, match.Outcome)
	s.Equal([]model.PlayerID{"A"}, match.Game.Players)
}

func (s *ControllerSuite) TestConcurrentArrivalsPairUp() {
	const players = 20
	for i := range players {
		s.random.QueueString(fmt.Sprintf("GAME%d", i))
	}

	var wg sync.WaitGroup
	for i := range players {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.matchmaking.JoinOrCreate(s.ctx, "G1", model.PlayerID(fmt.Sprintf("P%d", i)))
			s.NoError(err)
		}()
	}
	wg.Wait()

	games, err := s.games.GamesForGrid(s.ctx, "G1")
	s.Require().NoError(err)
	s.Len(games, players/2)
	for _, g := range games {
		s.Equal(model.GameStateInProgress, g.State)
		s.Len(g.Players, 2)
	}
}

// Rematch tests

func (s *ControllerSuite) TestRematchOpensWaitingGame() {
	s.random.QueueString("GAME1", "GAME2")
	s.join("G1", "A")
	s.join("G1", "B")
	s.win("GAME1", "A")

	match, err := s.matchmaking.Rematch(s.ctx, "G1", "B")
	s.Require().NoError(err)

	s.Equal(OutcomeCreated, match.Outcome)
	s.Equal(model.GameStateWaiting, match.Game.State)
	s.Equal([]model.PlayerID{"B"}, match.Game.Players)
}

func (s *ControllerSuite) TestRematchPairsWithWaitingOpponent() {
	s.random.QueueString("GAME1", "GAME2")
	s.join("G1", "A")
	s.join("G1", "B")
	s.win("GAME1", "A")
	_, err := s.matchmaking.Rematch(s.ctx, "G1", "B")
	s.Require().NoError(err)

	match, err := s.matchmaking.Rematch(s.ctx, "G1", "A")
	s.Require().NoError(err)

	s.Equal(OutcomeJoined, match.Outcome)
	s.Equal(model.GameID("GAME2"), match.Game.ID)
	s.Equal([]model.PlayerID{"B", "A"}, match.Game.Players)
	s.Equal(model.PlayerID("B"), match.Game.CurrentTurn)
}

func (s *ControllerSuite) TestRematchRequiresFinishedGame() {
	s.random.QueueString("GAME1")
	s.join("G1", "A")
	s.join("G1", "B")

	_, err := s.matchmaking.Rematch(s.ctx, "G1", "A")
	s.ErrorIs(err, model.ErrGameNotFinished)

	games, _ := s.games.GamesForGrid(s.ctx, "G1")
	s.Len(games, 1)
}

func (s *ControllerSuite) TestRepeatedRematchIsRejected() {
	s.random.QueueString("GAME1", "GAME2", "GAME3")
	s.join("G1", "A")
	s.join("G1", "B")
	s.win("GAME1", "A")

	_, err := s.matchmaking.Rematch(s.ctx, "G1", "A")
	s.Require().NoError(err)

	// A's latest game is now the waiting rematch
	_, err = s.matchmaking.Rematch(s.ctx, "G1", "A")
	s.ErrorIs(err, model.ErrGameNotFinished)

	games, _ := s.games.GamesForGrid(s.ctx, "G1")
	s.Len(games, 2)
}

func (s *ControllerSuite) TestRematchWithoutGame() {
	_, err := s.matchmaking.Rematch(s.ctx, "G1", "A")
	s.ErrorIs(err, model.ErrGameNotFound)
}
