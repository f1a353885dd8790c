package factory

import (
	"time"

	"github.com/mcoot/gridbattle/internal/dependencies/mocks"
	"github.com/mcoot/gridbattle/internal/services/game"
	"github.com/mcoot/gridbattle/internal/storage/memory"
	"github.com/mcoot/gridbattle/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock  *mocks.MockClock
	MockRandom *mocks.MockRandom
	Generator  *testutil.FixedGenerator
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// Every board is the fixed fleet from testutil.NewFixedGenerator and nobody
// starts berserk, so each player has 9 missiles.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()
	generator := testutil.NewFixedGenerator()

	cfg := Config{
		GameConfig: game.Config{BoardSize: 9, BerserkProbability: 0},
	}.withDefaults()
	app := newWithDependencies(store, mockClock, mockRandom, generator, cfg, testutil.NopLogger())

	return &TestApp{
		App:        app,
		MockClock:  mockClock,
		MockRandom: mockRandom,
		Generator:  generator,
	}
}
