package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Player:
		o.printPlayer(v)
	case OnlineCount:
		fmt.Printf("Players online: %d\n", v.Count)
	case Game:
		o.printGame(v)
	case GameList:
		o.printGameList(v)
	case Event:
		o.printEvent(v)
	case HealthResult:
		fmt.Printf("Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IsOnline  bool      `json:"is_online"`
	Score     int       `json:"score"`
	CreatedAt time.Time `json:"created_at"`
}

// OnlineCount response type
type OnlineCount struct {
	Count int `json:"count"`
}

// Game response type
type Game struct {
	ID          string            `json:"id"`
	GridID      string            `json:"grid_id"`
	State       string            `json:"state"`
	Players     []string          `json:"players"`
	Boards      map[string]*Board `json:"boards"`
	CurrentTurn string            `json:"current_turn,omitempty"`
	Winner      string            `json:"winner,omitempty"`
	Score       *int              `json:"score,omitempty"`
}

// Board response type
type Board struct {
	GridSize     int              `json:"grid_size"`
	Cells        map[string]*Cell `json:"cells"`
	MissileCount int              `json:"missile_count"`
	IsBerserk    bool             `json:"is_berserk"`
}

// Cell response type
type Cell struct {
	Type      string `json:"type"`
	Hits      int    `json:"hits"`
	Destroyed bool   `json:"destroyed"`
}

// GameList response type
type GameList struct {
	GridID string  `json:"grid_id"`
	Games  []*Game `json:"games"`
}

// Event is any message received on the game channel
type Event struct {
	Type          string `json:"type"`
	Position      string `json:"position,omitempty"`
	Hit           bool   `json:"hit,omitempty"`
	Destroyed     bool   `json:"destroyed,omitempty"`
	ShipDestroyed bool   `json:"ship_destroyed,omitempty"`
	Game          *Game  `json:"game,omitempty"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printPlayer(p Player) {
	online := "no"
	if p.IsOnline {
		online = "yes"
	}
	fmt.Printf("Player: %s (%s)\n", p.Name, p.ID)
	fmt.Printf("Online: %s\n", online)
	fmt.Printf("Score: %d\n", p.Score)
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (grid %s)\n", g.ID, g.GridID)
	fmt.Printf("State: %s\n", g.State)
	fmt.Printf("Players: %s\n", strings.Join(g.Players, ", "))
	if g.CurrentTurn != "" {
		fmt.Printf("Turn: %s\n", g.CurrentTurn)
	}
	if g.Winner != "" {
		fmt.Printf("Winner: %s\n", g.Winner)
	}
	if g.Score != nil {
		fmt.Printf("Score: %d\n", *g.Score)
	}

	for _, pid := range g.Players {
		board := g.Boards[pid]
		if board == nil {
			continue
		}
		berserk := ""
		if board.IsBerserk {
			berserk = " [berserk]"
		}
		fmt.Printf("\nBoard (%s), missiles %d%s:\n", pid, board.MissileCount, berserk)
		o.printBoard(board)
	}
}

func (o *Output) printGameList(l GameList) {
	fmt.Printf("Grid: %s (%d games)\n", l.GridID, len(l.Games))
	for _, g := range l.Games {
		line := fmt.Sprintf("  - %s %s [%s]", g.ID, g.State, strings.Join(g.Players, " vs "))
		if g.Winner != "" {
			line += " winner " + g.Winner
		}
		fmt.Println(line)
	}
}

func (o *Output) printEvent(e Event) {
	timestamp := time.Now().Format("15:04:05")
	switch e.Type {
	case "shot_result":
		outcome := "miss"
		switch {
		case e.ShipDestroyed:
			outcome = "hit, ship destroyed"
		case e.Destroyed:
			outcome = "hit, cell destroyed"
		case e.Hit:
			outcome = "hit"
		}
		fmt.Printf("[%s] shot at %s: %s\n", timestamp, e.Position, outcome)
	default:
		fmt.Printf("[%s] %s\n", timestamp, e.Type)
	}
	if e.Game != nil {
		o.printGame(*e.Game)
		fmt.Println()
	}
}

// printBoard renders a board with row letters and 1-based columns.
// Intact cells show their ship type, damaged Q cells a lowercase q, destroyed cells X.
func (o *Output) printBoard(b *Board) {
	if b == nil || b.GridSize == 0 {
		return
	}
	size := b.GridSize

	fmt.Print("   ")
	for col := 1; col <= size; col++ {
		fmt.Printf("%3d", col)
	}
	fmt.Println()

	for row := 0; row < size; row++ {
		letter := string(rune('A' + row))
		fmt.Printf(" %s ", letter)
		for col := 1; col <= size; col++ {
			fmt.Printf("%3s", cellSymbol(b.Cells[fmt.Sprintf("%s%d", letter, col)]))
		}
		fmt.Println()
	}
}

func cellSymbol(c *Cell) string {
	switch {
	case c == nil:
		return "."
	case c.Destroyed:
		return "X"
	case c.Hits > 0:
		return strings.ToLower(c.Type)
	default:
		return c.Type
	}
}
