package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/match"
	"github.com/hailam/chessrules/internal/snapshot"
	"github.com/hailam/chessrules/internal/storage"
)

func init() {
	color.NoColor = true
}

func run(t *testing.T, c *CLI, script string) string {
	t.Helper()
	var out bytes.Buffer
	c.out = &out
	if err := c.Run(strings.NewReader(script)); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return out.String()
}

func openStore(t *testing.T) *storage.Storage {
	t.Helper()
	s, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatalf("storage.Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func expect(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}

func TestPlayAndShow(t *testing.T) {
	c := New(match.New(match.Config{}), nil, nil)
	out := run(t, c, "e2e4\nmove e7e5\nshow\nstatus\nquit\ne2e3\n")

	expect(t, out,
		"♙ e2 -> e4",
		"♟ e7 -> e5",
		"8  ♜  ♞  ♝  ♛  ♚  ♝  ♞  ♜ \n",
		"   a  b  c  d  e  f  g  h",
		"Game in progress",
		"Castling: lenient",
		"White to move",
	)
	if strings.Contains(out, "e2 -> e3") {
		t.Error("commands after quit were executed")
	}
}

func TestErrorsAreReported(t *testing.T) {
	c := New(match.New(match.Config{}), nil, nil)
	out := run(t, c, "e2e5\ne7e5\nfly\nlegal z9\nsave\n")

	expect(t, out,
		"error: illegal move: e2e5",
		"error: piece does not belong to the side to move",
		`error: unknown command "fly"`,
		"error: invalid square: z9",
		"error: no storage available",
	)
}

func TestLegal(t *testing.T) {
	c := New(match.New(match.Config{}), nil, nil)
	out := run(t, c, "legal g1\nlegal e4\n")
	expect(t, out, "g1: f3 h3", "e4: no legal moves")
}

func TestPromotionDefaultsToQueen(t *testing.T) {
	m := match.New(match.Config{})
	s := &snapshot.Snapshot{Turn: board.White}
	s.Board.Set(board.NewSquare(0, 7), board.BlackKing)
	s.Board.Set(board.NewSquare(7, 0), board.WhiteKing)
	s.Board.Set(board.NewSquare(1, 0), board.WhitePawn)
	if err := m.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	out := run(t, New(m, nil, nil), "a7a8\n")
	expect(t, out, "♙ a7 -> a8 (Promoted)", "CHECK!")
	b := m.Board()
	if got := b.At(board.NewSquare(0, 0)); got != board.WhiteQueen {
		t.Errorf("a8 = %s, want WhiteQueen", got.Name())
	}
}

func TestUnderPromotion(t *testing.T) {
	m := match.New(match.Config{})
	s := &snapshot.Snapshot{Turn: board.White}
	s.Board.Set(board.NewSquare(0, 7), board.BlackKing)
	s.Board.Set(board.NewSquare(7, 0), board.WhiteKing)
	s.Board.Set(board.NewSquare(1, 0), board.WhitePawn)
	s.Board.Set(board.NewSquare(4, 4), board.BlackPawn)
	if err := m.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	run(t, New(m, nil, nil), "move a7a8 n\n")
	b := m.Board()
	if got := b.At(board.NewSquare(0, 0)); got != board.WhiteKnight {
		t.Errorf("a8 = %s, want WhiteKnight", got.Name())
	}
}

func TestSaveLoadListDelete(t *testing.T) {
	store := openStore(t)
	c := New(match.New(match.Config{}), store, nil)

	out := run(t, c, strings.Join([]string{
		"e2e4",
		"save first",
		"new",
		"load first",
		"list",
		"delete first",
		"list",
		"load first",
	}, "\n"))

	expect(t, out,
		"Commands:",
		"Saved as first",
		"Loaded first",
		"* first",
		"Deleted first",
		"No saved games",
		"error: saved game not found: first",
	)
	if c.match.Turn() != board.Black {
		t.Error("loaded game should have black to move")
	}

	// The help text is only shown on the first run against a database.
	out = run(t, New(match.New(match.Config{}), store, nil), "status\n")
	if strings.Contains(out, "Commands:") {
		t.Error("help shown again after first launch")
	}
}

func TestLoadDefaultsToLastSlot(t *testing.T) {
	store := openStore(t)
	run(t, New(match.New(match.Config{}), store, nil), "d2d4\nsave\n")

	m := match.New(match.Config{})
	out := run(t, New(m, store, nil), "load\n")
	expect(t, out, "Loaded ")
	if m.Turn() != board.Black {
		t.Error("last saved game was not loaded")
	}
}

func TestBrokenSaveFallsBack(t *testing.T) {
	store := openStore(t)
	if _, err := store.SaveGame("broken", []byte("WHITE\nnot a number\n")); err != nil {
		t.Fatal(err)
	}
	m := match.New(match.Config{})
	out := run(t, New(m, store, nil), "e2e4\nload broken\n")

	expect(t, out, "error: could not load broken, started a new game")
	if m.Board() != board.StartingBoard() {
		t.Error("failed load should leave a fresh game")
	}
}

func TestResignAndStats(t *testing.T) {
	store := openStore(t)
	m := match.New(match.Config{})
	m.OnEnd(func(st game.Status) {
		if err := store.RecordResult(st); err != nil {
			t.Errorf("RecordResult: %v", err)
		}
	})

	out := run(t, New(m, store, nil), "resign\nstats\n")
	expect(t, out,
		"Black wins by resignation",
		"Games: 1  White: 0  Black: 1  Draws: 0 (0%)",
		"resignation",
	)
}
