package match

import (
	"errors"
	"reflect"
	"testing"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/snapshot"
)

func play(t *testing.T, m *Match, moves ...string) game.MoveResult {
	t.Helper()
	var res game.MoveResult
	for _, s := range moves {
		mv, err := game.ParseMove(s)
		if err != nil {
			t.Fatalf("ParseMove(%q): %v", s, err)
		}
		res, err = m.Move(mv)
		if err != nil {
			t.Fatalf("move %s rejected: %v", s, err)
		}
	}
	return res
}

func TestMode(t *testing.T) {
	if got := New(Config{}).Mode(); got != game.CastlingLenient {
		t.Errorf("default mode = %s, want lenient", got)
	}
	if got := New(Config{Castling: game.CastlingStrict}).Mode(); got != game.CastlingStrict {
		t.Errorf("mode = %s, want strict", got)
	}
}

func TestMoveLogs(t *testing.T) {
	m := New(Config{})
	play(t, m, "g1f3", "e7e5")

	white, black := m.Logs()
	if !reflect.DeepEqual(white, []string{"♘ g1 -> f3"}) {
		t.Errorf("white log = %q", white)
	}
	if !reflect.DeepEqual(black, []string{"♟ e7 -> e5"}) {
		t.Errorf("black log = %q", black)
	}
}

func TestCheckNote(t *testing.T) {
	m := New(Config{})
	play(t, m, "e2e4", "f7f6", "d1h5")

	_, black := m.Logs()
	if black[len(black)-1] != "CHECK!" {
		t.Errorf("check note missing: %q", black)
	}
	if !m.InCheck() {
		t.Error("black should be in check")
	}
}

func TestMateEndsGame(t *testing.T) {
	m := New(Config{})
	var ended []game.Status
	m.OnEnd(func(st game.Status) { ended = append(ended, st) })

	play(t, m, "e2e4", "f7f6", "d2d4", "g7g5", "d1h5")

	if m.Status().Kind != game.Checkmate || m.Status().Winner != board.White {
		t.Fatalf("status = %v, want white checkmate", m.Status())
	}
	_, black := m.Logs()
	if black[len(black)-1] != "♟ g7 -> g5" {
		t.Errorf("mate should not add a check note: %q", black)
	}
	if len(ended) != 1 || ended[0].Kind != game.Checkmate {
		t.Errorf("OnEnd calls = %v", ended)
	}
}

func TestCastlingAndPromotionSuffixes(t *testing.T) {
	m := New(Config{})
	play(t, m, "e2e4", "e7e5", "g1f3", "b8c6", "f1c4", "g8f6", "e1g1")

	white, _ := m.Logs()
	if got := white[len(white)-1]; got != "♔ e1 -> g1 (Castling)" {
		t.Errorf("castling log = %q", got)
	}
	b := m.Board()
	if b.At(board.NewSquare(7, 5)) != board.WhiteRook || b.At(board.NewSquare(7, 7)) != board.NoPiece {
		t.Error("rook was not relocated")
	}

	s := &snapshot.Snapshot{Turn: board.White}
	s.Board.Set(board.NewSquare(0, 7), board.BlackKing)
	s.Board.Set(board.NewSquare(7, 0), board.WhiteKing)
	s.Board.Set(board.NewSquare(1, 2), board.WhitePawn)
	s.Board.Set(board.NewSquare(3, 3), board.BlackRook)
	if err := m.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	play(t, m, "c7c8r")
	white, _ = m.Logs()
	if got := white[len(white)-1]; got != "♙ c7 -> c8 (Promoted)" {
		t.Errorf("promotion log = %q", got)
	}
}

func TestDrawNote(t *testing.T) {
	m := New(Config{})
	s := &snapshot.Snapshot{Turn: board.White}
	s.Board.Set(board.NewSquare(0, 4), board.BlackKing)
	s.Board.Set(board.NewSquare(5, 5), board.BlackRook)
	s.Board.Set(board.NewSquare(7, 4), board.WhiteKing)
	s.Board.Set(board.NewSquare(7, 6), board.WhiteKnight)
	if err := m.Restore(s); err != nil {
		t.Fatalf("Restore: %v", err)
	}

	res := play(t, m, "g1f3")
	if res.Status.Kind != game.DrawInsufficientMaterial {
		t.Fatalf("status = %v", res.Status)
	}
	_, black := m.Logs()
	if black[len(black)-1] != "Draw (Insufficient Material)" {
		t.Errorf("black log = %q", black)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	m := New(Config{Seconds: 300})
	play(t, m, "e2e4", "e7e5", "g1f3")
	m.clock.Tick()

	data, err := m.Save()
	if err != nil {
		t.Fatalf("Save: %v", err)
	}

	n := New(Config{Seconds: 300})
	if err := n.Load(data); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if n.Board() != m.Board() || n.Turn() != board.Black {
		t.Error("board or turn not restored")
	}
	wm, bm := m.Logs()
	wn, bn := n.Logs()
	if !reflect.DeepEqual(wm, wn) || !reflect.DeepEqual(bm, bn) {
		t.Errorf("logs not restored: %q %q", wn, bn)
	}
	if w, b := n.Remaining(); w != 300 || b != 299 {
		t.Errorf("clocks = %d/%d, want 300/299", w, b)
	}

	play(t, n, "b8c6")
}

func TestLoadFallsBackToNewGame(t *testing.T) {
	m := New(Config{})
	play(t, m, "e2e4")

	err := m.Load([]byte("garbage"))
	if !errors.Is(err, snapshot.ErrMalformed) {
		t.Fatalf("Load error = %v, want ErrMalformed", err)
	}
	if m.Board() != board.StartingBoard() || m.Turn() != board.White {
		t.Error("failed load should leave a fresh game")
	}
	if w, b := m.Logs(); len(w) != 0 || len(b) != 0 {
		t.Error("failed load should clear the logs")
	}

	s := &snapshot.Snapshot{Turn: board.White} // no kings
	if err := m.Restore(s); !errors.Is(err, board.ErrKingCount) {
		t.Errorf("Restore error = %v, want ErrKingCount", err)
	}
}

func TestTimeout(t *testing.T) {
	m := New(Config{Seconds: 2})
	var ended []game.Status
	m.OnEnd(func(st game.Status) { ended = append(ended, st) })

	m.clock.Tick()
	m.clock.Tick()

	want := game.Status{Kind: game.TimedOut, Winner: board.Black}
	if m.Status() != want {
		t.Fatalf("status = %v, want %v", m.Status(), want)
	}
	if _, err := m.Move(game.NewMove(board.NewSquare(6, 4), board.NewSquare(4, 4))); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("move after timeout: %v", err)
	}
	if len(ended) != 1 {
		t.Errorf("OnEnd calls = %d, want 1", len(ended))
	}
}

func TestResign(t *testing.T) {
	m := New(Config{})
	st := m.Resign(board.Black)
	if st.Kind != game.Resigned || st.Winner != board.White {
		t.Fatalf("status = %v", st)
	}
	if again := m.Resign(board.White); again != st {
		t.Errorf("second resignation changed the result to %v", again)
	}
}

func TestLegalDestinationsOnlyForSideToMove(t *testing.T) {
	m := New(Config{})
	if d := m.LegalDestinations(board.NewSquare(1, 4)); d != nil {
		t.Errorf("black pawn destinations on white's turn: %v", d)
	}
	d := m.LegalDestinations(board.NewSquare(7, 6))
	if len(d) != 2 {
		t.Errorf("knight destinations = %v", d)
	}
}

func TestCaptured(t *testing.T) {
	m := New(Config{})
	play(t, m, "e2e4", "d7d5", "e4d5", "d8d5")
	byWhite, byBlack := m.Captured()
	if len(byWhite) != 1 || byWhite[0] != board.BlackPawn {
		t.Errorf("captured by white = %v", byWhite)
	}
	if len(byBlack) != 1 || byBlack[0] != board.WhitePawn {
		t.Errorf("captured by black = %v", byBlack)
	}
}
