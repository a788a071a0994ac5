package snapshot

import (
	"errors"
	"strings"
	"testing"

	"github.com/hailam/chessrules/internal/board"
)

const startText = `WHITE
600
600
BlackRook,BlackKnight,BlackBishop,BlackQueen,BlackKing,BlackBishop,BlackKnight,BlackRook,
BlackPawn,BlackPawn,BlackPawn,BlackPawn,BlackPawn,BlackPawn,BlackPawn,BlackPawn,
null,null,null,null,null,null,null,null,
null,null,null,null,null,null,null,null,
null,null,null,null,null,null,null,null,
null,null,null,null,null,null,null,null,
WhitePawn,WhitePawn,WhitePawn,WhitePawn,WhitePawn,WhitePawn,WhitePawn,WhitePawn,
WhiteRook,WhiteKnight,WhiteBishop,WhiteQueen,WhiteKing,WhiteBishop,WhiteKnight,WhiteRook,
EMPTY
EMPTY
`

func TestEncodeStartingPosition(t *testing.T) {
	s := &Snapshot{
		Turn:         board.White,
		WhiteSeconds: 600,
		BlackSeconds: 600,
		Board:        board.StartingBoard(),
	}
	data, err := s.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if string(data) != startText {
		t.Errorf("encoded snapshot mismatch:\n%s", data)
	}
}

func TestRoundTrip(t *testing.T) {
	b := board.StartingBoard()
	b.Move(board.NewSquare(6, 4), board.NewSquare(4, 4))
	b.Move(board.NewSquare(0, 6), board.NewSquare(2, 5))

	in := &Snapshot{
		Turn:         board.Black,
		WhiteSeconds: 512,
		BlackSeconds: 7,
		Board:        b,
		WhiteLog:     "♙ e2 -> e4\n♘ g1 -> f3",
		BlackLog:     "♞ g8 -> f6",
	}
	data, err := in.MarshalText()
	if err != nil {
		t.Fatalf("MarshalText: %v", err)
	}
	if strings.Count(string(data), "\n") != 13 {
		t.Errorf("expected 13 lines, got:\n%s", data)
	}

	var out Snapshot
	if err := out.UnmarshalText(data); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if out != *in {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", out, *in)
	}
}

func TestDecodeLenientInput(t *testing.T) {
	// No trailing commas, CRLF line endings and no log lines.
	text := strings.Join([]string{
		"BLACK", "10", "20",
		"null,null,null,null,BlackKing,null,null,null",
		"null,null,null,null,null,null,null,null",
		"null,null,null,null,null,null,null,null",
		"null,null,null,null,null,null,null,null",
		"null,null,null,null,null,null,null,null",
		"null,null,null,null,null,null,null,null",
		"null,null,null,null,null,null,null,null",
		"null,null,null,null,WhiteKing,null,null,null",
	}, "\r\n")

	s, err := Decode(strings.NewReader(text))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if s.Turn != board.Black || s.WhiteSeconds != 10 || s.BlackSeconds != 20 {
		t.Errorf("header = %v %d %d", s.Turn, s.WhiteSeconds, s.BlackSeconds)
	}
	if s.Board.Count() != 2 || s.Board.FindKing(board.White) != board.NewSquare(7, 4) {
		t.Errorf("unexpected board:%s", s.Board.String())
	}
	if s.WhiteLog != "" || s.BlackLog != "" {
		t.Errorf("logs should be empty, got %q %q", s.WhiteLog, s.BlackLog)
	}
}

func TestDecodeMalformed(t *testing.T) {
	lines := strings.Split(startText, "\n")
	replace := func(i int, v string) string {
		c := append([]string(nil), lines...)
		c[i] = v
		return strings.Join(c, "\n")
	}

	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"bad turn", replace(0, "RED")},
		{"bad timer", replace(1, "ten")},
		{"negative timer", replace(2, "-5")},
		{"short row", replace(3, "null,null")},
		{"unknown piece", replace(5, "null,null,null,WhiteDragon,null,null,null,null,")},
		{"truncated", strings.Join(lines[:6], "\n")},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tc.text))
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Decode error = %v, want ErrMalformed", err)
			}
		})
	}
}

func TestCaptured(t *testing.T) {
	b := board.StartingBoard()
	if w, bl := Captured(&b); len(w) != 0 || len(bl) != 0 {
		t.Fatalf("nothing captured at start, got %v %v", w, bl)
	}

	b.Set(board.NewSquare(0, 3), board.NoPiece) // black queen gone
	b.Set(board.NewSquare(1, 0), board.NoPiece) // black pawn gone
	b.Set(board.NewSquare(7, 6), board.NoPiece) // white knight gone

	byWhite, byBlack := Captured(&b)
	if len(byWhite) != 2 || byWhite[0] != board.BlackQueen || byWhite[1] != board.BlackPawn {
		t.Errorf("captured by white = %v", byWhite)
	}
	if len(byBlack) != 1 || byBlack[0] != board.WhiteKnight {
		t.Errorf("captured by black = %v", byBlack)
	}
}

func TestCapturedCountsPromotedPawn(t *testing.T) {
	b := board.StartingBoard()
	b.Set(board.NewSquare(6, 0), board.NoPiece)
	b.Set(board.NewSquare(3, 3), board.WhiteQueen)

	_, byBlack := Captured(&b)
	if len(byBlack) != 1 || byBlack[0] != board.WhitePawn {
		t.Errorf("captured by black = %v, want one white pawn", byBlack)
	}
}
