package game

import (
	"strings"
	"testing"

	"github.com/hailam/chessrules/internal/board"
)

func sq(t *testing.T, s string) board.Square {
	t.Helper()
	square, err := board.ParseSquare(s)
	if err != nil {
		t.Fatalf("ParseSquare(%q): %v", s, err)
	}
	return square
}

func mv(t *testing.T, s string) Move {
	t.Helper()
	m, err := ParseMove(s)
	if err != nil {
		t.Fatalf("ParseMove(%q): %v", s, err)
	}
	return m
}

// play applies each move in order and fails the test on the first rejection.
func play(t *testing.T, g *Game, moves ...string) MoveResult {
	t.Helper()
	var res MoveResult
	for _, s := range moves {
		var err error
		res, err = g.AttemptMove(mv(t, s))
		if err != nil {
			t.Fatalf("move %s rejected: %v", s, err)
		}
	}
	return res
}

// fromPlacement builds a game from the piece-placement and side-to-move fields
// of a FEN record. Other fields are ignored: castling rights are inferred from
// piece placement.
func fromPlacement(t *testing.T, fen string, opts ...Option) *Game {
	t.Helper()
	fields := strings.Fields(fen)
	if len(fields) < 2 {
		t.Fatalf("need at least 2 fields in %q", fen)
	}

	var b board.Board
	rows := strings.Split(fields[0], "/")
	if len(rows) != board.Size {
		t.Fatalf("need 8 ranks in %q, got %d", fields[0], len(rows))
	}
	for row, text := range rows {
		col := 0
		for i := 0; i < len(text); i++ {
			if col >= board.Size {
				t.Fatalf("too many squares in rank %d of %q", board.Size-row, fen)
			}
			c := text[i]
			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}
			p := board.PieceFromChar(c)
			if p == board.NoPiece {
				t.Fatalf("invalid piece character %q in %q", c, fen)
			}
			b.Set(board.NewSquare(row, col), p)
			col++
		}
		if col != board.Size {
			t.Fatalf("rank %d of %q has %d squares", board.Size-row, fen, col)
		}
	}

	var turn board.Color
	switch fields[1] {
	case "w":
		turn = board.White
	case "b":
		turn = board.Black
	default:
		t.Fatalf("invalid side to move %q", fields[1])
	}

	g := New(opts...)
	if err := g.Restore(b, turn); err != nil {
		t.Fatalf("Restore(%q): %v", fen, err)
	}
	return g
}
