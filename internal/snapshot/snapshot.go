// Package snapshot reads and writes the line-oriented save format of a match:
// side to move, both clocks, the board and both move logs.
//
// Layout, one item per line:
//
//	WHITE | BLACK
//	<white seconds>
//	<black seconds>
//	8 board rows, each 8 comma-separated tokens: "null" or a piece name
//	<white log>   newlines written as %%%, "EMPTY" when empty
//	<black log>
package snapshot

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/hailam/chessrules/internal/board"
)

// ErrMalformed is returned when save data cannot be decoded.
var ErrMalformed = errors.New("malformed snapshot")

const (
	turnWhite    = "WHITE"
	turnBlack    = "BLACK"
	emptyCell    = "null"
	emptyLog     = "EMPTY"
	newlineToken = "%%%"
)

// Snapshot is the persisted state of a match.
type Snapshot struct {
	Turn         board.Color
	WhiteSeconds int
	BlackSeconds int
	Board        board.Board
	WhiteLog     string
	BlackLog     string
}

// Encode writes s to w. Every board token is followed by a comma.
func Encode(w io.Writer, s *Snapshot) error {
	bw := bufio.NewWriter(w)

	turn := turnWhite
	if s.Turn == board.Black {
		turn = turnBlack
	}
	fmt.Fprintln(bw, turn)
	fmt.Fprintln(bw, s.WhiteSeconds)
	fmt.Fprintln(bw, s.BlackSeconds)

	for row := 0; row < board.Size; row++ {
		for col := 0; col < board.Size; col++ {
			p := s.Board.At(board.NewSquare(row, col))
			bw.WriteString(p.Name())
			bw.WriteByte(',')
		}
		bw.WriteByte('\n')
	}

	fmt.Fprintln(bw, escapeLog(s.WhiteLog))
	fmt.Fprintln(bw, escapeLog(s.BlackLog))
	return bw.Flush()
}

// Decode reads a snapshot written by Encode. Missing log lines decode as
// empty logs. Piece placement is not checked for playability.
func Decode(r io.Reader) (*Snapshot, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	line := 0
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		line++
		return strings.TrimRight(sc.Text(), "\r"), true
	}
	fail := func(format string, args ...any) error {
		return fmt.Errorf("%w: line %d: %s", ErrMalformed, line, fmt.Sprintf(format, args...))
	}

	s := &Snapshot{}

	text, ok := next()
	if !ok {
		return nil, fail("missing turn")
	}
	switch strings.TrimSpace(text) {
	case turnWhite:
		s.Turn = board.White
	case turnBlack:
		s.Turn = board.Black
	default:
		return nil, fail("bad turn %q", text)
	}

	for _, dst := range []*int{&s.WhiteSeconds, &s.BlackSeconds} {
		text, ok := next()
		if !ok {
			return nil, fail("missing timer")
		}
		n, err := strconv.Atoi(strings.TrimSpace(text))
		if err != nil || n < 0 {
			return nil, fail("bad timer %q", text)
		}
		*dst = n
	}

	for row := 0; row < board.Size; row++ {
		text, ok := next()
		if !ok {
			return nil, fail("missing board row %d", row)
		}
		tokens := strings.Split(text, ",")
		if len(tokens) == board.Size+1 && tokens[board.Size] == "" {
			tokens = tokens[:board.Size]
		}
		if len(tokens) != board.Size {
			return nil, fail("row has %d cells", len(tokens))
		}
		for col, tok := range tokens {
			tok = strings.TrimSpace(tok)
			if tok == emptyCell {
				continue
			}
			p, ok := board.PieceFromName(tok)
			if !ok {
				return nil, fail("unknown piece %q", tok)
			}
			s.Board.Set(board.NewSquare(row, col), p)
		}
	}

	if text, ok := next(); ok {
		s.WhiteLog = unescapeLog(text)
	}
	if text, ok := next(); ok {
		s.BlackLog = unescapeLog(text)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return s, nil
}

// MarshalText implements encoding.TextMarshaler.
func (s *Snapshot) MarshalText() ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Snapshot) UnmarshalText(data []byte) error {
	decoded, err := Decode(bytes.NewReader(data))
	if err != nil {
		return err
	}
	*s = *decoded
	return nil
}

func escapeLog(s string) string {
	if s == "" {
		return emptyLog
	}
	return strings.ReplaceAll(s, "\n", newlineToken)
}

func unescapeLog(s string) string {
	if s == emptyLog {
		return ""
	}
	return strings.ReplaceAll(s, newlineToken, "\n")
}

// Captured lists, for each side, the opposing pieces missing from b compared
// with the sixteen each side starts with. A promoted pawn shows up as a
// captured pawn.
func Captured(b *board.Board) (byWhite, byBlack []board.Piece) {
	var onBoard [board.NoPiece]int
	for _, p := range b.Pieces() {
		onBoard[p]++
	}
	missing := func(c board.Color) []board.Piece {
		var out []board.Piece
		for _, p := range board.StartingMaterial(c) {
			if onBoard[p] > 0 {
				onBoard[p]--
				continue
			}
			out = append(out, p)
		}
		return out
	}
	return missing(board.Black), missing(board.White)
}
