package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// StatusKind is the game-over condition, if any.
type StatusKind uint8

const (
	Ongoing StatusKind = iota
	Checkmate
	Stalemate
	DrawRepetition
	DrawInsufficientMaterial
	Resigned
	TimedOut
)

// String returns a short name for the kind.
func (k StatusKind) String() string {
	switch k {
	case Ongoing:
		return "ongoing"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case DrawRepetition:
		return "threefold repetition"
	case DrawInsufficientMaterial:
		return "insufficient material"
	case Resigned:
		return "resignation"
	case TimedOut:
		return "timeout"
	default:
		return "unknown"
	}
}

// Status is the game-over signal. Winner is NoColor for draws and ongoing games.
type Status struct {
	Kind   StatusKind
	Winner board.Color
}

// Over reports whether the game has ended.
func (s Status) Over() bool {
	return s.Kind != Ongoing
}

// IsDraw reports whether the game ended without a winner.
func (s Status) IsDraw() bool {
	return s.Over() && s.Winner == board.NoColor
}

// String describes the result, e.g. "White wins by checkmate".
func (s Status) String() string {
	switch {
	case !s.Over():
		return "Game in progress"
	case s.IsDraw():
		return fmt.Sprintf("Draw by %s", s.Kind)
	default:
		return fmt.Sprintf("%s wins by %s", s.Winner, s.Kind)
	}
}

// Status returns the game-over signal as of the last committed move.
func (g *Game) Status() Status {
	return g.status
}

// IsInCheck reports whether c's king is attacked.
func (g *Game) IsInCheck(c board.Color) bool {
	return g.IsKingInCheck(c)
}

// UpdateStatus re-evaluates the terminal conditions against the side to move.
// AttemptMove does this itself; callers driving ExecuteMove and SwitchTurn by
// hand call it once the move is complete.
func (g *Game) UpdateStatus() Status {
	if g.status.Kind != Resigned && g.status.Kind != TimedOut {
		g.status = g.evaluate()
	}
	return g.status
}

// Resign ends the game with c losing.
func (g *Game) Resign(c board.Color) {
	if g.status.Over() {
		return
	}
	g.status = Status{Kind: Resigned, Winner: c.Other()}
}

// Timeout ends the game with c losing on time.
func (g *Game) Timeout(c board.Color) {
	if g.status.Over() {
		return
	}
	g.status = Status{Kind: TimedOut, Winner: c.Other()}
}

// evaluate checks, in order, insufficient material, repetition, then
// checkmate and stalemate for the side to move.
func (g *Game) evaluate() Status {
	if g.CheckInsufficientMaterial() {
		return Status{Kind: DrawInsufficientMaterial, Winner: board.NoColor}
	}
	if g.CheckThreefoldRepetition() {
		return Status{Kind: DrawRepetition, Winner: board.NoColor}
	}
	if g.HasLegalMoves(g.turn) {
		return Status{Kind: Ongoing, Winner: board.NoColor}
	}
	if g.IsKingInCheck(g.turn) {
		return Status{Kind: Checkmate, Winner: g.turn.Other()}
	}
	return Status{Kind: Stalemate, Winner: board.NoColor}
}
