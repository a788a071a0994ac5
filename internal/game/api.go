package game

import (
	"fmt"

	"github.com/hailam/chessrules/internal/board"
)

// Move is a request to move the piece on From to To. Promotion names the
// piece a pawn becomes when it reaches the last row; it is ignored otherwise.
type Move struct {
	From      board.Square
	To        board.Square
	Promotion board.PieceType
}

// NewMove creates a move without a promotion piece.
func NewMove(from, to board.Square) Move {
	return Move{From: from, To: to, Promotion: board.NoPieceType}
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion.IsPromotable() {
		s += string(m.Promotion.Char())
	}
	return s
}

// ParseMove parses the coordinate form produced by Move.String.
func ParseMove(s string) (Move, error) {
	if len(s) != 4 && len(s) != 5 {
		return Move{}, fmt.Errorf("invalid move string: %s", s)
	}
	from, err := board.ParseSquare(s[0:2])
	if err != nil {
		return Move{}, err
	}
	to, err := board.ParseSquare(s[2:4])
	if err != nil {
		return Move{}, err
	}
	m := NewMove(from, to)
	if len(s) == 5 {
		m.Promotion = board.ParsePieceType(s[4:])
		if !m.Promotion.IsPromotable() {
			return Move{}, fmt.Errorf("%w: %s", ErrInvalidPromotion, s)
		}
	}
	return m, nil
}

// MoveResult describes a committed move.
type MoveResult struct {
	Move      Move
	Piece     board.Piece // piece that moved, before any promotion
	Captured  board.Piece // NoPiece when nothing was taken
	Castling  bool
	Promotion bool
	Check     bool // the side now to move is in check
	Status    Status
}

// AttemptMove validates m for the side to move and, if legal, commits it in
// full: rook relocation, piece relocation, promotion, turn switch, history.
// A promotion that names no piece becomes a queen. Rejected moves leave the
// game untouched.
func (g *Game) AttemptMove(m Move) (MoveResult, error) {
	if g.status.Over() {
		return MoveResult{}, ErrGameOver
	}
	p := g.board.At(m.From)
	if p == board.NoPiece {
		return MoveResult{}, fmt.Errorf("%w: %s: no piece on %s", ErrIllegalMove, m, m.From)
	}
	if p.Color() != g.turn {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrNotYourTurn, m)
	}
	if !g.CheckRules(m.From, m.To) || !g.SimulateMoveAndCheckSafety(m.From, m.To) {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrIllegalMove, m)
	}

	res := MoveResult{
		Move:      m,
		Piece:     p,
		Castling:  p.Type() == board.King && board.IsCastlingShape(m.From, m.To),
		Promotion: p.Type() == board.Pawn && (m.To.Row() == 0 || m.To.Row() == board.Size-1),
	}
	if res.Promotion && m.Promotion == board.NoPieceType {
		res.Move.Promotion = board.Queen
	} else if res.Promotion && !m.Promotion.IsPromotable() {
		return MoveResult{}, fmt.Errorf("%w: %s", ErrInvalidPromotion, m)
	}
	if !res.Promotion {
		res.Move.Promotion = board.NoPieceType
	}

	if res.Castling {
		g.HandleCastling(m.From, m.To)
	}
	res.Captured = g.commit(p, m.From, m.To)
	if res.Promotion {
		g.board.Set(m.To, board.NewPiece(res.Move.Promotion, p.Color()))
	}
	g.SwitchTurn()
	g.record(g.turn)

	g.status = g.evaluate()
	res.Check = g.IsKingInCheck(g.turn)
	res.Status = g.status
	return res, nil
}

// LegalDestinations returns every square the piece on sq may legally move
// to, in board order. It does not look at whose turn it is.
func (g *Game) LegalDestinations(sq board.Square) []board.Square {
	if g.board.At(sq) == board.NoPiece {
		return nil
	}
	var dests []board.Square
	for to := board.Square(0); to < board.NoSquare; to++ {
		if g.CheckRules(sq, to) && g.SimulateMoveAndCheckSafety(sq, to) {
			dests = append(dests, to)
		}
	}
	return dests
}

// LegalMoves returns every legal move of the side to move. Promotions are
// listed once, as queen promotions.
func (g *Game) LegalMoves() []Move {
	var moves []Move
	for from := board.Square(0); from < board.NoSquare; from++ {
		p := g.board.At(from)
		if p == board.NoPiece || p.Color() != g.turn {
			continue
		}
		for _, to := range g.LegalDestinations(from) {
			m := NewMove(from, to)
			if p.Type() == board.Pawn && (to.Row() == 0 || to.Row() == board.Size-1) {
				m.Promotion = board.Queen
			}
			moves = append(moves, m)
		}
	}
	return moves
}
