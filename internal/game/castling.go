package game

import "github.com/hailam/chessrules/internal/board"

// Rook sides, used to index the rook-moved flags.
const (
	QueenSide = 0
	KingSide  = 1
)

// CastlingMode selects how strictly the two-column king move is checked.
type CastlingMode uint8

const (
	// CastlingLenient accepts any two-column king move that fits the king
	// pattern. The rook is relocated if it is there. Kings also count as
	// attacking the squares two columns away.
	CastlingLenient CastlingMode = iota
	// CastlingStrict applies the standard castling conditions.
	CastlingStrict
)

// String returns the mode name.
func (m CastlingMode) String() string {
	if m == CastlingStrict {
		return "strict"
	}
	return "lenient"
}

// CastlingRights records whether each king and each original rook has moved.
// Flags only ever go from false to true during a game.
type CastlingRights struct {
	WhiteKingMoved bool
	BlackKingMoved bool
	WhiteRookMoved [2]bool // [QueenSide, KingSide]
	BlackRookMoved [2]bool
}

// KingMoved reports whether c's king has moved.
func (cr CastlingRights) KingMoved(c board.Color) bool {
	if c == board.White {
		return cr.WhiteKingMoved
	}
	return cr.BlackKingMoved
}

// RookMoved reports whether c's rook on the given side has moved.
func (cr CastlingRights) RookMoved(c board.Color, side int) bool {
	if c == board.White {
		return cr.WhiteRookMoved[side]
	}
	return cr.BlackRookMoved[side]
}

// flags lists the six booleans in fingerprint order.
func (cr CastlingRights) flags() []bool {
	return []bool{
		cr.WhiteKingMoved, cr.BlackKingMoved,
		cr.WhiteRookMoved[QueenSide], cr.WhiteRookMoved[KingSide],
		cr.BlackRookMoved[QueenSide], cr.BlackRookMoved[KingSide],
	}
}

func (cr *CastlingRights) markKing(c board.Color) {
	if c == board.White {
		cr.WhiteKingMoved = true
	} else {
		cr.BlackKingMoved = true
	}
}

func (cr *CastlingRights) markRook(c board.Color, side int) {
	if c == board.White {
		cr.WhiteRookMoved[side] = true
	} else {
		cr.BlackRookMoved[side] = true
	}
}

// markMoved updates the flags after p left from.
func (cr *CastlingRights) markMoved(p board.Piece, from board.Square) {
	c := p.Color()
	switch p.Type() {
	case board.King:
		cr.markKing(c)
	case board.Rook:
		if from == rookCorner(c, QueenSide) {
			cr.markRook(c, QueenSide)
		} else if from == rookCorner(c, KingSide) {
			cr.markRook(c, KingSide)
		}
	}
}

// inferRights derives flags from piece placement: a king or rook that is not
// on its starting square is treated as having moved.
func inferRights(b *board.Board) CastlingRights {
	var cr CastlingRights
	for _, c := range []board.Color{board.White, board.Black} {
		if b.At(kingHome(c)) != board.NewPiece(board.King, c) {
			cr.markKing(c)
		}
		for _, side := range []int{QueenSide, KingSide} {
			if b.At(rookCorner(c, side)) != board.NewPiece(board.Rook, c) {
				cr.markRook(c, side)
			}
		}
	}
	return cr
}

func kingHome(c board.Color) board.Square {
	return board.NewSquare(c.HomeRow(), 4)
}

func rookCorner(c board.Color, side int) board.Square {
	if side == KingSide {
		return board.NewSquare(c.HomeRow(), 7)
	}
	return board.NewSquare(c.HomeRow(), 0)
}

// castlingSide returns the rook side a two-column king move heads towards.
func castlingSide(from, to board.Square) int {
	if to.Col() > from.Col() {
		return KingSide
	}
	return QueenSide
}

// canCastle applies the standard conditions to a two-column king move.
func (g *Game) canCastle(c board.Color, from, to board.Square) bool {
	if from != kingHome(c) || to.Row() != from.Row() {
		return false
	}
	side := castlingSide(from, to)
	if g.rights.KingMoved(c) || g.rights.RookMoved(c, side) {
		return false
	}
	corner := rookCorner(c, side)
	if g.board.At(corner) != board.NewPiece(board.Rook, c) {
		return false
	}

	step := 1
	if side == QueenSide {
		step = -1
	}
	for col := from.Col() + step; col != corner.Col(); col += step {
		if g.board.At(board.NewSquare(from.Row(), col)) != board.NoPiece {
			return false
		}
	}

	them := c.Other()
	transit := board.NewSquare(from.Row(), from.Col()+step)
	return !g.squareAttacked(&g.board, from, them) &&
		!g.squareAttacked(&g.board, transit, them) &&
		!g.squareAttacked(&g.board, to, them)
}

// relocateRook moves the castling rook next to a king travelling from -> to.
// Nothing happens unless the corner holds a rook of color c and the square
// it would land on is empty.
func relocateRook(b *board.Board, c board.Color, from, to board.Square) {
	side := castlingSide(from, to)
	corner := board.NewSquare(to.Row(), 7)
	target := board.NewSquare(to.Row(), 5)
	if side == QueenSide {
		corner = board.NewSquare(to.Row(), 0)
		target = board.NewSquare(to.Row(), 3)
	}
	if b.At(corner) != board.NewPiece(board.Rook, c) || b.At(target) != board.NoPiece {
		return
	}
	b.Move(corner, target)
}
