package board

import (
	"errors"
	"strconv"
	"strings"
)

// Size is the number of rows and columns of the board.
const Size = 8

// Validation errors returned by Board.Validate.
var (
	ErrKingCount  = errors.New("each side must have exactly one king")
	ErrPawnOnRank = errors.New("pawns cannot stand on the first or last row")
)

// Board is an 8x8 grid of optional pieces. The zero value is an empty board.
// Board is a plain value: assigning it copies every cell.
type Board struct {
	// cells hold piece+1 so that 0 means empty.
	cells [Size * Size]uint8
}

// StartingBoard returns a board in the standard starting layout.
func StartingBoard() Board {
	var b Board
	b.Setup()
	return b
}

// At returns the piece on sq, or NoPiece if the square is empty.
func (b *Board) At(sq Square) Piece {
	if !sq.IsValid() || b.cells[sq] == 0 {
		return NoPiece
	}
	return Piece(b.cells[sq] - 1)
}

// Set places p on sq, discarding whatever stood there. NoPiece clears the square.
func (b *Board) Set(sq Square, p Piece) {
	if !sq.IsValid() {
		return
	}
	if p >= NoPiece {
		b.cells[sq] = 0
		return
	}
	b.cells[sq] = uint8(p) + 1
}

// Move relocates the piece on from to to and clears from. It returns the
// piece previously standing on to.
func (b *Board) Move(from, to Square) Piece {
	captured := b.At(to)
	b.Set(to, b.At(from))
	b.Set(from, NoPiece)
	return captured
}

// Clear empties every square.
func (b *Board) Clear() {
	b.cells = [Size * Size]uint8{}
}

// backRank is the piece order on both home rows, from column 0 to 7.
var backRank = [Size]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Setup resets the board to the starting layout: black on rows 0-1,
// white on rows 6-7, rows 2-5 empty.
func (b *Board) Setup() {
	b.Clear()
	for col := 0; col < Size; col++ {
		b.Set(NewSquare(0, col), NewPiece(backRank[col], Black))
		b.Set(NewSquare(1, col), BlackPawn)
		b.Set(NewSquare(6, col), WhitePawn)
		b.Set(NewSquare(7, col), NewPiece(backRank[col], White))
	}
}

// StartingMaterial returns the sixteen pieces a color starts the game with.
func StartingMaterial(c Color) []Piece {
	pieces := make([]Piece, 0, 2*Size)
	for _, pt := range backRank {
		pieces = append(pieces, NewPiece(pt, c))
	}
	for i := 0; i < Size; i++ {
		pieces = append(pieces, NewPiece(Pawn, c))
	}
	return pieces
}

// Count returns the number of pieces on the board.
func (b *Board) Count() int {
	n := 0
	for _, c := range b.cells {
		if c != 0 {
			n++
		}
	}
	return n
}

// Pieces returns every piece on the board in row-major order.
func (b *Board) Pieces() []Piece {
	pieces := make([]Piece, 0, 32)
	for sq := Square(0); sq < NoSquare; sq++ {
		if p := b.At(sq); p != NoPiece {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// FindKing returns the square of c's king, or NoSquare if there is none.
func (b *Board) FindKing(c Color) Square {
	king := NewPiece(King, c)
	for sq := Square(0); sq < NoSquare; sq++ {
		if b.At(sq) == king {
			return sq
		}
	}
	return NoSquare
}

// Fingerprint encodes the board contents, the side to move and the castling
// flags into a string. Two fingerprints are equal iff all inputs match.
// flags are written in the order given.
func (b *Board) Fingerprint(turn Color, flags ...bool) string {
	var sb strings.Builder
	sb.Grow(Size*Size*11 + 8 + len(flags)*5)
	for sq := Square(0); sq < NoSquare; sq++ {
		p := b.At(sq)
		if p == NoPiece {
			sb.WriteByte('-')
			continue
		}
		sb.WriteString(p.Name())
	}
	sb.WriteString(strings.ToUpper(turn.String()))
	for _, f := range flags {
		sb.WriteString(strconv.FormatBool(f))
	}
	return sb.String()
}

// Validate checks that the board describes a playable position.
func (b *Board) Validate() error {
	var kings [2]int
	for sq := Square(0); sq < NoSquare; sq++ {
		p := b.At(sq)
		switch p.Type() {
		case King:
			kings[p.Color()]++
		case Pawn:
			if sq.Row() == 0 || sq.Row() == Size-1 {
				return ErrPawnOnRank
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return ErrKingCount
	}
	return nil
}

// String returns a visual representation of the board, row 0 on top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 0; row < Size; row++ {
		sb.WriteString(strconv.Itoa(Size - row))
		sb.WriteString("  ")
		for col := 0; col < Size; col++ {
			p := b.At(NewSquare(row, col))
			if p == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(p.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n")
	return sb.String()
}
