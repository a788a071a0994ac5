// Package board implements the 8x8 chess board and per-piece movement rules.
package board

import "fmt"

// Square represents a cell of the board (0-63).
// Row-major: index = row*8 + col. Row 0 is Black's back rank, row 7 is White's,
// so (0,0) is a8 and (7,7) is h1.
type Square uint8

// NoSquare marks an invalid or absent square.
const NoSquare Square = 64

// NewSquare creates a square from row and column (0-indexed).
func NewSquare(row, col int) Square {
	if !InBounds(row, col) {
		return NoSquare
	}
	return Square(row*8 + col)
}

// InBounds reports whether (row, col) lies on the board.
func InBounds(row, col int) bool {
	return row >= 0 && row < 8 && col >= 0 && col < 8
}

// Row returns the row of the square (0-7).
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Col returns the column of the square (0-7, where 0=a, 7=h).
func (sq Square) Col() int {
	return int(sq) & 7
}

// IsValid returns true if the square is a valid board square (0-63).
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// String returns the algebraic notation for the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return fmt.Sprintf("%c%c", 'a'+sq.Col(), '8'-sq.Row())
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	col := int(s[0]) - 'a'
	row := '8' - int(s[1])

	if !InBounds(row, col) {
		return NoSquare, fmt.Errorf("invalid square: %s", s)
	}

	return NewSquare(row, col), nil
}
