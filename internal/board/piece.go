package board

// Color represents the color of a piece or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// Forward returns the row delta of a pawn step for the color.
// White starts on rows 6-7 and moves towards row 0.
func (c Color) Forward() int {
	if c == White {
		return -1
	}
	return 1
}

// HomeRow returns the back rank row of the color.
func (c Color) HomeRow() int {
	if c == White {
		return 7
	}
	return 0
}

// PieceType represents the type of a chess piece.
type PieceType uint8

const (
	Pawn PieceType = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoPieceType PieceType = 6
)

// String returns the piece type name.
func (pt PieceType) String() string {
	switch pt {
	case Pawn:
		return "Pawn"
	case Knight:
		return "Knight"
	case Bishop:
		return "Bishop"
	case Rook:
		return "Rook"
	case Queen:
		return "Queen"
	case King:
		return "King"
	default:
		return "None"
	}
}

// Char returns the lowercase letter for the piece type.
func (pt PieceType) Char() byte {
	chars := []byte{'p', 'n', 'b', 'r', 'q', 'k', ' '}
	if pt > NoPieceType {
		return ' '
	}
	return chars[pt]
}

// IsPromotable reports whether a pawn may be promoted to the type.
func (pt PieceType) IsPromotable() bool {
	return pt == Knight || pt == Bishop || pt == Rook || pt == Queen
}

// ParsePieceType converts a type name ("Knight") or letter ('n', 'N') into a PieceType.
func ParsePieceType(s string) PieceType {
	if len(s) == 1 {
		switch s[0] | 0x20 {
		case 'p':
			return Pawn
		case 'n':
			return Knight
		case 'b':
			return Bishop
		case 'r':
			return Rook
		case 'q':
			return Queen
		case 'k':
			return King
		}
		return NoPieceType
	}
	for pt := Pawn; pt <= King; pt++ {
		if pt.String() == s {
			return pt
		}
	}
	return NoPieceType
}

// Piece combines PieceType and Color into a single value.
// Encoded as: pieceType + color*6
type Piece uint8

const (
	WhitePawn   Piece = Piece(Pawn) + Piece(White)*6
	WhiteKnight Piece = Piece(Knight) + Piece(White)*6
	WhiteBishop Piece = Piece(Bishop) + Piece(White)*6
	WhiteRook   Piece = Piece(Rook) + Piece(White)*6
	WhiteQueen  Piece = Piece(Queen) + Piece(White)*6
	WhiteKing   Piece = Piece(King) + Piece(White)*6
	BlackPawn   Piece = Piece(Pawn) + Piece(Black)*6
	BlackKnight Piece = Piece(Knight) + Piece(Black)*6
	BlackBishop Piece = Piece(Bishop) + Piece(Black)*6
	BlackRook   Piece = Piece(Rook) + Piece(Black)*6
	BlackQueen  Piece = Piece(Queen) + Piece(Black)*6
	BlackKing   Piece = Piece(King) + Piece(Black)*6
	NoPiece     Piece = 12
)

// NewPiece creates a Piece from PieceType and Color.
func NewPiece(pt PieceType, c Color) Piece {
	if pt >= NoPieceType || c >= NoColor {
		return NoPiece
	}
	return Piece(pt) + Piece(c)*6
}

// Type returns the PieceType of the piece.
func (p Piece) Type() PieceType {
	if p >= NoPiece {
		return NoPieceType
	}
	return PieceType(p % 6)
}

// Color returns the Color of the piece.
func (p Piece) Color() Color {
	if p >= NoPiece {
		return NoColor
	}
	return Color(p / 6)
}

// String returns the letter for the piece.
// Uppercase for white, lowercase for black.
func (p Piece) String() string {
	if p >= NoPiece {
		return " "
	}
	chars := "PNBRQKpnbrqk"
	return string(chars[p])
}

// Name returns the color-qualified piece name used in save files, e.g. "WhiteKnight".
func (p Piece) Name() string {
	if p >= NoPiece {
		return "null"
	}
	return p.Color().String() + p.Type().String()
}

// Symbol returns the unicode chess glyph for the piece.
func (p Piece) Symbol() string {
	if p >= NoPiece {
		return " "
	}
	glyphs := []string{"♙", "♘", "♗", "♖", "♕", "♔", "♟", "♞", "♝", "♜", "♛", "♚"}
	return glyphs[p]
}

// PieceFromName parses a name produced by Name. It returns NoPiece and false
// for anything it does not recognise.
func PieceFromName(s string) (Piece, bool) {
	var c Color
	switch {
	case len(s) > 5 && s[:5] == "White":
		c = White
	case len(s) > 5 && s[:5] == "Black":
		c = Black
	default:
		return NoPiece, false
	}
	pt := ParsePieceType(s[5:])
	if pt == NoPieceType || len(s[5:]) == 1 {
		return NoPiece, false
	}
	return NewPiece(pt, c), true
}

// PieceFromChar converts a piece letter to a Piece.
// Uppercase is white, lowercase is black.
func PieceFromChar(c byte) Piece {
	switch c {
	case 'P':
		return WhitePawn
	case 'N':
		return WhiteKnight
	case 'B':
		return WhiteBishop
	case 'R':
		return WhiteRook
	case 'Q':
		return WhiteQueen
	case 'K':
		return WhiteKing
	case 'p':
		return BlackPawn
	case 'n':
		return BlackKnight
	case 'b':
		return BlackBishop
	case 'r':
		return BlackRook
	case 'q':
		return BlackQueen
	case 'k':
		return BlackKing
	default:
		return NoPiece
	}
}
