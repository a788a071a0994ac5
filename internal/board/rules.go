package board

// CanMove reports whether moving p from one square to another matches the
// piece's movement pattern on b. It does not look at what occupies the
// destination beyond what the pattern itself needs (pawn pushes and
// captures), and it never considers king safety.
func CanMove(b *Board, p Piece, from, to Square) bool {
	if p == NoPiece || !from.IsValid() || !to.IsValid() {
		return false
	}

	dr := to.Row() - from.Row()
	dc := to.Col() - from.Col()

	switch p.Type() {
	case Pawn:
		return pawnMove(b, p.Color(), from, to, dr, dc)
	case Knight:
		return knightMove(dr, dc)
	case Bishop:
		return diagonal(dr, dc) && pathClear(b, from, to)
	case Rook:
		return straight(dr, dc) && pathClear(b, from, to)
	case Queen:
		return (straight(dr, dc) || diagonal(dr, dc)) && pathClear(b, from, to)
	case King:
		return kingStep(dr, dc) || isCastlingShape(dr, dc)
	}
	return false
}

// Attacks reports whether p standing on from reaches to for the purpose of
// check detection.
//
// With lenient set it is exactly CanMove, so a king also "attacks" the
// squares two columns away. Otherwise kings attack adjacent squares only and
// pawns attack their two forward diagonals whether or not anything stands there.
func Attacks(b *Board, p Piece, from, to Square, lenient bool) bool {
	if lenient {
		return CanMove(b, p, from, to)
	}
	dr := to.Row() - from.Row()
	dc := to.Col() - from.Col()
	switch p.Type() {
	case King:
		return kingStep(dr, dc)
	case Pawn:
		return dr == p.Color().Forward() && abs(dc) == 1
	}
	return CanMove(b, p, from, to)
}

// IsCastlingShape reports whether a king displacement is the two-column castling move.
func IsCastlingShape(from, to Square) bool {
	return isCastlingShape(to.Row()-from.Row(), to.Col()-from.Col())
}

func pawnMove(b *Board, c Color, from, to Square, dr, dc int) bool {
	dir := c.Forward()
	startRow := c.HomeRow() + dir
	target := b.At(to)

	if dc == 0 && dr == dir && target == NoPiece {
		return true
	}
	if dc == 0 && dr == 2*dir && from.Row() == startRow && target == NoPiece {
		return b.At(NewSquare(from.Row()+dir, from.Col())) == NoPiece
	}
	if abs(dc) == 1 && dr == dir && target != NoPiece && target.Color() != c {
		return true
	}
	return false
}

func knightMove(dr, dc int) bool {
	ar, ac := abs(dr), abs(dc)
	return (ar == 2 && ac == 1) || (ar == 1 && ac == 2)
}

func straight(dr, dc int) bool {
	return (dr == 0) != (dc == 0)
}

func diagonal(dr, dc int) bool {
	return dr != 0 && abs(dr) == abs(dc)
}

func kingStep(dr, dc int) bool {
	return abs(dr) <= 1 && abs(dc) <= 1 && (dr != 0 || dc != 0)
}

func isCastlingShape(dr, dc int) bool {
	return dr == 0 && abs(dc) == 2
}

// pathClear walks from just past from up to (excluding) to along the unit
// direction vector. Any occupied cell in between blocks the path.
func pathClear(b *Board, from, to Square) bool {
	dr := sign(to.Row() - from.Row())
	dc := sign(to.Col() - from.Col())
	r, c := from.Row()+dr, from.Col()+dc
	for r != to.Row() || c != to.Col() {
		if b.At(NewSquare(r, c)) != NoPiece {
			return false
		}
		r += dr
		c += dc
	}
	return true
}

func sign(x int) int {
	if x > 0 {
		return 1
	}
	if x < 0 {
		return -1
	}
	return 0
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
