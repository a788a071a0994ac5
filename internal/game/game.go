// Package game holds the rules authority: turn order, castling rights,
// position history, legality, check detection and draw detection.
package game

import "github.com/hailam/chessrules/internal/board"

// Game is the state of a single game. Independent games share nothing.
// Game is not safe for concurrent use; see package match for a serialised wrapper.
type Game struct {
	board   board.Board
	turn    board.Color
	rights  CastlingRights
	history []string
	mode    CastlingMode
	status  Status
}

// Option configures a Game.
type Option func(*Game)

// WithCastlingMode selects lenient or strict castling.
func WithCastlingMode(m CastlingMode) Option {
	return func(g *Game) {
		g.mode = m
	}
}

// New creates a game in the starting position.
func New(opts ...Option) *Game {
	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}
	g.Reset()
	return g
}

// Reset sets up the starting position, clears castling rights and history,
// and records the initial fingerprint.
func (g *Game) Reset() {
	g.board.Setup()
	g.turn = board.White
	g.rights = CastlingRights{}
	g.history = g.history[:0]
	g.status = Status{Kind: Ongoing, Winner: board.NoColor}
	g.record(g.turn)
}

// Restore replaces the position with b and turn. Castling rights are inferred
// from where the kings and rooks stand, and the history restarts from b.
func (g *Game) Restore(b board.Board, turn board.Color) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if turn != board.White && turn != board.Black {
		return ErrInvalidTurn
	}
	g.board = b
	g.turn = turn
	g.rights = inferRights(&g.board)
	g.history = g.history[:0]
	g.record(g.turn)
	g.status = g.evaluate()
	return nil
}

// Clone returns an independent copy of the game.
func (g *Game) Clone() *Game {
	c := *g
	c.history = append([]string(nil), g.history...)
	return &c
}

// Board returns a copy of the current board.
func (g *Game) Board() board.Board {
	return g.board
}

// CurrentPlayer returns the side to move.
func (g *Game) CurrentPlayer() board.Color {
	return g.turn
}

// Rights returns the castling flags.
func (g *Game) Rights() CastlingRights {
	return g.rights
}

// Mode returns the castling mode.
func (g *Game) Mode() CastlingMode {
	return g.mode
}

// History returns a copy of the position fingerprints, oldest first.
func (g *Game) History() []string {
	return append([]string(nil), g.history...)
}

// PieceAt returns the piece on sq.
func (g *Game) PieceAt(sq board.Square) board.Piece {
	return g.board.At(sq)
}

// SwitchTurn hands the move to the other side.
func (g *Game) SwitchTurn() {
	g.turn = g.turn.Other()
}

// CheckRules reports whether moving from -> to is pseudo-legal: not a null
// move, not onto a piece of the mover's color, and matching the mover's
// movement pattern. King safety is not considered.
func (g *Game) CheckRules(from, to board.Square) bool {
	if from == to || !from.IsValid() || !to.IsValid() {
		return false
	}
	p := g.board.At(from)
	if p == board.NoPiece {
		return false
	}
	if target := g.board.At(to); target != board.NoPiece && target.Color() == p.Color() {
		return false
	}
	if !board.CanMove(&g.board, p, from, to) {
		return false
	}
	if g.mode == CastlingStrict && p.Type() == board.King && board.IsCastlingShape(from, to) {
		return g.canCastle(p.Color(), from, to)
	}
	return true
}

// SimulateMoveAndCheckSafety reports whether the mover's king is safe after
// from -> to. The move is played on a copy of the board, so the game itself
// is never touched. In lenient mode only the moving piece is relocated; in
// strict mode a castling king also takes its rook along.
func (g *Game) SimulateMoveAndCheckSafety(from, to board.Square) bool {
	p := g.board.At(from)
	if p == board.NoPiece {
		return false
	}
	sim := g.board
	if g.mode == CastlingStrict {
		applyMove(&sim, p, from, to)
	} else {
		sim.Move(from, to)
	}
	return !g.kingAttacked(&sim, p.Color())
}

// IsKingInCheck reports whether c's king is attacked. A side without a king
// is never in check.
func (g *Game) IsKingInCheck(c board.Color) bool {
	return g.kingAttacked(&g.board, c)
}

// HasLegalMoves reports whether c has at least one legal move.
func (g *Game) HasLegalMoves(c board.Color) bool {
	for from := board.Square(0); from < board.NoSquare; from++ {
		p := g.board.At(from)
		if p == board.NoPiece || p.Color() != c {
			continue
		}
		for to := board.Square(0); to < board.NoSquare; to++ {
			if g.CheckRules(from, to) && g.SimulateMoveAndCheckSafety(from, to) {
				return true
			}
		}
	}
	return false
}

// ExecuteMove moves the piece on from to to, updates the castling flags and
// records the new position. The move must already have been validated.
func (g *Game) ExecuteMove(from, to board.Square) {
	p := g.board.At(from)
	if p == board.NoPiece {
		return
	}
	g.commit(p, from, to)
	g.record(p.Color().Other())
}

// HandleCastling relocates the rook for a king moving two columns from -> to.
// Call it before ExecuteMove so that both pieces land as one move.
func (g *Game) HandleCastling(from, to board.Square) {
	if !board.IsCastlingShape(from, to) {
		return
	}
	king := g.board.At(from)
	if king.Type() != board.King {
		king = g.board.At(to)
	}
	if king.Type() != board.King {
		return
	}
	relocateRook(&g.board, king.Color(), from, to)
}

// PromotePawn replaces the piece on sq with p. Only knights, bishops, rooks
// and queens of the color already on sq are accepted. Promotion completes
// the move just executed, so the latest fingerprint is refreshed rather
// than a new one appended.
func (g *Game) PromotePawn(sq board.Square, p board.Piece) error {
	if !sq.IsValid() || !p.Type().IsPromotable() {
		return ErrInvalidPromotion
	}
	if cur := g.board.At(sq); cur != board.NoPiece && cur.Color() != p.Color() {
		return ErrInvalidPromotion
	}
	g.board.Set(sq, p)
	if n := len(g.history); n > 0 {
		g.history[n-1] = g.fingerprint(p.Color().Other())
	} else {
		g.record(p.Color().Other())
	}
	return nil
}

// CheckThreefoldRepetition reports whether the latest position has occurred
// at least three times.
func (g *Game) CheckThreefoldRepetition() bool {
	if len(g.history) == 0 {
		return false
	}
	last := g.history[len(g.history)-1]
	count := 0
	for _, fp := range g.history {
		if fp == last {
			count++
		}
	}
	return count >= 3
}

// CheckInsufficientMaterial is a coarse material test: two kings alone, or two
// kings and a single bishop or knight.
func (g *Game) CheckInsufficientMaterial() bool {
	pieces := g.board.Pieces()
	switch {
	case len(pieces) <= 2:
		return true
	case len(pieces) == 3:
		for _, p := range pieces {
			switch p.Type() {
			case board.Pawn, board.Rook, board.Queen:
				return false
			}
		}
		return true
	default:
		return false
	}
}

// commit moves p and updates the castling flags without recording. A rook
// taken on its corner loses its castling right as if it had moved.
func (g *Game) commit(p board.Piece, from, to board.Square) board.Piece {
	captured := g.board.Move(from, to)
	g.rights.markMoved(p, from)
	if captured.Type() == board.Rook {
		g.rights.markMoved(captured, to)
	}
	return captured
}

func (g *Game) fingerprint(turn board.Color) string {
	return g.board.Fingerprint(turn, g.rights.flags()...)
}

func (g *Game) record(turn board.Color) {
	g.history = append(g.history, g.fingerprint(turn))
}

// applyMove plays from -> to on b, including the rook of a castling move.
func applyMove(b *board.Board, p board.Piece, from, to board.Square) {
	if p.Type() == board.King && board.IsCastlingShape(from, to) {
		relocateRook(b, p.Color(), from, to)
	}
	b.Move(from, to)
}

func (g *Game) kingAttacked(b *board.Board, c board.Color) bool {
	k := b.FindKing(c)
	if k == board.NoSquare {
		return false
	}
	return g.squareAttacked(b, k, c.Other())
}

// squareAttacked reports whether any piece of color by reaches sq on b.
func (g *Game) squareAttacked(b *board.Board, sq board.Square, by board.Color) bool {
	lenient := g.mode == CastlingLenient
	for from := board.Square(0); from < board.NoSquare; from++ {
		p := b.At(from)
		if p == board.NoPiece || p.Color() != by || from == sq {
			continue
		}
		if board.Attacks(b, p, from, sq, lenient) {
			return true
		}
	}
	return false
}
