// Package match runs a single game session: the rules engine, an optional
// clock and the per-side move logs, serialised behind one mutex so the clock
// goroutine and the command loop never interleave.
package match

import (
	"bytes"
	"context"
	"log"
	"strings"
	"sync"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/clock"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/snapshot"
)

// Log notes appended to the log of the side to move.
const (
	noteCheck        = "CHECK!"
	noteStalemate    = "Draw (Stalemate)"
	noteRepetition   = "Draw (3-fold Repetition)"
	noteInsufficient = "Draw (Insufficient Material)"
)

// Config configures a Match.
type Config struct {
	Castling game.CastlingMode
	// Seconds per side. Zero disables the clock.
	Seconds int
}

// Match is a game session. It is safe for concurrent use.
type Match struct {
	mu    sync.Mutex
	cfg   Config
	game  *game.Game
	clock *clock.Clock
	logs  [2][]string
	onEnd func(game.Status)
}

// New creates a match in the starting position.
func New(cfg Config) *Match {
	m := &Match{
		cfg:  cfg,
		game: game.New(game.WithCastlingMode(cfg.Castling)),
	}
	if cfg.Seconds > 0 {
		m.clock = clock.New(cfg.Seconds)
		m.clock.OnExpire(m.expire)
		m.clock.Switch(board.White)
	}
	return m
}

// OnEnd registers fn to be called once each time a game finishes.
func (m *Match) OnEnd(fn func(game.Status)) {
	m.mu.Lock()
	m.onEnd = fn
	m.mu.Unlock()
}

// Start runs the clock until ctx is cancelled. It is a no-op for untimed matches.
func (m *Match) Start(ctx context.Context) {
	if m.clock != nil {
		m.clock.Start(ctx)
	}
}

// Timed reports whether the match has a clock.
func (m *Match) Timed() bool {
	return m.clock != nil
}

// Reset starts a new game with fresh clocks and empty logs.
func (m *Match) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Match) reset() {
	m.game.Reset()
	m.logs = [2][]string{}
	if m.clock != nil {
		m.clock.Set(m.cfg.Seconds, m.cfg.Seconds)
		m.clock.Switch(board.White)
	}
}

// Move plays mv for the side to move and writes the log entries.
func (m *Match) Move(mv game.Move) (game.MoveResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	res, err := m.game.AttemptMove(mv)
	if err != nil {
		return res, err
	}

	mover := res.Piece.Color()
	line := describe(res)
	m.logs[mover] = append(m.logs[mover], line)
	log.Printf("[MOVE] %s: %s", mover, line)

	next := m.game.CurrentPlayer()
	if note := statusNote(res); note != "" {
		m.logs[next] = append(m.logs[next], note)
	}

	if res.Status.Over() {
		m.finish(res.Status)
	} else if m.clock != nil {
		m.clock.Switch(next)
	}
	return res, nil
}

// describe renders a move the way it appears in the logs, e.g. "♘ g1 -> f3".
func describe(res game.MoveResult) string {
	var sb strings.Builder
	sb.WriteString(res.Piece.Symbol())
	sb.WriteString(" ")
	sb.WriteString(res.Move.From.String())
	sb.WriteString(" -> ")
	sb.WriteString(res.Move.To.String())
	if res.Castling {
		sb.WriteString(" (Castling)")
	}
	if res.Promotion {
		sb.WriteString(" (Promoted)")
	}
	return sb.String()
}

func statusNote(res game.MoveResult) string {
	switch res.Status.Kind {
	case game.DrawInsufficientMaterial:
		return noteInsufficient
	case game.DrawRepetition:
		return noteRepetition
	case game.Stalemate:
		return noteStalemate
	case game.Ongoing:
		if res.Check {
			return noteCheck
		}
	}
	return ""
}

// finish stops the clock and reports the result. Callers hold m.mu.
func (m *Match) finish(st game.Status) {
	if m.clock != nil {
		m.clock.Pause()
	}
	log.Printf("[GAMEOVER] %s", st)
	if m.onEnd != nil {
		m.onEnd(st)
	}
}

// Resign ends the game in favour of c's opponent.
func (m *Match) Resign(c board.Color) game.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game.Status().Over() {
		return m.game.Status()
	}
	m.game.Resign(c)
	m.finish(m.game.Status())
	return m.game.Status()
}

// expire is the clock callback.
func (m *Match) expire(c board.Color) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game.Status().Over() {
		return
	}
	m.game.Timeout(c)
	m.finish(m.game.Status())
}

// Status returns the game status.
func (m *Match) Status() game.Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Status()
}

// Turn returns the side to move.
func (m *Match) Turn() board.Color {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.CurrentPlayer()
}

// Board returns a copy of the board.
func (m *Match) Board() board.Board {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Board()
}

// Mode returns the castling rules in force.
func (m *Match) Mode() game.CastlingMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.Mode()
}

// InCheck reports whether the side to move is in check.
func (m *Match) InCheck() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.game.IsInCheck(m.game.CurrentPlayer())
}

// LegalDestinations lists where the piece on sq may go. Pieces of the side
// not to move have no destinations.
func (m *Match) LegalDestinations(sq board.Square) []board.Square {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.game.PieceAt(sq).Color() != m.game.CurrentPlayer() {
		return nil
	}
	return m.game.LegalDestinations(sq)
}

// Logs returns copies of the white and black move logs.
func (m *Match) Logs() (white, black []string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.logs[board.White]...), append([]string(nil), m.logs[board.Black]...)
}

// Remaining returns the seconds left on each side. Untimed matches report zero.
func (m *Match) Remaining() (white, black int) {
	if m.clock == nil {
		return 0, 0
	}
	return m.clock.Remaining(board.White), m.clock.Remaining(board.Black)
}

// Captured lists the pieces each side has taken.
func (m *Match) Captured() (byWhite, byBlack []board.Piece) {
	b := m.Board()
	return snapshot.Captured(&b)
}

// Snapshot captures the current state for saving.
func (m *Match) Snapshot() *snapshot.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := &snapshot.Snapshot{
		Turn:     m.game.CurrentPlayer(),
		Board:    m.game.Board(),
		WhiteLog: strings.Join(m.logs[board.White], "\n"),
		BlackLog: strings.Join(m.logs[board.Black], "\n"),
	}
	if m.clock != nil {
		s.WhiteSeconds = m.clock.Remaining(board.White)
		s.BlackSeconds = m.clock.Remaining(board.Black)
	}
	return s
}

// Save encodes the current state in the snapshot text format.
func (m *Match) Save() ([]byte, error) {
	var buf bytes.Buffer
	if err := snapshot.Encode(&buf, m.Snapshot()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Load replaces the session with saved data. On any error the match falls
// back to a fresh game and the error is returned for reporting only.
func (m *Match) Load(data []byte) error {
	s, err := snapshot.Decode(bytes.NewReader(data))
	if err != nil {
		m.Reset()
		return err
	}
	return m.Restore(s)
}

// Restore replaces the session with s, falling back to a fresh game on error.
func (m *Match) Restore(s *snapshot.Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.game.Restore(s.Board, s.Turn); err != nil {
		m.reset()
		return err
	}
	m.logs[board.White] = splitLog(s.WhiteLog)
	m.logs[board.Black] = splitLog(s.BlackLog)

	if m.clock != nil {
		white, black := s.WhiteSeconds, s.BlackSeconds
		if white == 0 && black == 0 {
			white, black = m.cfg.Seconds, m.cfg.Seconds
		}
		m.clock.Set(white, black)
		switch {
		case white <= 0:
			m.game.Timeout(board.White)
		case black <= 0:
			m.game.Timeout(board.Black)
		}
		m.clock.Switch(s.Turn)
	}

	// A saved game that had already ended stays ended, without reporting
	// its result a second time.
	if m.game.Status().Over() && m.clock != nil {
		m.clock.Pause()
	}
	return nil
}

func splitLog(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimRight(s, "\n"), "\n")
}
