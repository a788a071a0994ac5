// Package cli implements the line-oriented command interface for playing a
// match from a terminal or a script.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/fatih/color"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/clock"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/match"
	"github.com/hailam/chessrules/internal/storage"
)

// ErrNoStorage is reported by commands that need a database when none is open.
var ErrNoStorage = errors.New("no storage available")

var (
	lightSquare = color.New(color.BgHiWhite, color.FgBlack)
	darkSquare  = color.New(color.BgGreen, color.FgBlack)
	checkSquare = color.New(color.BgRed, color.FgHiWhite)
	errorText   = color.New(color.FgRed)
	noteText    = color.New(color.FgYellow, color.Bold)
	okText      = color.New(color.FgGreen)
)

const helpText = `Commands:
  e2e4 | move e2e4 [q|r|b|n]   play a move (promotion defaults to queen)
  legal <square>               list legal destinations
  show | d                     print the board
  status                       print the game status
  captured                     list captured pieces
  new                          start a new game
  resign [white|black]         resign (default: side to move)
  save [slot]                  save the game (slot name generated if omitted)
  load [slot]                  load a game (default: last saved slot)
  list                         list saved games
  delete <slot>                delete a saved game
  stats                        show result statistics
  help                         show this text
  quit                         exit
`

// CLI drives a match from text commands.
type CLI struct {
	match  *match.Match
	store  *storage.Storage
	prefs  *storage.UserPreferences
	out    io.Writer
	prompt bool
}

// New creates a CLI. store may be nil, in which case persistence commands
// report ErrNoStorage.
func New(m *match.Match, store *storage.Storage, out io.Writer) *CLI {
	c := &CLI{
		match: m,
		store: store,
		prefs: storage.DefaultPreferences(),
		out:   out,
	}
	if store != nil {
		prefs, err := store.LoadPreferences()
		if err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			c.prefs = prefs
		}
	}
	return c
}

// SetPrompt enables the interactive prompt.
func (c *CLI) SetPrompt(on bool) {
	c.prompt = on
}

// Run reads commands from r until EOF or quit.
func (c *CLI) Run(r io.Reader) error {
	c.welcome()
	scanner := bufio.NewScanner(r)

	for {
		if c.prompt {
			fmt.Fprintf(c.out, "%s> ", strings.ToLower(c.match.Turn().String()))
		}
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.Fields(line)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "quit", "exit":
			return nil
		case "help", "?":
			fmt.Fprint(c.out, helpText)
		case "new":
			c.match.Reset()
			okText.Fprintln(c.out, "New game")
			c.printBoard()
		case "move", "m":
			c.handleMove(args)
		case "legal":
			c.handleLegal(args)
		case "show", "d":
			c.printBoard()
		case "status":
			c.printStatus()
		case "captured":
			c.handleCaptured()
		case "resign":
			c.handleResign(args)
		case "save":
			c.report(c.handleSave(args))
		case "load":
			c.report(c.handleLoad(args))
		case "list":
			c.report(c.handleList())
		case "delete":
			c.report(c.handleDelete(args))
		case "stats":
			c.report(c.handleStats())
		default:
			// A bare move such as "e2e4" is accepted without the move keyword.
			if _, err := game.ParseMove(cmd); err == nil {
				c.handleMove(parts)
				continue
			}
			c.errorf("unknown command %q (try help)", parts[0])
		}
	}
	return scanner.Err()
}

func (c *CLI) welcome() {
	if c.store == nil {
		return
	}
	first, err := c.store.IsFirstLaunch()
	if err != nil {
		log.Printf("Warning: Failed to check first launch: %v", err)
		return
	}
	if !first {
		return
	}
	fmt.Fprint(c.out, helpText)
	if err := c.store.MarkFirstLaunchComplete(); err != nil {
		log.Printf("Warning: Failed to mark first launch complete: %v", err)
	}
}

func (c *CLI) report(err error) {
	if err != nil {
		c.errorf("%v", err)
	}
}

func (c *CLI) errorf(format string, args ...any) {
	errorText.Fprintf(c.out, "error: "+format+"\n", args...)
}

// handleMove parses "e2e4", "e7e8q" or "e7e8 q". A pawn reaching the last
// row without a named piece becomes a queen.
func (c *CLI) handleMove(args []string) {
	if len(args) == 0 {
		c.errorf("usage: move <from><to>[piece]")
		return
	}
	m, err := game.ParseMove(strings.ToLower(strings.Join(args, "")))
	if err != nil {
		c.errorf("%v", err)
		return
	}
	b := c.match.Board()
	if p := b.At(m.From); p.Type() == board.Pawn && m.Promotion == board.NoPieceType &&
		(m.To.Row() == 0 || m.To.Row() == board.Size-1) {
		m.Promotion = board.Queen
	}

	res, err := c.match.Move(m)
	if err != nil {
		c.errorf("%v", err)
		return
	}

	line := res.Piece.Symbol() + " " + res.Move.From.String() + " -> " + res.Move.To.String()
	if res.Captured != board.NoPiece {
		line += " x" + res.Captured.Symbol()
	}
	if res.Castling {
		line += " (Castling)"
	}
	if res.Promotion {
		line += " (Promoted)"
	}
	fmt.Fprintln(c.out, line)

	switch {
	case res.Status.Over():
		noteText.Fprintln(c.out, res.Status.String())
	case res.Check:
		noteText.Fprintln(c.out, "CHECK!")
	}
}

func (c *CLI) handleLegal(args []string) {
	if len(args) != 1 {
		c.errorf("usage: legal <square>")
		return
	}
	sq, err := board.ParseSquare(strings.ToLower(args[0]))
	if err != nil {
		c.errorf("%v", err)
		return
	}
	dests := c.match.LegalDestinations(sq)
	names := make([]string, len(dests))
	for i, d := range dests {
		names[i] = d.String()
	}
	if len(names) == 0 {
		fmt.Fprintf(c.out, "%s: no legal moves\n", sq)
		return
	}
	fmt.Fprintf(c.out, "%s: %s\n", sq, strings.Join(names, " "))
}

func (c *CLI) handleCaptured() {
	byWhite, byBlack := c.match.Captured()
	fmt.Fprintf(c.out, "White captured: %s\n", symbols(byWhite))
	fmt.Fprintf(c.out, "Black captured: %s\n", symbols(byBlack))
}

func symbols(pieces []board.Piece) string {
	if len(pieces) == 0 {
		return "-"
	}
	s := make([]string, len(pieces))
	for i, p := range pieces {
		s[i] = p.Symbol()
	}
	return strings.Join(s, " ")
}

func (c *CLI) handleResign(args []string) {
	side := c.match.Turn()
	if len(args) == 1 {
		switch strings.ToLower(args[0]) {
		case "white", "w":
			side = board.White
		case "black", "b":
			side = board.Black
		default:
			c.errorf("unknown side %q", args[0])
			return
		}
	}
	noteText.Fprintln(c.out, c.match.Resign(side).String())
}

func (c *CLI) handleSave(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	data, err := c.match.Save()
	if err != nil {
		return err
	}
	slot := ""
	if len(args) > 0 {
		slot = args[0]
	}
	slot, err = c.store.SaveGame(slot, data)
	if err != nil {
		return err
	}
	c.prefs.LastSlot = slot
	if err := c.store.SavePreferences(c.prefs); err != nil {
		log.Printf("Warning: Failed to save preferences: %v", err)
	}
	okText.Fprintf(c.out, "Saved as %s\n", slot)
	return nil
}

func (c *CLI) handleLoad(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	slot := c.prefs.LastSlot
	if len(args) > 0 {
		slot = args[0]
	}
	if slot == "" {
		return errors.New("usage: load <slot>")
	}
	data, err := c.store.LoadGame(slot)
	if err != nil {
		return err
	}
	if err := c.match.Load(data); err != nil {
		log.Printf("[STORAGE] load %q failed: %v", slot, err)
		return fmt.Errorf("could not load %s, started a new game: %w", slot, err)
	}
	okText.Fprintf(c.out, "Loaded %s\n", slot)
	c.printBoard()
	return nil
}

func (c *CLI) handleList() error {
	if c.store == nil {
		return ErrNoStorage
	}
	games, err := c.store.ListGames()
	if err != nil {
		return err
	}
	if len(games) == 0 {
		fmt.Fprintln(c.out, "No saved games")
		return nil
	}
	for _, g := range games {
		marker := " "
		if g.Slot == c.prefs.LastSlot {
			marker = "*"
		}
		fmt.Fprintf(c.out, "%s %s\n", marker, g.Slot)
	}
	return nil
}

func (c *CLI) handleDelete(args []string) error {
	if c.store == nil {
		return ErrNoStorage
	}
	if len(args) != 1 {
		return errors.New("usage: delete <slot>")
	}
	if err := c.store.DeleteGame(args[0]); err != nil {
		return err
	}
	okText.Fprintf(c.out, "Deleted %s\n", args[0])
	return nil
}

func (c *CLI) handleStats() error {
	if c.store == nil {
		return ErrNoStorage
	}
	stats, err := c.store.LoadStats()
	if err != nil {
		return err
	}
	fmt.Fprintf(c.out, "Games: %d  White: %d  Black: %d  Draws: %d (%.0f%%)\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.GetDrawRate())

	reasons := maps.Keys(stats.ByReason)
	slices.Sort(reasons)
	for _, r := range reasons {
		fmt.Fprintf(c.out, "  %-22s %d\n", r, stats.ByReason[r])
	}
	return nil
}

func (c *CLI) printStatus() {
	st := c.match.Status()
	fmt.Fprintln(c.out, st.String())
	fmt.Fprintf(c.out, "Castling: %s\n", c.match.Mode())
	if !st.Over() {
		fmt.Fprintf(c.out, "%s to move\n", c.match.Turn())
		if c.match.InCheck() {
			noteText.Fprintln(c.out, "CHECK!")
		}
	}
}

// printBoard draws the board with row 0 (rank 8) on top.
func (c *CLI) printBoard() {
	b := c.match.Board()
	turn := c.match.Turn()
	checked := board.NoSquare
	if c.match.InCheck() {
		checked = b.FindKing(turn)
	}

	var sb strings.Builder
	for row := 0; row < board.Size; row++ {
		fmt.Fprintf(&sb, "%d ", board.Size-row)
		for col := 0; col < board.Size; col++ {
			sq := board.NewSquare(row, col)
			cell := " " + b.At(sq).Symbol() + " "
			switch {
			case sq == checked:
				sb.WriteString(checkSquare.Sprint(cell))
			case (row+col)%2 == 0:
				sb.WriteString(lightSquare.Sprint(cell))
			default:
				sb.WriteString(darkSquare.Sprint(cell))
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("   a  b  c  d  e  f  g  h\n")
	fmt.Fprint(c.out, sb.String())

	if c.match.Timed() {
		w, bl := c.match.Remaining()
		fmt.Fprintf(c.out, "White %s | Black %s\n", clock.Format(w), clock.Format(bl))
	}
	fmt.Fprintf(c.out, "%s to move\n", turn)
}
