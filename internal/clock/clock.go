// Package clock implements a two-sided countdown chess clock with
// whole-second resolution.
package clock

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/hailam/chessrules/internal/board"
)

// DefaultSeconds is the time each side starts with when none is configured.
const DefaultSeconds = 900

// Clock counts down the time of the side to move. It is safe for concurrent use.
type Clock struct {
	mu        sync.Mutex
	remaining [2]int
	active    board.Color
	running   bool
	expired   bool
	onExpire  func(board.Color)
	interval  time.Duration
}

// New creates a paused clock giving both sides the same number of seconds.
func New(seconds int) *Clock {
	return &Clock{
		remaining: [2]int{seconds, seconds},
		active:    board.White,
		interval:  time.Second,
	}
}

// OnExpire registers fn to be called once, outside the clock's lock, when a
// side runs out of time.
func (cl *Clock) OnExpire(fn func(board.Color)) {
	cl.mu.Lock()
	cl.onExpire = fn
	cl.mu.Unlock()
}

// Start ticks the clock once per second until ctx is cancelled.
func (cl *Clock) Start(ctx context.Context) {
	ticker := time.NewTicker(cl.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cl.Tick()
			}
		}
	}()
}

// Tick takes one second from the active side if the clock is running.
func (cl *Clock) Tick() {
	cl.mu.Lock()
	if !cl.running || cl.expired {
		cl.mu.Unlock()
		return
	}
	c := cl.active
	cl.remaining[c]--
	if cl.remaining[c] > 0 {
		cl.mu.Unlock()
		return
	}
	cl.remaining[c] = 0
	cl.expired = true
	cl.running = false
	fn := cl.onExpire
	cl.mu.Unlock()

	log.Printf("[CLOCK] %s ran out of time", c)
	if fn != nil {
		fn(c)
	}
}

// Switch makes c the active side and starts the clock unless it has expired.
func (cl *Clock) Switch(c board.Color) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if c != board.White && c != board.Black {
		return
	}
	cl.active = c
	cl.running = !cl.expired
}

// Pause stops the countdown.
func (cl *Clock) Pause() {
	cl.mu.Lock()
	cl.running = false
	cl.mu.Unlock()
}

// Running reports whether the clock is counting down.
func (cl *Clock) Running() bool {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	return cl.running
}

// Remaining returns the seconds left for c.
func (cl *Clock) Remaining(c board.Color) int {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if c != board.White && c != board.Black {
		return 0
	}
	return cl.remaining[c]
}

// Set replaces both remaining times and pauses the clock. A side set to zero
// counts as already expired.
func (cl *Clock) Set(white, black int) {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	cl.remaining = [2]int{white, black}
	cl.expired = white <= 0 || black <= 0
	cl.running = false
}

// Format renders seconds as mm:ss.
func Format(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
