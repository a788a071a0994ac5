// ChessRules - a two-player chess game for the terminal
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"runtime/pprof"

	"golang.org/x/term"

	"github.com/hailam/chessrules/internal/cli"
	"github.com/hailam/chessrules/internal/game"
	"github.com/hailam/chessrules/internal/match"
	"github.com/hailam/chessrules/internal/storage"
)

var (
	dbDir      = flag.String("db", "", "database directory (default: platform data directory)")
	strict     = flag.Bool("strict", false, "apply the standard castling conditions")
	seconds    = flag.Int("time", 900, "seconds per side, 0 disables the clock")
	logFile    = flag.String("log", "", "write log output to file")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal("could not open log file: ", err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	store, err := openStorage(*dbDir)
	if err != nil {
		log.Printf("Warning: Failed to initialize storage: %v", err)
	}
	if store != nil {
		defer store.Close()
	}

	cfg := matchConfig(store)
	m := match.New(cfg)
	if store != nil {
		m.OnEnd(func(st game.Status) {
			if err := store.RecordResult(st); err != nil {
				log.Printf("Warning: Failed to record result: %v", err)
			}
		})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	m.Start(ctx)

	c := cli.New(m, store, os.Stdout)
	c.SetPrompt(term.IsTerminal(int(os.Stdin.Fd())))

	done := make(chan error, 1)
	go func() { done <- c.Run(os.Stdin) }()

	select {
	case err := <-done:
		if err != nil {
			log.Printf("input error: %v", err)
		}
	case <-ctx.Done():
	}
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

// matchConfig combines the stored preferences with the flags given on the
// command line; explicit flags win and are remembered for next time.
func matchConfig(store *storage.Storage) match.Config {
	prefs := storage.DefaultPreferences()
	if store != nil {
		if p, err := store.LoadPreferences(); err != nil {
			log.Printf("Warning: Failed to load preferences: %v", err)
		} else {
			prefs = p
		}
	}

	changed := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "strict":
			prefs.StrictCastling = *strict
			changed = true
		case "time":
			prefs.Seconds = *seconds
			changed = true
		}
	})
	if changed && store != nil {
		if err := store.SavePreferences(prefs); err != nil {
			log.Printf("Warning: Failed to save preferences: %v", err)
		}
	}

	cfg := match.Config{Seconds: prefs.Seconds}
	if prefs.StrictCastling {
		cfg.Castling = game.CastlingStrict
	}
	return cfg
}
