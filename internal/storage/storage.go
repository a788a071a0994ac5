package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
	petname "github.com/dustinkirkland/golang-petname"

	"github.com/hailam/chessrules/internal/board"
	"github.com/hailam/chessrules/internal/game"
)

// Storage keys
const (
	keyPreferences = "preferences"
	keyStats       = "stats"
	keyFirstLaunch = "first_launch"
	prefixGame     = "game/"
)

// ErrNotFound is returned when a saved game does not exist.
var ErrNotFound = errors.New("saved game not found")

// ErrBadSlot is returned for slot names that cannot be used as keys.
var ErrBadSlot = errors.New("invalid slot name")

// UserPreferences stores user settings
type UserPreferences struct {
	StrictCastling bool      `json:"strict_castling"`
	Seconds        int       `json:"seconds"`
	LastSlot       string    `json:"last_slot"`
	LastPlayed     time.Time `json:"last_played"`
}

// DefaultPreferences returns default user preferences
func DefaultPreferences() *UserPreferences {
	return &UserPreferences{
		Seconds:    900,
		LastPlayed: time.Now(),
	}
}

// GameStats stores result statistics
type GameStats struct {
	GamesPlayed int            `json:"games_played"`
	WhiteWins   int            `json:"white_wins"`
	BlackWins   int            `json:"black_wins"`
	Draws       int            `json:"draws"`
	ByReason    map[string]int `json:"by_reason"`
}

// NewGameStats returns empty game statistics
func NewGameStats() *GameStats {
	return &GameStats{
		ByReason: make(map[string]int),
	}
}

// SavedGame describes a stored snapshot.
type SavedGame struct {
	Slot string
	Size int
}

// Storage wraps BadgerDB for persistent storage
type Storage struct {
	db *badger.DB
}

// NewStorage opens the database in the platform data directory.
func NewStorage() (*Storage, error) {
	dbDir, err := GetDatabaseDir()
	if err != nil {
		return nil, err
	}
	return Open(dbDir)
}

// Open opens (or creates) the database in dir.
func Open(dir string) (*Storage, error) {
	opts := badger.DefaultOptions(dir)
	opts.Logger = nil // Disable logging

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", dir, err)
	}

	return &Storage{db: db}, nil
}

// Close closes the database
func (s *Storage) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// IsFirstLaunch returns true if this is the first launch
func (s *Storage) IsFirstLaunch() (bool, error) {
	var firstLaunch bool = true

	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(keyFirstLaunch))
		if err == badger.ErrKeyNotFound {
			firstLaunch = true
			return nil
		}
		if err != nil {
			return err
		}
		firstLaunch = false
		return nil
	})

	return firstLaunch, err
}

// MarkFirstLaunchComplete marks that first launch setup is complete
func (s *Storage) MarkFirstLaunchComplete() error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyFirstLaunch), []byte("done"))
	})
}

// SavePreferences saves user preferences
func (s *Storage) SavePreferences(prefs *UserPreferences) error {
	prefs.LastPlayed = time.Now()
	return s.putJSON(keyPreferences, prefs)
}

// LoadPreferences loads user preferences, returns defaults if not found
func (s *Storage) LoadPreferences() (*UserPreferences, error) {
	prefs := DefaultPreferences()
	err := s.getJSON(keyPreferences, prefs)
	return prefs, err
}

// SaveStats saves game statistics
func (s *Storage) SaveStats(stats *GameStats) error {
	return s.putJSON(keyStats, stats)
}

// LoadStats loads game statistics, returns empty stats if not found
func (s *Storage) LoadStats() (*GameStats, error) {
	stats := NewGameStats()
	err := s.getJSON(keyStats, stats)
	if stats.ByReason == nil {
		stats.ByReason = make(map[string]int)
	}
	return stats, err
}

// RecordResult adds a finished game to the statistics.
func (s *Storage) RecordResult(st game.Status) error {
	if !st.Over() {
		return nil
	}
	stats, err := s.LoadStats()
	if err != nil {
		return err
	}
	stats.Record(st)
	return s.SaveStats(stats)
}

// Record counts st in the statistics.
func (gs *GameStats) Record(st game.Status) {
	gs.GamesPlayed++
	switch {
	case st.IsDraw():
		gs.Draws++
	case st.Winner == board.White:
		gs.WhiteWins++
	default:
		gs.BlackWins++
	}
	gs.ByReason[st.Kind.String()]++
}

// GetDrawRate returns the share of drawn games as a percentage (0-100)
func (gs *GameStats) GetDrawRate() float64 {
	if gs.GamesPlayed == 0 {
		return 0
	}
	return float64(gs.Draws) / float64(gs.GamesPlayed) * 100
}

// SaveGame stores data under slot. An empty slot gets a generated name,
// which is returned.
func (s *Storage) SaveGame(slot string, data []byte) (string, error) {
	if slot == "" {
		slot = petname.Generate(2, "-")
	}
	if err := checkSlot(slot); err != nil {
		return "", err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(prefixGame+slot), data)
	})
	if err != nil {
		return "", err
	}
	log.Printf("[STORAGE] saved game %q (%d bytes)", slot, len(data))
	return slot, nil
}

// LoadGame returns the data stored under slot.
func (s *Storage) LoadGame(slot string) ([]byte, error) {
	if err := checkSlot(slot); err != nil {
		return nil, err
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(prefixGame + slot))
		if err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, slot)
		}
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	return data, err
}

// ListGames returns the saved games ordered by slot name.
func (s *Storage) ListGames() ([]SavedGame, error) {
	var games []SavedGame
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(prefixGame)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()
			games = append(games, SavedGame{
				Slot: strings.TrimPrefix(string(item.Key()), prefixGame),
				Size: int(item.ValueSize()),
			})
		}
		return nil
	})
	sort.Slice(games, func(i, j int) bool { return games[i].Slot < games[j].Slot })
	return games, err
}

// DeleteGame removes a saved game.
func (s *Storage) DeleteGame(slot string) error {
	if err := checkSlot(slot); err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		key := []byte(prefixGame + slot)
		if _, err := txn.Get(key); err == badger.ErrKeyNotFound {
			return fmt.Errorf("%w: %s", ErrNotFound, slot)
		} else if err != nil {
			return err
		}
		return txn.Delete(key)
	})
}

func checkSlot(slot string) error {
	if slot == "" || strings.ContainsAny(slot, "/ \t\n") {
		return fmt.Errorf("%w: %q", ErrBadSlot, slot)
	}
	return nil
}

func (s *Storage) putJSON(key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// getJSON decodes the value under key into v, leaving v untouched if the key is absent.
func (s *Storage) getJSON(key string, v any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, v)
		})
	})
}
