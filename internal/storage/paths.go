// Package storage provides persistent storage for saved games, user preferences
// and result statistics.
package storage

import (
	"log"
	"os"
	"path/filepath"
	"runtime"
)

const appName = "chessrules"

// DataDirEnv overrides the data directory when set.
const DataDirEnv = "CHESSRULES_DATA_DIR"

// GetDataDir returns the directory that holds the database, creating it if needed.
//   - $CHESSRULES_DATA_DIR when set
//   - macOS: ~/Library/Application Support/chessrules/
//   - Linux: $XDG_DATA_HOME/chessrules/ or ~/.local/share/chessrules/
//   - Windows: %APPDATA%/chessrules/
func GetDataDir() (string, error) {
	dataDir := os.Getenv(DataDirEnv)
	if dataDir == "" {
		base, err := userDataBase()
		if err != nil {
			return "", err
		}
		dataDir = filepath.Join(base, appName)
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// userDataBase returns the per-user application data root for the platform.
func userDataBase() (string, error) {
	var env string
	var fallback []string

	switch runtime.GOOS {
	case "darwin":
		fallback = []string{"Library", "Application Support"}
	case "windows":
		env = "APPDATA"
		fallback = []string{"AppData", "Roaming"}
	default:
		env = "XDG_DATA_HOME"
		fallback = []string{".local", "share"}
	}

	if env != "" {
		if dir := os.Getenv(env); dir != "" {
			return dir, nil
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(append([]string{home}, fallback...)...), nil
}

// GetDatabaseDir returns the directory for storing the BadgerDB database.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}

	dbDir := filepath.Join(dataDir, "db")
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return "", err
	}

	log.Printf("[STORAGE] database directory: %s", dbDir)

	return dbDir, nil
}
