// Package workspace manages the querypad application directory: the
// settings file, the saved connections file, the secret store backing
// connection passwords, and the watcher that picks up on-disk edits.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvHome overrides the application directory, mainly for tests.
const EnvHome = "QUERYPAD_HOME"

const (
	dirName             = ".querypad"
	settingsFileName    = "settings.json"
	connectionsFileName = "connections.json"
	stateFileName       = "state.db"
	replHistoryFileName = "repl_history"
	keyringDirName      = "keyring"
)

// Dir returns the application directory, ~/.querypad unless
// overridden through QUERYPAD_HOME.
func Dir() (string, error) {
	if dir := os.Getenv(EnvHome); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve home directory: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// EnsureDir creates the application directory when missing and
// returns it.
func EnsureDir() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return dir, nil
}

// SettingsPath returns the path of settings.json.
func SettingsPath() (string, error) { return filePath(settingsFileName) }

// ConnectionsPath returns the path of connections.json.
func ConnectionsPath() (string, error) { return filePath(connectionsFileName) }

// StatePath returns the path of the state database.
func StatePath() (string, error) { return filePath(stateFileName) }

// ReplHistoryPath returns the path of the REPL history file.
func ReplHistoryPath() (string, error) { return filePath(replHistoryFileName) }

func filePath(name string) (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}
