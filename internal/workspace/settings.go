package workspace

import (
	"encoding/json"
	"fmt"
	"os"
)

// Settings holds the state querypad writes back on its own: the
// connection used last and where exports land.
type Settings struct {
	LastConnection string `json:"last_connection,omitempty"`
	AutoConnect    bool   `json:"auto_connect,omitempty"`
	ExportDir      string `json:"export_dir,omitempty"`
}

// LoadSettings reads settings.json. A missing file yields zero
// settings, not an error.
func LoadSettings() (*Settings, error) {
	path, err := SettingsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &Settings{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read settings: %w", err)
	}

	var s Settings
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &s, nil
}

// SaveSettings writes settings.json pretty-printed so it stays
// hand-editable.
func SaveSettings(s *Settings) error {
	if _, err := EnsureDir(); err != nil {
		return err
	}
	path, err := SettingsPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write settings: %w", err)
	}
	return nil
}
