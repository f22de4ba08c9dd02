package workspace

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/querypad/querypad/pkg/core"
)

// connectionsDoc is the on-disk shape of connections.json.
type connectionsDoc struct {
	Connections []core.ConnectionConfig `json:"connections"`
}

// LoadConnections reads the saved connection list. A missing file
// yields an empty list. Passwords are not part of the file; resolve
// them through Secrets.
func LoadConnections() ([]core.ConnectionConfig, error) {
	path, err := ConnectionsPath()
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read connections: %w", err)
	}

	var doc connectionsDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc.Connections, nil
}

// SaveConnections writes the connection list pretty-printed. The
// Password field carries a json:"-" tag, so secrets never land in
// the file.
func SaveConnections(conns []core.ConnectionConfig) error {
	if _, err := EnsureDir(); err != nil {
		return err
	}
	path, err := ConnectionsPath()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(connectionsDoc{Connections: conns}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode connections: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("failed to write connections: %w", err)
	}
	return nil
}

// FindConnection returns the named connection from the list.
func FindConnection(conns []core.ConnectionConfig, name string) (core.ConnectionConfig, bool) {
	for _, c := range conns {
		if c.Name == name {
			return c, true
		}
	}
	return core.ConnectionConfig{}, false
}

// AddConnection appends the connection to the saved list, replacing
// any existing entry with the same name.
func AddConnection(cfg core.ConnectionConfig) error {
	conns, err := LoadConnections()
	if err != nil {
		return err
	}

	replaced := false
	for i, c := range conns {
		if c.Name == cfg.Name {
			conns[i] = cfg
			replaced = true
			break
		}
	}
	if !replaced {
		conns = append(conns, cfg)
	}
	return SaveConnections(conns)
}

// RemoveConnection deletes the named connection from the saved list.
func RemoveConnection(name string) error {
	conns, err := LoadConnections()
	if err != nil {
		return err
	}

	kept := make([]core.ConnectionConfig, 0, len(conns))
	found := false
	for _, c := range conns {
		if c.Name == name {
			found = true
			continue
		}
		kept = append(kept, c)
	}
	if !found {
		return fmt.Errorf("connection not found: %s", name)
	}
	return SaveConnections(kept)
}
