package workspace

import (
	"fmt"
	"path/filepath"

	"github.com/99designs/keyring"
)

// keyringService is the service name registered with the OS keychain.
const keyringService = "querypad"

// Secrets stores connection passwords in the OS keychain, falling
// back to an encrypted file under the application directory when no
// native backend is available.
type Secrets struct {
	ring keyring.Keyring
}

// OpenSecrets opens the secret store.
func OpenSecrets() (*Secrets, error) {
	dir, err := EnsureDir()
	if err != nil {
		return nil, err
	}
	return openSecrets(dir, nil)
}

func openSecrets(dir string, backends []keyring.BackendType) (*Secrets, error) {
	ring, err := keyring.Open(keyring.Config{
		ServiceName:      keyringService,
		AllowedBackends:  backends,
		FileDir:          filepath.Join(dir, keyringDirName),
		FilePasswordFunc: keyring.FixedStringPrompt(keyringService),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open secret store: %w", err)
	}
	return &Secrets{ring: ring}, nil
}

// SetPassword stores the password for a connection.
func (s *Secrets) SetPassword(connection, password string) error {
	item := keyring.Item{
		Key:   connection,
		Data:  []byte(password),
		Label: keyringService + ": " + connection,
	}
	if err := s.ring.Set(item); err != nil {
		return fmt.Errorf("failed to store password for %s: %w", connection, err)
	}
	return nil
}

// Password returns the stored password for a connection. A missing
// entry yields the empty string, not an error.
func (s *Secrets) Password(connection string) (string, error) {
	item, err := s.ring.Get(connection)
	if err == keyring.ErrKeyNotFound {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read password for %s: %w", connection, err)
	}
	return string(item.Data), nil
}

// DeletePassword removes the stored password for a connection.
// Removing a missing entry is a no-op.
func (s *Secrets) DeletePassword(connection string) error {
	err := s.ring.Remove(connection)
	if err != nil && err != keyring.ErrKeyNotFound {
		return fmt.Errorf("failed to delete password for %s: %w", connection, err)
	}
	return nil
}
