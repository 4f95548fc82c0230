package wallet

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileStore persists account metadata as a JSON file. Keys are never in it:
// signing accounts carry only their keystore reference.
type FileStore struct {
	path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Load() ([]*Account, error) {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading accounts: %w", err)
	}
	var accounts []*Account
	if err := json.Unmarshal(data, &accounts); err != nil {
		return nil, fmt.Errorf("parsing accounts: %w", err)
	}
	return accounts, nil
}

func (s *FileStore) Save(accounts []*Account) error {
	data, err := json.MarshalIndent(accounts, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("creating accounts dir: %w", err)
		}
	}
	return os.WriteFile(s.path, data, 0o600)
}
