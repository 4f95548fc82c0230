package contract

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Directories searched by LoadByName, in order.
var defaultABIDirs = []string{
	"./contracts",
	"./abis",
	"./artifacts",
	"./build/contracts",
}

// LoadFromFile reads and parses an ABI file in any accepted container format.
func LoadFromFile(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading ABI file: %w", err)
	}
	abi, err := ParseABI(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return abi, nil
}

// LoadByName searches the conventional artifact directories for a contract's
// ABI file. searchDirs overrides the default list when non-empty.
func LoadByName(name string, searchDirs ...string) ([]Entry, error) {
	if len(searchDirs) == 0 {
		searchDirs = defaultABIDirs
	}

	patterns := []string{
		name + ".json",
		name + ".abi.json",
		filepath.Join(name+".sol", name+".json"), // Foundry layout
	}

	for _, dir := range searchDirs {
		if _, err := os.Stat(dir); err != nil {
			continue
		}
		for _, pattern := range patterns {
			path := filepath.Join(dir, pattern)
			if _, err := os.Stat(path); err == nil {
				return LoadFromFile(path)
			}
		}
	}

	return nil, fmt.Errorf("could not find ABI for %q in %v", name, searchDirs)
}

// SaveABI writes ABI entries to path as a bare JSON array.
func SaveABI(abi []Entry, path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating ABI dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(abi, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
