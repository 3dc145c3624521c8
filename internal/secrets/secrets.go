// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads model API keys from a directory of plain-text files.
// Each file holds one secret: the filename is the key name and the trimmed
// contents are the value.
//
// Provider keys are named "<provider>-api-key": gemini-api-key,
// claude-api-key, openai-api-key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// APIKeyFile returns the secrets file name holding the key for provider.
func APIKeyFile(provider string) string {
	return strings.ToLower(provider) + "-api-key"
}

// Load reads every regular file in dir. A missing directory is not an error
// and yields an empty map. Unreadable files are reported on stderr and
// skipped; dotfiles and empty files are ignored.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	keys := make(map[string]string)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			keys[name] = value
		}
	}
	return keys, nil
}
