// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and storage credentials from a directory of
// plain-text files. Each file holds one secret: the file name is the key and
// the trimmed contents are the value.
package secrets

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultDir is the secrets directory relative to the working directory.
const DefaultDir = ".secrets"

// Key files read by the console.
const (
	AgentAPIKey    = "agent-api-key"
	DocstoreAPIKey = "docstore-api-key"
	S3AccessKey    = "s3-access-key"
	S3SecretKey    = "s3-secret-key"
)

// Store maps key names to secret values.
type Store map[string]string

// Load reads every regular, non-hidden file in dir. A missing directory is
// not an error and yields an empty Store. Unreadable files are logged and
// skipped.
func Load(dir string, logger *slog.Logger) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := Store{}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			if logger != nil {
				logger.Warn("could not read secret", "name", name, "error", err)
			}
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Get returns explicit when it is set, otherwise the stored secret for key.
// Values from config or flags always win over files.
func (s Store) Get(key, explicit string) string {
	if explicit != "" {
		return explicit
	}
	return s[key]
}

// Names lists the loaded keys in sorted order. Values are never exposed.
func (s Store) Names() []string {
	names := make([]string, 0, len(s))
	for k := range s {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
