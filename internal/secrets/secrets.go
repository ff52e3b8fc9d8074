// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads API keys and credentials from a directory of
// plain-text files, one file per key.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// KnownKeys lists the credential files the CLI looks for in the secrets
// directory. Anything else in the directory is ignored.
var KnownKeys = []string{
	"deepseek-api-key",
	"anthropic-api-key",
	"google-api-key",
	"google-cse-id",
}

// Load reads the known key files from dir and returns a map of key name
// to trimmed contents. A missing directory or missing key files are not
// errors. Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	if _, err := os.Stat(dir); err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, key := range KnownKeys {
		data, err := os.ReadFile(filepath.Join(dir, key))
		if err != nil {
			if !os.IsNotExist(err) {
				fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", key, err)
			}
			continue
		}

		if value := strings.TrimSpace(string(data)); value != "" {
			secrets[key] = value
		}
	}

	return secrets, nil
}

// Resolve returns the credential for key: an explicit flag value wins,
// then the loaded secret file, then the environment variable envVar.
// Empty string means the credential is unavailable.
func Resolve(loaded map[string]string, flagValue, key, envVar string) string {
	if flagValue != "" {
		return flagValue
	}
	if v, ok := loaded[key]; ok {
		return v
	}
	if envVar != "" {
		return os.Getenv(envVar)
	}
	return ""
}
