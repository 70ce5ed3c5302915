// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads notebook service session material from a directory of
// plain-text files. Each file in the directory represents one secret: the
// filename is the key name and the file contents (trimmed) are the value.
//
// Supported key files: cookies, csrf-token, session-id.
package secrets

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Key files recognized by Tokens.
const (
	KeyCookies   = "cookies"
	KeyCSRFToken = "csrf-token"
	KeySessionID = "session-id"
)

// Tokens holds the session material the notebook service client
// authenticates with.
type Tokens struct {
	Cookies   string
	CSRFToken string
	SessionID string
}

// Complete reports whether the material required for authenticated
// requests is present. The session ID is optional.
func (t Tokens) Complete() bool {
	return t.Cookies != "" && t.CSRFToken != ""
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files produce a warning on stderr but do not abort.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(os.Stderr, "warning: could not read secret %s: %v\n", name, err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// TokensFromDir loads session tokens from the key files in dir. Missing
// files leave the corresponding fields empty; callers check Complete.
func TokensFromDir(dir string) (Tokens, error) {
	m, err := Load(dir)
	if err != nil {
		return Tokens{}, err
	}
	return Tokens{
		Cookies:   m[KeyCookies],
		CSRFToken: m[KeyCSRFToken],
		SessionID: m[KeySessionID],
	}, nil
}
