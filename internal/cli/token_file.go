package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TokenFile persists the session token between invocations.
type TokenFile struct {
	path string
}

// NewTokenFile returns a TokenFile at path. Nothing is read until Load.
func NewTokenFile(path string) *TokenFile {
	return &TokenFile{path: path}
}

func (f *TokenFile) Path() string { return f.path }

// Save writes token readable by the owner only.
func (f *TokenFile) Save(token string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, []byte(token+"\n"), 0o600); err != nil {
		return fmt.Errorf("save token: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("save token: %w", err)
	}
	return nil
}

// Load returns errNoSession when no token is stored.
func (f *TokenFile) Load() (string, error) {
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", errNoSession
		}
		return "", fmt.Errorf("load token: %w", err)
	}
	token := strings.TrimSpace(string(raw))
	if token == "" {
		return "", errNoSession
	}
	return token, nil
}

// Clear removes the token. A missing file is not an error.
func (f *TokenFile) Clear() error {
	err := os.Remove(f.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}
