package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestTokenFile(t *testing.T) {
	f := NewTokenFile(filepath.Join(t.TempDir(), "nested", "token"))

	if _, err := f.Load(); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession, got %v", err)
	}
	if err := f.Save("abc.def.ghi"); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := f.Load()
	if err != nil || got != "abc.def.ghi" {
		t.Fatalf("load: got %q, %v", got, err)
	}
	if _, err := os.Stat(f.Path() + ".tmp"); !os.IsNotExist(err) {
		t.Fatalf("temporary file left behind: %v", err)
	}

	if err := f.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := f.Clear(); err != nil {
		t.Fatalf("second clear: %v", err)
	}
	if _, err := f.Load(); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession after clear, got %v", err)
	}
}

func TestTokenFile_BlankIsNoSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "token")
	if err := os.WriteFile(path, []byte("  \n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenFile(path).Load(); !errors.Is(err, errNoSession) {
		t.Fatalf("expected errNoSession, got %v", err)
	}
}
