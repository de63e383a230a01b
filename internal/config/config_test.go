package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileIsNotAnError(t *testing.T) {
	cfg, ok, err := Load(filepath.Join(t.TempDir(), "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatalf("expected ok=false for a missing file")
	}
	if cfg.Entry != "" || cfg.Backend != "" {
		t.Fatalf("expected a zero Config, got %+v", cfg)
	}
}

func TestLoadDecodesEntryAndBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lox.toml")
	if err := os.WriteFile(path, []byte("entry = \"main.lox\"\nbackend = \"vm\"\n"), 0o644); err != nil {
		t.Fatalf("unexpected error writing test fixture: %v", err)
	}
	cfg, ok, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatalf("expected ok=true for an existing file")
	}
	if cfg.Entry != "main.lox" || cfg.Backend != "vm" {
		t.Fatalf("expected entry=main.lox backend=vm, got %+v", cfg)
	}
}
