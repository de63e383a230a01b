package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestReadSourceFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "main.lox")
	if err := os.WriteFile(path, []byte("print 1;"), 0o644); err != nil {
		t.Fatalf("unexpected error writing test fixture: %v", err)
	}
	file, err := readSourceFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if file.Name != path {
		t.Fatalf("expected Name %q, got %q", path, file.Name)
	}
	if string(file.Content) != "print 1;" {
		t.Fatalf("expected content 'print 1;', got %q", file.Content)
	}
}

func TestReadSourceFileMissingReturnsError(t *testing.T) {
	if _, err := readSourceFile(filepath.Join(t.TempDir(), "missing.lox")); err == nil {
		t.Fatalf("expected an error for a missing file")
	}
}
