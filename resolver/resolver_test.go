package resolver

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeHook(t *testing.T, dir, name string, mode os.FileMode) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), mode); err != nil {
		t.Fatalf("write hook: %v", err)
	}
	return path
}

func TestDirResolver_FindsExecutable(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "lint", 0o755)

	r := NewDirResolver(dir)
	path, err := r.Resolve("lint")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if filepath.Base(path) != "lint" {
		t.Errorf("expected path ending in lint, got %q", path)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("expected absolute path, got %q", path)
	}
}

func TestDirResolver_FirstDirectoryWins(t *testing.T) {
	first := t.TempDir()
	second := t.TempDir()
	wantPath := writeHook(t, first, "build", 0o755)
	writeHook(t, second, "build", 0o755)

	r := NewDirResolver(first, second)
	path, err := r.Resolve("build")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if path != wantPath {
		t.Errorf("expected %q, got %q", wantPath, path)
	}
}

func TestDirResolver_SkipsMissingDirectories(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "notify", 0o755)

	r := NewDirResolver(filepath.Join(dir, "does-not-exist"), dir)
	if _, err := r.Resolve("notify"); err != nil {
		t.Fatalf("resolve should skip missing directory: %v", err)
	}
}

func TestDirResolver_NotExecutable(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, "lint", 0o644)

	r := NewDirResolver(dir)
	_, err := r.Resolve("lint")
	if !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("expected ErrHookNotFound for non-executable file, got %v", err)
	}
}

func TestDirResolver_NotFound(t *testing.T) {
	r := NewDirResolver(t.TempDir())
	_, err := r.Resolve("ghost")
	if !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("expected ErrHookNotFound, got %v", err)
	}
}

func TestDirResolver_RejectsPathSeparators(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "sub")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	writeHook(t, sub, "escape", 0o755)

	r := NewDirResolver(dir)
	_, err := r.Resolve("sub/escape")
	if !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("expected ErrHookNotFound for name with separator, got %v", err)
	}
}

func TestDirResolver_RejectsEmptyName(t *testing.T) {
	r := NewDirResolver(t.TempDir())
	_, err := r.Resolve("")
	if !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("expected ErrHookNotFound for empty name, got %v", err)
	}
}

func TestDirResolver_IgnoresDirectories(t *testing.T) {
	dir := t.TempDir()
	if err := os.Mkdir(filepath.Join(dir, "lint"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	r := NewDirResolver(dir)
	_, err := r.Resolve("lint")
	if !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("expected ErrHookNotFound when name is a directory, got %v", err)
	}
}

func TestStaticResolver(t *testing.T) {
	r := NewStaticResolver(map[string]string{"lint": "/opt/hooks/lint"})

	path, err := r.Resolve("lint")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if path != "/opt/hooks/lint" {
		t.Errorf("expected /opt/hooks/lint, got %q", path)
	}

	_, err = r.Resolve("missing")
	if !errors.Is(err, ErrHookNotFound) {
		t.Fatalf("expected ErrHookNotFound, got %v", err)
	}
}
