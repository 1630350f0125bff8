// Package resolver locates hook executables by name.
//
// Hooks are standalone executables living in one or more hook directories.
// Resolution is by exact file name with the executable bit set; the first
// directory containing a match wins.
package resolver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrHookNotFound is returned when no hook directory contains an executable
// with the requested name.
var ErrHookNotFound = errors.New("hook not found")

// Resolver maps a hook name to the path of its executable.
type Resolver interface {
	// Resolve returns the absolute path of the executable for name.
	// Returns an error wrapping ErrHookNotFound when no match exists.
	Resolve(name string) (string, error)
}

// DirResolver resolves hooks against an ordered list of directories.
type DirResolver struct {
	dirs []string
}

// NewDirResolver creates a resolver over the given directories, searched in
// order. Directories that do not exist are skipped at resolve time.
func NewDirResolver(dirs ...string) *DirResolver {
	return &DirResolver{dirs: dirs}
}

// Resolve implements Resolver.
func (r *DirResolver) Resolve(name string) (string, error) {
	if name == "" || strings.ContainsRune(name, os.PathSeparator) {
		return "", fmt.Errorf("%w: invalid hook name %q", ErrHookNotFound, name)
	}

	for _, dir := range r.dirs {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.IsDir() {
			continue
		}
		if info.Mode()&0o111 == 0 {
			return "", fmt.Errorf("%w: %q exists but is not executable", ErrHookNotFound, path)
		}
		abs, err := filepath.Abs(path)
		if err != nil {
			return "", fmt.Errorf("resolve %q: %w", name, err)
		}
		return abs, nil
	}

	return "", fmt.Errorf("%w: %q (searched %d directories)", ErrHookNotFound, name, len(r.dirs))
}

// StaticResolver resolves hooks from a fixed name-to-path map. Used in tests
// and for configurations that pin hook paths explicitly.
type StaticResolver struct {
	paths map[string]string
}

// NewStaticResolver creates a resolver over a fixed map.
func NewStaticResolver(paths map[string]string) *StaticResolver {
	return &StaticResolver{paths: paths}
}

// Resolve implements Resolver.
func (r *StaticResolver) Resolve(name string) (string, error) {
	path, ok := r.paths[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrHookNotFound, name)
	}
	return path, nil
}
