package driver

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"pyrite/internal/project"
)

// BundleExt is the on-disk extension for AST bundles produced by the parser.
const BundleExt = ".pyrb"

// ErrModuleNotFound indicates a module path the loader cannot resolve.
var ErrModuleNotFound = errors.New("module not found")

// ModuleLoader resolves a canonical module path to raw bundle bytes. The
// checker itself never touches the filesystem; everything arrives through a
// loader.
type ModuleLoader interface {
	Load(path string) ([]byte, error)
}

// DirLoader reads bundles from Root, one <path>.pyrb per module.
type DirLoader struct {
	Root string
}

func (l DirLoader) Load(path string) ([]byte, error) {
	normalized, err := project.NormalizeModulePath(path)
	if err != nil {
		return nil, fmt.Errorf("%q: %w", path, ErrModuleNotFound)
	}
	full := filepath.Join(l.Root, filepath.FromSlash(normalized)+BundleExt)
	data, err := os.ReadFile(full)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%q: %w", path, ErrModuleNotFound)
		}
		return nil, fmt.Errorf("failed to read bundle %q: %w", full, err)
	}
	return data, nil
}

// ListModules returns the canonical module paths of every bundle under the
// loader's root, sorted for deterministic order.
func (l DirLoader) ListModules() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(l.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, BundleExt) {
			return nil
		}
		rel, err := filepath.Rel(l.Root, path)
		if err != nil {
			return err
		}
		module := filepath.ToSlash(strings.TrimSuffix(rel, BundleExt))
		paths = append(paths, module)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(paths)
	return paths, nil
}

// MemLoader serves bundles from memory (tests, LSP-style embedding).
type MemLoader map[string][]byte

func (l MemLoader) Load(path string) ([]byte, error) {
	data, ok := l[path]
	if !ok {
		return nil, fmt.Errorf("%q: %w", path, ErrModuleNotFound)
	}
	return data, nil
}
