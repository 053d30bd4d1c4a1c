package compiledb

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/maypok86/otter"
)

// ExistsFunc reports whether a path exists on disk.
type ExistsFunc func(path string) bool

// StatExists reports whether path can be stat'ed. Any error counts as missing.
func StatExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Normalizer rewrites include directories relative to an output directory.
// Resolution always uses the record's directory as base; the process working
// directory is never consulted or changed.
type Normalizer struct {
	outputDir string
	exists    ExistsFunc
}

// NewNormalizer creates a normalizer targeting outputDir.
// A nil exists func falls back to StatExists.
func NewNormalizer(outputDir string, exists ExistsFunc) *Normalizer {
	if exists == nil {
		exists = StatExists
	}
	return &Normalizer{
		outputDir: filepath.Clean(outputDir),
		exists:    exists,
	}
}

// OutputDir returns the directory include paths are made relative to.
func (n *Normalizer) OutputDir() string {
	return n.outputDir
}

// Normalize resolves an include directory found in a record run from dir.
// Absolute paths are returned unchanged. Relative paths that do not exist
// are dropped (ok is false); existing ones are returned relative to the
// output directory. A relative dir gives no base to resolve against, so
// relative includes from it are dropped without touching the filesystem.
func (n *Normalizer) Normalize(dir, include string) (string, bool) {
	if filepath.IsAbs(include) {
		return include, true
	}
	if !filepath.IsAbs(dir) {
		return "", false
	}

	abs := filepath.Join(dir, include)
	if !n.exists(abs) {
		return "", false
	}

	rel, err := filepath.Rel(n.outputDir, abs)
	if err != nil {
		return "", false
	}
	return rel, true
}

// StatCache memoizes existence checks for the duration of one run.
// Compile databases repeat the same include directories for every file,
// so most lookups hit the cache.
type StatCache struct {
	cache  otter.Cache[string, bool]
	exists ExistsFunc
}

// NewStatCache creates a cache holding up to capacity entries in front of exists.
func NewStatCache(capacity int, exists ExistsFunc) (*StatCache, error) {
	if capacity <= 0 {
		return nil, fmt.Errorf("stat cache capacity must be positive, got %d", capacity)
	}
	if exists == nil {
		exists = StatExists
	}

	cache, err := otter.MustBuilder[string, bool](capacity).Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build stat cache: %w", err)
	}

	return &StatCache{cache: cache, exists: exists}, nil
}

// Exists implements ExistsFunc.
func (s *StatCache) Exists(path string) bool {
	if found, ok := s.cache.Get(path); ok {
		return found
	}
	found := s.exists(path)
	s.cache.Set(path, found)
	return found
}

// Close releases the cache.
func (s *StatCache) Close() {
	s.cache.Close()
}
