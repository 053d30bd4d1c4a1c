package compiledb

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// compiledPattern holds both the pattern string and compiled glob
type compiledPattern struct {
	pattern string
	glob    glob.Glob
}

// FileFilter excludes database records by source file path.
type FileFilter struct {
	patterns []compiledPattern
}

// NewFileFilter compiles exclude patterns. Patterns use '/' as separator,
// so "**" crosses directories and "*" does not.
func NewFileFilter(patterns []string) (*FileFilter, error) {
	f := &FileFilter{}
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		f.patterns = append(f.patterns, compiledPattern{pattern: pattern, glob: g})
	}
	return f, nil
}

// Excluded reports whether file matches any pattern and returns that pattern.
func (f *FileFilter) Excluded(file string) (string, bool) {
	normalized := filepath.ToSlash(file)
	for _, p := range f.patterns {
		if p.glob.Match(normalized) {
			return p.pattern, true
		}
	}
	return "", false
}
