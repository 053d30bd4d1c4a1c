// Package builder turns a language-grouped compile database into the data
// consumed by an output template.
//
// The set of builders is closed: KindALE produces Vim ALE linter settings and
// KindCDT produces Eclipse CDT "Paths and Symbols" entries. Both are pure
// functions of the group and their options.
package builder

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/mvp-joe/ccconv/internal/compiledb"
)

// ErrUnknownBuilder indicates a builder name with no implementation
var ErrUnknownBuilder = errors.New("unknown builder")

// Kind names a builder.
type Kind string

const (
	KindALE Kind = "ale"
	KindCDT Kind = "cdt"
)

// Kinds returns every recognized builder kind.
func Kinds() []Kind {
	return []Kind{KindALE, KindCDT}
}

// Options are the per-builder settings taken from configuration.
type Options struct {
	// OutputDir is the directory include paths were made relative to.
	OutputDir string
	// Absolute rewrites relative include paths to absolute form.
	Absolute bool
}

// Builder produces the template context for one output format.
type Builder interface {
	Kind() Kind
	// Template is the name of the template rendering the context.
	Template() string
	Build(group compiledb.LanguageGroup, opts Options) any
}

// New returns the builder registered under name.
func New(name string) (Builder, error) {
	switch Kind(name) {
	case KindALE:
		return &ALEBuilder{}, nil
	case KindCDT:
		return &CDTBuilder{}, nil
	}
	return nil, fmt.Errorf("%w: %q (valid: %s)", ErrUnknownBuilder, name, kindList())
}

func kindList() string {
	names := make([]string, 0, len(Kinds()))
	for _, k := range Kinds() {
		names = append(names, string(k))
	}
	return strings.Join(names, ", ")
}

// includeDirs applies the Absolute option. Relative include dirs were made
// relative to the output directory, so that is where they are resolved.
func (o Options) includeDirs(dirs []string) []string {
	out := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		if o.Absolute && !filepath.IsAbs(dir) {
			dir = filepath.Join(o.OutputDir, dir)
		}
		out = append(out, dir)
	}
	return out
}
