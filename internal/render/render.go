// Package render turns builder contexts into output files using text/template.
//
// Templates ship embedded in the binary. An override directory may supply a
// replacement for any of them; for each template name the override is tried
// first and the embedded copy is the fallback.
package render

import (
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"
)

//go:embed templates/*
var templateFS embed.FS

// ErrTemplateNotFound indicates no candidate location holds the template
var ErrTemplateNotFound = errors.New("template not found")

// Engine loads and renders named templates.
type Engine struct {
	overrideDir string
	templates   map[string]*template.Template
}

// NewEngine creates an engine. overrideDir may be empty.
func NewEngine(overrideDir string) *Engine {
	return &Engine{
		overrideDir: overrideDir,
		templates:   make(map[string]*template.Template),
	}
}

// templateFuncs returns the FuncMap available to all templates.
func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"vimquote": VimQuote,
		"xml":      XMLEscape,
	}
}

// Render executes the named template with data.
func (e *Engine) Render(name string, data any) ([]byte, error) {
	tmpl, err := e.lookup(name)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (e *Engine) lookup(name string) (*template.Template, error) {
	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}

	source, origin, err := e.source(name)
	if err != nil {
		return nil, err
	}

	tmpl, err := template.New(name).Funcs(templateFuncs()).Parse(string(source))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", origin, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}

// source returns the template text and where it came from.
func (e *Engine) source(name string) ([]byte, string, error) {
	if e.overrideDir != "" {
		path := filepath.Join(e.overrideDir, name)
		data, err := os.ReadFile(path)
		if err == nil {
			return data, path, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, "", fmt.Errorf("failed to read template %s: %w", path, err)
		}
	}

	data, err := fs.ReadFile(templateFS, "templates/"+name)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrTemplateNotFound, name)
	}
	return data, "embedded:" + name, nil
}

// VimQuote renders s as a single-quoted Vim string literal.
func VimQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// XMLEscape escapes s for use in XML text and attribute values.
func XMLEscape(s string) (string, error) {
	var b strings.Builder
	if err := xml.EscapeText(&b, []byte(s)); err != nil {
		return "", err
	}
	return b.String(), nil
}

// WriteFile replaces path with data. The content goes to a temporary file in
// the same directory first, so readers never see a partially written file.
func WriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to set permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}
