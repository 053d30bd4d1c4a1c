package compiledb

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// DatabaseFileName is the conventional name of a compile command database.
const DatabaseFileName = "compile_commands.json"

// Record is one raw entry of a compile command database.
type Record struct {
	Directory string   `json:"directory"`
	File      string   `json:"file"`
	Command   string   `json:"command,omitempty"`
	Arguments []string `json:"arguments,omitempty"`
}

// CommandLine returns the raw command string of the record.
// Records that only carry the argument list get it joined with single spaces.
func (r Record) CommandLine() string {
	if r.Command != "" || len(r.Arguments) == 0 {
		return r.Command
	}
	return strings.Join(r.Arguments, " ")
}

// DatabasePath returns the path of the compile command database inside dir.
func DatabasePath(dir string) string {
	return filepath.Join(dir, DatabaseFileName)
}

// LoadDatabase reads and decodes a compile command database.
// A missing file is reported as ErrInputNotFound.
func LoadDatabase(path string) ([]Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %q does not exist", ErrInputNotFound, path)
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return records, nil
}
