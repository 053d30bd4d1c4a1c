package config

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// UserConfigPath returns the user configuration file under home.
func UserConfigPath(home string) string {
	return filepath.Join(home, ".config", "ccconv", "ccconv.yml")
}

// EnsureUserConfig writes the default configuration to the user config path
// when no file exists there yet. It reports the path and whether it was created.
// Losing a creation race to another process is not an error.
func EnsureUserConfig(home string) (string, bool, error) {
	home, err := resolveHome(home)
	if err != nil {
		return "", false, err
	}
	path := UserConfigPath(home)

	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	if err := WriteDefault(path, false); err != nil {
		if errors.Is(err, ErrConfigExists) {
			return path, false, nil
		}
		return "", false, err
	}
	return path, true, nil
}

// WriteDefault writes the default configuration to path, creating parent
// directories. Without force an existing file yields ErrConfigExists.
func WriteDefault(path string, force bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := Marshal(Default())
	if err != nil {
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !force {
		flags = os.O_WRONLY | os.O_CREATE | os.O_EXCL
	}

	f, err := os.OpenFile(path, flags, 0644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrConfigExists, path)
		}
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(data); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

const configHeader = `# ccconv configuration
#
# enabled:        builders to run (ale, cdt)
# compilers:      compiler allow-list, matched against the end of the compiler path
# skip_malformed: skip records without a -D flag instead of failing
# exclude:        glob patterns of source files to ignore
# template_dir:   directory with ale.vimrc / cdt.xml overriding the built-in templates
# builder.<name>: output file name and whether include paths are written absolute

`

// Marshal renders cfg as YAML with a short explanatory header.
func Marshal(cfg *Config) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(configHeader)

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(cfg); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	return buf.Bytes(), nil
}
