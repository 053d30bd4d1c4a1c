package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mvp-joe/ccconv/internal/builder"
	"github.com/mvp-joe/ccconv/internal/compiledb"
)

var (
	// ErrConfigNotFound indicates an explicitly requested config file is missing
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigExists indicates the default config file already exists
	ErrConfigExists = errors.New("config file already exists")

	// ErrNoBuilders indicates no builder is enabled
	ErrNoBuilders = errors.New("no builders enabled")

	// ErrMissingBuilderOptions indicates an enabled builder without options
	ErrMissingBuilderOptions = errors.New("missing builder options")

	// ErrEmptyCompilers indicates an empty compiler allow-list
	ErrEmptyCompilers = errors.New("empty compiler allow-list")

	// ErrInvalidExclude indicates an exclude pattern that does not compile
	ErrInvalidExclude = errors.New("invalid exclude pattern")
)

// Validate checks that the configuration is valid and complete.
func Validate(cfg *Config) error {
	var errs []error

	if err := validateBuilders(cfg); err != nil {
		errs = append(errs, err)
	}

	if err := validateCompilers(cfg.Compilers); err != nil {
		errs = append(errs, err)
	}

	if _, err := compiledb.NewFileFilter(cfg.Exclude); err != nil {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidExclude, err))
	}

	return joinErrors(errs)
}

func validateBuilders(cfg *Config) error {
	var errs []error

	if len(cfg.Enabled) == 0 {
		errs = append(errs, fmt.Errorf("%w: enable at least one builder", ErrNoBuilders))
	}

	for _, name := range cfg.Enabled {
		if _, err := builder.New(name); err != nil {
			errs = append(errs, err)
			continue
		}
		opts, ok := cfg.BuilderOptionsFor(name)
		if !ok || strings.TrimSpace(opts.Name) == "" {
			errs = append(errs, fmt.Errorf("%w: builder.%s.name is required", ErrMissingBuilderOptions, name))
		}
	}

	return joinErrors(errs)
}

func validateCompilers(compilers []string) error {
	if len(compilers) == 0 {
		return fmt.Errorf("%w: at least one compiler required", ErrEmptyCompilers)
	}
	for _, c := range compilers {
		if strings.TrimSpace(c) == "" {
			return fmt.Errorf("%w: compiler identifiers cannot be blank", ErrEmptyCompilers)
		}
	}
	return nil
}

// joinErrors combines multiple errors into a single error with clear formatting.
// The result still matches every wrapped sentinel with errors.Is.
func joinErrors(errs []error) error {
	if len(errs) == 0 {
		return nil
	}

	if len(errs) == 1 {
		return errs[0]
	}

	args := make([]any, len(errs))
	for i, err := range errs {
		args[i] = err
	}
	return fmt.Errorf("validation failed:"+strings.Repeat("\n  - %w", len(errs)), args...)
}
