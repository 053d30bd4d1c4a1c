package compiledb

import (
	"errors"
	"fmt"
)

var (
	// ErrInputNotFound indicates the compile command database file is missing
	ErrInputNotFound = errors.New("compile command database not found")

	// ErrMalformedCommand indicates a command line the compiler token cannot be located in
	ErrMalformedCommand = errors.New("malformed compile command")
)

// MalformedCommandError describes a record whose command line could not be parsed.
type MalformedCommandError struct {
	File    string
	Command string
	Reason  string
}

func (e *MalformedCommandError) Error() string {
	return fmt.Sprintf("%s for %s: %s (command: %q)", ErrMalformedCommand, e.File, e.Reason, e.Command)
}

func (e *MalformedCommandError) Unwrap() error {
	return ErrMalformedCommand
}
