package compiledb

import (
	"slices"
	"strings"
)

// CompileCommand is the parsed form of one compile command database record.
type CompileCommand struct {
	File        string   `json:"file"`
	Language    Language `json:"language"`
	Compiler    string   `json:"compiler"`
	Definitions []string `json:"definitions"`
	WarningOpts []string `json:"warning_opts"`
	MachineOpts []string `json:"machine_opts"`
	IncludeDirs []string `json:"include_dirs"`
}

// ParseCommand turns a raw record into a CompileCommand.
//
// The command is split on whitespace without any shell quoting rules. The
// compiler is the token right before the first -D flag; flag tokens sitting
// between the two (e.g. "g++ -Wall -DFOO") are skipped over and still take part
// in extraction. Everything before the compiler, such as a ccache launcher, is
// ignored. Include directories go through norm using the record's directory.
func ParseCommand(rec Record, norm *Normalizer) (*CompileCommand, error) {
	line := rec.CommandLine()
	tokens := strings.Fields(line)

	firstDef := slices.IndexFunc(tokens, func(tok string) bool {
		return strings.HasPrefix(tok, "-D")
	})
	if firstDef < 0 {
		return nil, &MalformedCommandError{File: rec.File, Command: line, Reason: "no -D definition flag"}
	}

	compilerIdx := firstDef - 1
	for compilerIdx >= 0 && strings.HasPrefix(tokens[compilerIdx], "-") {
		compilerIdx--
	}
	if compilerIdx < 0 {
		return nil, &MalformedCommandError{File: rec.File, Command: line, Reason: "no compiler before the first -D flag"}
	}

	cmd := &CompileCommand{
		File:        rec.File,
		Language:    DetectLanguage(rec.File),
		Compiler:    tokens[compilerIdx],
		Definitions: []string{},
		WarningOpts: []string{},
		MachineOpts: []string{},
		IncludeDirs: []string{},
	}

	for _, tok := range tokens[compilerIdx+1:] {
		switch {
		case strings.HasPrefix(tok, "-D"):
			cmd.Definitions = append(cmd.Definitions, tok[2:])
		case strings.HasPrefix(tok, "-W"):
			cmd.WarningOpts = append(cmd.WarningOpts, tok[2:])
		case strings.HasPrefix(tok, "-m"):
			cmd.MachineOpts = append(cmd.MachineOpts, tok)
		case strings.HasPrefix(tok, "-I"):
			if dir, ok := norm.Normalize(rec.Directory, tok[2:]); ok {
				cmd.IncludeDirs = append(cmd.IncludeDirs, dir)
			}
		}
	}

	return cmd, nil
}
