package builder

import (
	"strings"

	"github.com/mvp-joe/ccconv/internal/compiledb"
)

// ALELinter is one g:ale_* linter configuration.
type ALELinter struct {
	Filetype   string
	Name       string
	VName      string
	Executable string
	Options    string
}

// ALEContext is the template data for the ALE vimrc.
type ALEContext struct {
	Linters []ALELinter
}

// aleLinter maps a compiler suffix to ALE linter identifiers.
type aleLinter struct {
	suffix   string
	filetype string
	name     string
	vname    string
}

// aleLinters is checked in order; "g++" must come before "gcc".
var aleLinters = []aleLinter{
	{suffix: "g++", filetype: "cpp", name: "g++", vname: "gcc"},
	{suffix: "gcc", filetype: "c", name: "gcc", vname: "gcc"},
}

// ALEBuilder emits one linter per C/C++ language.
type ALEBuilder struct{}

func (b *ALEBuilder) Kind() Kind       { return KindALE }
func (b *ALEBuilder) Template() string { return "ale.vimrc" }

// Build creates a linter from each language's representative command.
// Languages whose compiler matches no known linter are skipped.
func (b *ALEBuilder) Build(group compiledb.LanguageGroup, opts Options) any {
	group = group.Restrict(compiledb.LangC, compiledb.LangCPP)

	ctx := &ALEContext{Linters: []ALELinter{}}
	for _, lang := range group.Languages() {
		cmd, _ := group.Representative(lang)
		linter, ok := lookupALELinter(cmd.Compiler)
		if !ok {
			continue
		}
		ctx.Linters = append(ctx.Linters, ALELinter{
			Filetype:   linter.filetype,
			Name:       linter.name,
			VName:      linter.vname,
			Executable: cmd.Compiler,
			Options:    aleOptions(cmd, opts),
		})
	}
	return ctx
}

func lookupALELinter(compiler string) (aleLinter, bool) {
	for _, l := range aleLinters {
		if compiledb.MatchCompiler(compiler, l.suffix) {
			return l, true
		}
	}
	return aleLinter{}, false
}

// aleOptions joins machine, warning, definition and include flags, in that order.
func aleOptions(cmd compiledb.CompileCommand, opts Options) string {
	var parts []string
	parts = append(parts, cmd.MachineOpts...)
	for _, w := range cmd.WarningOpts {
		parts = append(parts, "-W"+w)
	}
	for _, d := range cmd.Definitions {
		parts = append(parts, "-D"+d)
	}
	for _, dir := range opts.includeDirs(cmd.IncludeDirs) {
		parts = append(parts, "-I"+dir)
	}
	return strings.Join(parts, " ")
}
