package builder

import (
	"strings"

	"github.com/mvp-joe/ccconv/internal/compiledb"
)

// Definition is a preprocessor macro split into name and value.
type Definition struct {
	Name  string
	Value string
}

// CDTLanguage is one <language> entry of the CDT settings file.
type CDTLanguage struct {
	Name        string
	IncludeDirs []string
	Definitions []Definition
}

// CDTContext is the template data for the CDT settings XML.
type CDTContext struct {
	Languages []CDTLanguage
}

var cdtLanguageNames = map[compiledb.Language]string{
	compiledb.LangC:   "C Source File",
	compiledb.LangCPP: "C++ Source File",
}

// CDTBuilder emits include paths and macros per C/C++ language.
type CDTBuilder struct{}

func (b *CDTBuilder) Kind() Kind       { return KindCDT }
func (b *CDTBuilder) Template() string { return "cdt.xml" }

// Build creates one language entry from each language's representative command.
func (b *CDTBuilder) Build(group compiledb.LanguageGroup, opts Options) any {
	group = group.Restrict(compiledb.LangC, compiledb.LangCPP)

	ctx := &CDTContext{Languages: []CDTLanguage{}}
	for _, lang := range group.Languages() {
		cmd, _ := group.Representative(lang)

		defs := make([]Definition, 0, len(cmd.Definitions))
		for _, d := range cmd.Definitions {
			defs = append(defs, SplitDefinition(d))
		}

		ctx.Languages = append(ctx.Languages, CDTLanguage{
			Name:        cdtLanguageNames[lang],
			IncludeDirs: opts.includeDirs(cmd.IncludeDirs),
			Definitions: defs,
		})
	}
	return ctx
}

// SplitDefinition splits "KEY=VALUE" at the first '='. A definition without
// '=' gets an empty value.
func SplitDefinition(def string) Definition {
	name, value, _ := strings.Cut(def, "=")
	return Definition{Name: name, Value: value}
}
