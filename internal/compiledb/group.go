package compiledb

import (
	"cmp"
	"maps"
	"regexp"
	"slices"
	"strings"
)

var versionSuffix = regexp.MustCompile(`-[0-9]+(\.[0-9]+)*$`)

// LanguageGroup buckets parsed commands by language.
// Within a bucket, commands keep their database order.
type LanguageGroup map[Language][]CompileCommand

// Languages returns the languages present in the group, sorted.
func (g LanguageGroup) Languages() []Language {
	return slices.Sorted(maps.Keys(g))
}

// Representative returns the first command of a language. Builders read their
// per-language flags from it, assuming flags are uniform within a language.
func (g LanguageGroup) Representative(lang Language) (CompileCommand, bool) {
	cmds := g[lang]
	if len(cmds) == 0 {
		return CompileCommand{}, false
	}
	return cmds[0], true
}

// Restrict returns a group holding only the given languages.
func (g LanguageGroup) Restrict(langs ...Language) LanguageGroup {
	out := make(LanguageGroup, len(langs))
	for _, lang := range langs {
		if cmds, ok := g[lang]; ok {
			out[lang] = cmds
		}
	}
	return out
}

// Len returns the total number of commands across all languages.
func (g LanguageGroup) Len() int {
	n := 0
	for _, cmds := range g {
		n += len(cmds)
	}
	return n
}

// MatchCompiler reports whether compiler ends with id. A trailing version
// suffix such as "-12" or "-12.2" is ignored, so "/usr/bin/g++-12" matches "g++".
func MatchCompiler(compiler, id string) bool {
	if strings.HasSuffix(compiler, id) {
		return true
	}
	trimmed := versionSuffix.ReplaceAllString(compiler, "")
	return trimmed != compiler && strings.HasSuffix(trimmed, id)
}

// IsAllowedCompiler reports whether compiler matches one of the allowed identifiers.
func IsAllowedCompiler(compiler string, allowed []string) bool {
	for _, id := range allowed {
		if MatchCompiler(compiler, id) {
			return true
		}
	}
	return false
}

// Group drops commands whose compiler is not allowed, stable-sorts the rest by
// language and splits them into one run per language.
func Group(cmds []CompileCommand, compilers []string) LanguageGroup {
	kept := make([]CompileCommand, 0, len(cmds))
	for _, c := range cmds {
		if IsAllowedCompiler(c.Compiler, compilers) {
			kept = append(kept, c)
		}
	}

	slices.SortStableFunc(kept, func(a, b CompileCommand) int {
		return cmp.Compare(a.Language, b.Language)
	})

	group := make(LanguageGroup)
	for start := 0; start < len(kept); {
		end := start + 1
		for end < len(kept) && kept[end].Language == kept[start].Language {
			end++
		}
		group[kept[start].Language] = kept[start:end:end]
		start = end
	}
	return group
}
