package compiledb

import "path/filepath"

// Language identifies the source language of a compiled file.
type Language string

const (
	LangC       Language = "c"
	LangCPP     Language = "cpp"
	LangASM     Language = "asm"
	LangUnknown Language = "unknown"
)

// extensionToLanguage maps file extensions (with dot) to languages.
// Lookup is case-sensitive: ".S" is preprocessed assembly, ".C" is left unknown.
var extensionToLanguage = map[string]Language{
	// C
	".c": LangC,
	// C++
	".cpp": LangCPP, ".cxx": LangCPP, ".cc": LangCPP, ".c++": LangCPP,
	// Assembly
	".s": LangASM, ".S": LangASM,
}

// DetectLanguage returns the language for a source file based on its extension.
// Unmapped extensions yield LangUnknown.
func DetectLanguage(file string) Language {
	if lang, ok := extensionToLanguage[filepath.Ext(file)]; ok {
		return lang
	}
	return LangUnknown
}
