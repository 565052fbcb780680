package lint

import (
	"path"
	"strings"
)

// Language identifies a source language understood by AST rules.
type Language string

// Supported languages.
const (
	LanguageGo         Language = "go"
	LanguagePython     Language = "python"
	LanguageJavaScript Language = "javascript"
	LanguageTypeScript Language = "typescript"
	LanguageRust       Language = "rust"
)

// Languages returns every supported language in a stable order.
func Languages() []Language {
	return []Language{LanguageGo, LanguageJavaScript, LanguagePython, LanguageRust, LanguageTypeScript}
}

var extensionLanguages = map[string]Language{
	".go":  LanguageGo,
	".py":  LanguagePython,
	".pyi": LanguagePython,
	".js":  LanguageJavaScript,
	".jsx": LanguageJavaScript,
	".mjs": LanguageJavaScript,
	".cjs": LanguageJavaScript,
	".ts":  LanguageTypeScript,
	".mts": LanguageTypeScript,
	".cts": LanguageTypeScript,
	".rs":  LanguageRust,
}

// DetectLanguage infers the language of a file from its extension.
func DetectLanguage(filePath string) (Language, bool) {
	lang, ok := extensionLanguages[strings.ToLower(path.Ext(filePath))]
	return lang, ok
}

// ParseLanguage converts a configuration value such as "Go" to a Language.
func ParseLanguage(s string) (Language, bool) {
	l := Language(strings.ToLower(strings.TrimSpace(s)))
	switch l {
	case LanguageGo, LanguagePython, LanguageJavaScript, LanguageTypeScript, LanguageRust:
		return l, true
	case "golang":
		return LanguageGo, true
	case "js":
		return LanguageJavaScript, true
	case "ts":
		return LanguageTypeScript, true
	default:
		return "", false
	}
}
