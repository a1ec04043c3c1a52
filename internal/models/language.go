package models

import (
	"errors"
	"strings"
)

var ErrUnsupportedLanguage = errors.New("UNSUPPORTED_LANGUAGE")

const DefaultLanguage = "en"

// SupportedLanguages is ordered for error messages and schema enums.
var SupportedLanguages = []string{"en", "sw", "fr", "id", "de", "es", "it", "pt", "ja"}

var languageNames = map[string]string{
	"en": "English",
	"sw": "Kiswahili (Swahili)",
	"fr": "French",
	"id": "Indonesian",
	"de": "German",
	"es": "Spanish",
	"it": "Italian",
	"pt": "Portuguese",
	"ja": "Japanese",
}

// NormalizeLanguage is the canonical form of a language code: trimmed and
// lower case. Every language check goes through it.
func NormalizeLanguage(code string) string {
	return strings.ToLower(strings.TrimSpace(code))
}

// LanguageName returns the display name for code, falling back to English.
func LanguageName(code string) string {
	if name, ok := languageNames[NormalizeLanguage(code)]; ok {
		return name
	}
	return languageNames[DefaultLanguage]
}

func IsSupportedLanguage(code string) bool {
	_, ok := languageNames[NormalizeLanguage(code)]
	return ok
}

// InvalidLanguageMessage is the caller-facing rejection text.
func InvalidLanguageMessage() string {
	return "Invalid language. Must be one of: " + strings.Join(SupportedLanguages, ", ")
}
