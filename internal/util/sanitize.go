package util

import (
	"regexp"
	"strings"
	"unicode"

	"taste-tribe/pkg/apierror"
)

var invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\s]`)

const maxFilenameRunes = 120

// SanitizeFilename turns a client supplied upload name into something safe to
// forward to the image host.
func SanitizeFilename(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", apierror.Validation("No selected file", "avatar")
	}

	cleaned := stripInvisible(trimmed, false)
	cleaned = invalidFilenameChars.ReplaceAllString(cleaned, "_")
	cleaned = strings.Trim(cleaned, "._")
	if cleaned == "" {
		return "", apierror.Validation("filename is invalid after sanitization", "avatar")
	}

	// Truncate by runes (not bytes) to avoid splitting multi-byte characters.
	if runes := []rune(cleaned); len(runes) > maxFilenameRunes {
		cleaned = string(runes[:maxFilenameRunes])
	}
	return cleaned, nil
}

// CleanText trims s and drops control and zero-width characters, keeping line
// breaks and tabs. The result is cut to maxRunes when maxRunes > 0.
func CleanText(s string, maxRunes int) string {
	cleaned := strings.TrimSpace(stripInvisible(s, true))
	if maxRunes > 0 {
		if runes := []rune(cleaned); len(runes) > maxRunes {
			cleaned = strings.TrimSpace(string(runes[:maxRunes]))
		}
	}
	return cleaned
}

func stripInvisible(s string, keepNewlines bool) string {
	var builder strings.Builder
	builder.Grow(len(s))

	for _, char := range s {
		if keepNewlines && (char == '\n' || char == '\t') {
			builder.WriteRune(char)
			continue
		}
		if char == '\r' && keepNewlines {
			continue
		}
		if unicode.IsControl(char) || isInvisibleUnicode(char) {
			continue
		}
		builder.WriteRune(char)
	}
	return builder.String()
}

// isInvisibleUnicode returns true for zero-width, formatting, and other
// invisible Unicode characters.
func isInvisibleUnicode(r rune) bool {
	switch r {
	case
		'\u200B', // Zero-Width Space
		'\u200C', // Zero-Width Non-Joiner
		'\u200D', // Zero-Width Joiner
		'\u2060', // Word Joiner
		'\uFEFF': // Zero-Width No-Break Space / BOM
		return true
	}

	return unicode.Is(unicode.Cf, r)
}
