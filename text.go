package wikiscrape

import (
	"strings"
	"unicode"
)

// DefaultMaxLength is the summary length used when none is configured.
const DefaultMaxLength = 500

// Ellipsis marks a truncated summary.
const Ellipsis = "..."

// Clean normalizes a plain-text summary. Whitespace runs, newlines included,
// collapse to a single space and the ends are trimmed; then every rune other
// than ASCII letters, digits, space and . , ! ? ' " is removed.
// The result may be empty.
func Clean(text string) (string, error) {
	if text == "" {
		return "", Errorf(EINVALID, "text to clean must not be empty")
	}

	collapsed := strings.Join(strings.Fields(text), " ")

	return strings.Map(func(r rune) rune {
		if isAllowed(r) {
			return r
		}
		return -1
	}, collapsed), nil
}

func isAllowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '.', ',', '!', '?', '\'', '"', ' ':
		return true
	}
	return false
}

// Truncate shortens text to at most maxLength runes. A shortened text has
// its trailing whitespace trimmed and Ellipsis appended; text that already
// fits is returned unchanged.
func Truncate(text string, maxLength int) string {
	if maxLength < 0 {
		maxLength = 0
	}
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimRightFunc(string(runes[:maxLength]), unicode.IsSpace) + Ellipsis
}

// TruncateAll applies Truncate to each line, preserving order.
func TruncateAll(lines []string, maxLength int) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		out[i] = Truncate(line, maxLength)
	}
	return out
}
