package parsers

import (
	"regexp"
	"strings"
	"unicode"
)

// minTokenLen mirrors the usual bag-of-words tokenizer that drops one-rune tokens.
const minTokenLen = 2

var orderIDPattern = regexp.MustCompile(`(?i)ORD\d+`)

// Normalize lowercases text, drops every rune that is neither a letter, a
// digit nor whitespace, and trims the result. Normalize(Normalize(s)) == Normalize(s).
func Normalize(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// Tokenize splits normalized text into word tokens of at least two runes.
func Tokenize(normalized string) []string {
	fields := strings.FieldsFunc(normalized, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) >= minTokenLen {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// ExtractOrderID returns the first "ORD<digits>" identifier in text, upper-cased.
func ExtractOrderID(text string) (string, bool) {
	m := orderIDPattern.FindString(text)
	if m == "" {
		return "", false
	}
	return strings.ToUpper(m), true
}
