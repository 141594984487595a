package model

import (
	"regexp"
	"strings"
	"unicode"
)

var labelSeparators = regexp.MustCompile(`[_\-.\s]+`)

// DefaultLabel derives a display label from a field or page identifier,
// splitting on separators and camelCase boundaries: "firstName" becomes
// "First Name".
func DefaultLabel(id string) string {
	id = strings.TrimSpace(id)
	if id == "" {
		return ""
	}
	var words []string
	for _, chunk := range labelSeparators.Split(id, -1) {
		for _, word := range splitCamel(chunk) {
			words = append(words, capitalize(word))
		}
	}
	return strings.Join(words, " ")
}

func splitCamel(input string) []string {
	if input == "" {
		return nil
	}
	runes := []rune(input)
	var (
		out   []string
		start int
	)
	for i := 1; i < len(runes); i++ {
		prev, cur := runes[i-1], runes[i]
		boundary := (unicode.IsLower(prev) && unicode.IsUpper(cur)) ||
			(unicode.IsLetter(prev) && unicode.IsDigit(cur)) ||
			(unicode.IsDigit(prev) && unicode.IsLetter(cur))
		if boundary {
			out = append(out, string(runes[start:i]))
			start = i
		}
	}
	return append(out, string(runes[start:]))
}

func capitalize(word string) string {
	if word == "" {
		return ""
	}
	runes := []rune(strings.ToLower(word))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
