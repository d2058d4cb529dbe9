package agent

import (
	"strings"
	"unicode"

	"github.com/fatih/camelcase"
)

// KebabCase converts an identifier such as "CodeReviewer", "Foo_Bar" or
// "api Helper" into kebab-case. Digit runs stay attached to the preceding
// word. It returns "" when name has no letters or digits.
func KebabCase(name string) string {
	var words []string
	for _, chunk := range camelcase.Split(name) {
		if !isAlnum(chunk) {
			continue
		}
		lower := strings.ToLower(chunk)
		if isDigits(lower) && len(words) > 0 {
			words[len(words)-1] += lower
			continue
		}
		words = append(words, lower)
	}
	return strings.Join(words, "-")
}

func isAlnum(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}
