package engine

import (
	"strings"
	"unicode"
)

// Tokenize lowercases s and splits it on anything that is not a letter or digit.
// It mirrors what a standard analyzer does closely enough for phrase checks.
func Tokenize(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// ContainsPhrase reports whether the token sequence of phrase occurs in text.
func ContainsPhrase(text, phrase string) bool {
	want := Tokenize(phrase)
	if len(want) == 0 {
		return false
	}

	have := Tokenize(text)
	for i := 0; i+len(want) <= len(have); i++ {
		match := true
		for j := range want {
			if have[i+j] != want[j] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}

	return false
}

// WildcardMatch reports whether s matches pattern with * and ? metacharacters.
func WildcardMatch(pattern, s string) bool {
	p, r := []rune(pattern), []rune(s)
	star, mark := -1, 0
	i, j := 0, 0

	for j < len(r) {
		switch {
		case i < len(p) && (p[i] == '?' || p[i] == r[j]):
			i++
			j++
		case i < len(p) && p[i] == '*':
			star, mark = i, j
			i++
		case star >= 0:
			i = star + 1
			mark++
			j = mark
		default:
			return false
		}
	}

	for i < len(p) && p[i] == '*' {
		i++
	}

	return i == len(p)
}
