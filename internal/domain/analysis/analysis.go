// Package analysis computes derived properties of raw string values.
package analysis

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/kailas-cloud/textdex/internal/domain/identity"
)

// Properties is the full set of derived properties for one value.
// Analysis is deterministic, so properties are computed once and never refreshed.
type Properties struct {
	Length             int
	IsPalindrome       bool
	UniqueCharacters   int
	WordCount          int
	SHA256Hash         string
	CharacterFrequency map[string]int
}

// Analyze computes all derived properties of text. Total and pure: identical
// input yields identical output on every call.
func Analyze(text string) Properties {
	return Properties{
		Length:             utf8.RuneCountInString(text),
		IsPalindrome:       isPalindrome(text),
		UniqueCharacters:   uniqueCharacters(text),
		WordCount:          len(strings.Fields(text)),
		SHA256Hash:         identity.Digest(text),
		CharacterFrequency: characterFrequency(text),
	}
}

// isPalindrome lower-cases the text, strips every rune outside [a-z0-9] and
// compares the result to its reverse. Empty-after-strip reads as palindromic.
func isPalindrome(text string) bool {
	var norm []rune
	for _, r := range strings.ToLower(text) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			norm = append(norm, r)
		}
	}
	for i, j := 0, len(norm)-1; i < j; i, j = i+1, j-1 {
		if norm[i] != norm[j] {
			return false
		}
	}
	return true
}

func uniqueCharacters(text string) int {
	seen := make(map[rune]struct{})
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		seen[r] = struct{}{}
	}
	return len(seen)
}

// characterFrequency counts lower-cased runes. Only the literal space character
// is skipped; other whitespace (tabs, newlines) is counted.
func characterFrequency(text string) map[string]int {
	freq := make(map[string]int)
	for _, r := range strings.ToLower(text) {
		if r == ' ' {
			continue
		}
		freq[string(r)]++
	}
	return freq
}
