// Package filter defines the structured filter specification and its evaluator.
package filter

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/kailas-cloud/textdex/internal/domain"
	"github.com/kailas-cloud/textdex/internal/domain/record"
)

// Raw holds unparsed filter tokens as received from the transport layer.
// A nil field means the filter was not supplied.
type Raw struct {
	IsPalindrome      *string
	MinLength         *string
	MaxLength         *string
	WordCount         *string
	ContainsCharacter *string
}

// Spec is a validated set of optional predicates combined conjunctively.
// Ephemeral: constructed per query, never persisted.
type Spec struct {
	isPalindrome      *bool
	minLength         *int
	maxLength         *int
	wordCount         *int
	containsCharacter string // lower-cased single rune; empty means unset
}

// NewSpec validates and creates a Spec. Nil pointers leave a predicate unset.
// containsCharacter must normalize to exactly one character when non-empty.
func NewSpec(isPalindrome *bool, minLength, maxLength, wordCount *int, containsCharacter string) (Spec, error) {
	if minLength != nil && *minLength < 0 {
		return Spec{}, domain.NewValidation("min_length", "must be a non-negative integer, got %d", *minLength)
	}
	if maxLength != nil && *maxLength < 0 {
		return Spec{}, domain.NewValidation("max_length", "must be a non-negative integer, got %d", *maxLength)
	}
	if wordCount != nil && *wordCount < 0 {
		return Spec{}, domain.NewValidation("word_count", "must be a non-negative integer, got %d", *wordCount)
	}
	ch := strings.ToLower(containsCharacter)
	if ch != "" && utf8.RuneCountInString(ch) != 1 {
		return Spec{}, domain.NewValidation("contains_character", "must be exactly one character, got %q", containsCharacter)
	}
	return Spec{
		isPalindrome:      isPalindrome,
		minLength:         minLength,
		maxLength:         maxLength,
		wordCount:         wordCount,
		containsCharacter: ch,
	}, nil
}

// Parse validates raw filter tokens field by field. The first invalid token
// fails the whole parse: an invalid filter never degrades to "no filter".
func Parse(raw Raw) (Spec, error) {
	var isPalindrome *bool
	if raw.IsPalindrome != nil {
		switch *raw.IsPalindrome {
		case "true":
			v := true
			isPalindrome = &v
		case "false":
			v := false
			isPalindrome = &v
		default:
			return Spec{}, domain.NewValidation("is_palindrome", "must be %q or %q, got %q", "true", "false", *raw.IsPalindrome)
		}
	}

	minLength, err := parseCount("min_length", raw.MinLength)
	if err != nil {
		return Spec{}, err
	}
	maxLength, err := parseCount("max_length", raw.MaxLength)
	if err != nil {
		return Spec{}, err
	}
	wordCount, err := parseCount("word_count", raw.WordCount)
	if err != nil {
		return Spec{}, err
	}

	var containsCharacter string
	if raw.ContainsCharacter != nil {
		if *raw.ContainsCharacter == "" {
			return Spec{}, domain.NewValidation("contains_character", "must be exactly one character, got %q", "")
		}
		containsCharacter = *raw.ContainsCharacter
	}

	return NewSpec(isPalindrome, minLength, maxLength, wordCount, containsCharacter)
}

func parseCount(field string, token *string) (*int, error) {
	if token == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*token)
	if err != nil || n < 0 {
		return nil, domain.NewValidation(field, "must be a non-negative integer, got %q", *token)
	}
	return &n, nil
}

// IsEmpty reports whether no predicate is populated.
func (s Spec) IsEmpty() bool {
	return s.isPalindrome == nil && s.minLength == nil && s.maxLength == nil &&
		s.wordCount == nil && s.containsCharacter == ""
}

// Matches reports whether rec satisfies every populated predicate.
func (s Spec) Matches(rec record.Record) bool {
	props := rec.Properties()
	if s.isPalindrome != nil && props.IsPalindrome != *s.isPalindrome {
		return false
	}
	if s.minLength != nil && props.Length < *s.minLength {
		return false
	}
	if s.maxLength != nil && props.Length > *s.maxLength {
		return false
	}
	if s.wordCount != nil && props.WordCount != *s.wordCount {
		return false
	}
	if s.containsCharacter != "" &&
		!strings.Contains(strings.ToLower(rec.Value()), s.containsCharacter) {
		return false
	}
	return true
}

// Apply narrows records to the subset matching spec. Pure; the result preserves
// the relative order of the input enumeration.
func Apply(records []record.Record, s Spec) []record.Record {
	matched := make([]record.Record, 0, len(records))
	for _, rec := range records {
		if s.Matches(rec) {
			matched = append(matched, rec)
		}
	}
	return matched
}

// Applied echoes the validated, normalized predicate values (parsed integers,
// the lower-cased character) keyed by field name — never the raw input tokens.
func (s Spec) Applied() map[string]any {
	applied := make(map[string]any)
	if s.isPalindrome != nil {
		applied["is_palindrome"] = *s.isPalindrome
	}
	if s.minLength != nil {
		applied["min_length"] = *s.minLength
	}
	if s.maxLength != nil {
		applied["max_length"] = *s.maxLength
	}
	if s.wordCount != nil {
		applied["word_count"] = *s.wordCount
	}
	if s.containsCharacter != "" {
		applied["contains_character"] = s.containsCharacter
	}
	return applied
}
