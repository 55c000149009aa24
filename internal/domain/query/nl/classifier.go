// Package nl translates a small set of recognized natural-language phrasings
// into structured filter specifications.
package nl

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/kailas-cloud/textdex/internal/domain/query/filter"
)

// ErrNoRuleMatched signals that no classification rule recognized the query.
var ErrNoRuleMatched = errors.New("no classification rule matched")

// Classification is the outcome of a recognized query.
type Classification struct {
	Spec filter.Spec
	Rule string
}

// rule pairs a match predicate with a filter template. Both receive the
// original query and its lower-cased form; matching is case-insensitive.
type rule struct {
	name    string
	matches func(original, lower string) bool
	build   func(original, lower string) (filter.Spec, error)
}

var longerThanRe = regexp.MustCompile(`longer than\s+(\d+)`)

// rules is an ordered table: the first matching rule wins. Rules are not
// mutually exclusive, so order is the deliberate tie-break (rule 1 before
// rule 4, for example, or "single word palindromic" would classify as a bare
// palindrome query). New phrasings are added by appending rules.
var rules = []rule{
	{
		name: "single_word_palindrome",
		matches: func(_, lower string) bool {
			return strings.Contains(lower, "single word") && strings.Contains(lower, "palindromic")
		},
		build: func(_, _ string) (filter.Spec, error) {
			return filter.NewSpec(boolPtr(true), nil, nil, intPtr(1), "")
		},
	},
	{
		name: "longer_than",
		matches: func(_, lower string) bool {
			return longerThanRe.MatchString(lower)
		},
		build: func(_, lower string) (filter.Spec, error) {
			m := longerThanRe.FindStringSubmatch(lower)
			n, err := strconv.Atoi(m[1])
			if err != nil {
				return filter.Spec{}, fmt.Errorf("parse bound %q: %w", m[1], err)
			}
			// "longer than N" is strict, expressed as an inclusive minimum of N+1.
			return filter.NewSpec(nil, intPtr(n+1), nil, nil, "")
		},
	},
	{
		// The matched character is the first lower-case letter of the query
		// text itself, not a token the user named. A query like "strings
		// containing the letter z" therefore filters on 's'. Known limitation,
		// kept deliberately: changing it changes observable query results.
		name: "contains_letter",
		matches: func(original, lower string) bool {
			if !strings.Contains(lower, "contain") || !strings.Contains(lower, "letter") {
				return false
			}
			_, ok := firstLowerLetter(original)
			return ok
		},
		build: func(original, _ string) (filter.Spec, error) {
			ch, _ := firstLowerLetter(original)
			return filter.NewSpec(nil, nil, nil, nil, string(ch))
		},
	},
	{
		name: "palindrome",
		matches: func(_, lower string) bool {
			return strings.Contains(lower, "palindromic")
		},
		build: func(_, _ string) (filter.Spec, error) {
			return filter.NewSpec(boolPtr(true), nil, nil, nil, "")
		},
	},
}

// Classify resolves query against the rule table. On failure the caller must
// surface an explicit "not understood" outcome, never fall back to all records.
func Classify(query string) (Classification, error) {
	lower := strings.ToLower(query)
	for _, r := range rules {
		if !r.matches(query, lower) {
			continue
		}
		spec, err := r.build(query, lower)
		if err != nil {
			return Classification{}, fmt.Errorf("rule %s: %w", r.name, err)
		}
		return Classification{Spec: spec, Rule: r.name}, nil
	}
	return Classification{}, ErrNoRuleMatched
}

// firstLowerLetter scans the original query for the first rune in [a-z].
func firstLowerLetter(s string) (rune, bool) {
	for _, r := range s {
		if r >= 'a' && r <= 'z' {
			return r, true
		}
	}
	return 0, false
}

func boolPtr(b bool) *bool { return &b }

func intPtr(n int) *int { return &n }
