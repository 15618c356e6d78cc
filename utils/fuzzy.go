package utils

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
)

// Smash replaces everything but letters and digits with '_'.
func Smash(in string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return '_'
	}, in)
}

func folded(s string) string { return Smash(strings.ToUpper(s)) }

// Name matchers, strictest first.
var fuzzy = []func(input, candidate string) bool{
	func(i, c string) bool { return i == c },
	strings.EqualFold,
	func(i, c string) bool { return folded(i) == folded(c) },
	func(i, c string) bool { return strings.HasPrefix(folded(c), folded(i)) },
	func(i, c string) bool { return strings.Contains(folded(c), folded(i)) },
}

// Fuzzy_match picks the one candidate matching input at the least desperate level.
// what is the kind of thing being matched, for the error message.
func Fuzzy_match(candidates []string, input string, what string) (string, error) {
	for _, match := range fuzzy {
		matches := []string{}
		for _, c := range candidates {
			if match(input, c) {
				matches = append(matches, c)
			}
		}
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 1 {
			sort.Strings(matches)
			return "", fmt.Errorf("ambiguous argument: %v could be anything from {%v}", input, strings.Join(matches, ", "))
		}
		return matches[0], nil
	}

	return "", errors.New(input + " could not be matched to a valid " + what)
}
