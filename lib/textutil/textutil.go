package textutil

import (
	"regexp"
	"strings"
)

var whitespaceRegex = regexp.MustCompile(`\s+`)

func NormalizeName(name string) string {
	name = strings.ToLower(name)
	name = strings.Trim(name, " \n\t")
	name = whitespaceRegex.ReplaceAllString(name, "")
	return name
}

// MatchName reports whether any matcher occurs in the input once both
// sides are normalized, so "Youth Worker" matches "youth workers needed".
func MatchName(name string, matchers []string) bool {
	name = NormalizeName(name)
	for _, m := range matchers {
		if strings.Contains(name, NormalizeName(m)) {
			return true
		}
	}
	return false
}

// CountMatches returns how many of the matchers occur in the normalized
// input. each matcher counts at most once no matter how often it repeats.
func CountMatches(input string, matchers []string) int {
	input = NormalizeName(input)
	count := 0
	for _, m := range matchers {
		if strings.Contains(input, NormalizeName(m)) {
			count++
		}
	}
	return count
}
