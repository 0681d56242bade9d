// Package text cleans extracted PDF text before chunking and querying.
//
// The same Normalise function is applied to document text at ingestion time
// and to questions at query time, so both sides see identical input.
package text

import (
	"regexp"
	"strings"
)

var (
	pageNumberPattern = regexp.MustCompile(`\bPage\s+\d+\b`)
	pageOfPattern     = regexp.MustCompile(`\b\d+\s+of\s+\d+\b`)
	urlPattern        = regexp.MustCompile(`http\S+`)
	emailPattern      = regexp.MustCompile(`\S+@\S+`)
	dotRunPattern     = regexp.MustCompile(`\.{2,}`)
	hyphenRunPattern  = regexp.MustCompile(`-{2,}`)
	whitespacePattern = regexp.MustCompile(`[\s\v\p{Z}\x{85}]+`)
)

// Normalise strips page furniture (page numbers, "N of M" footers), URLs,
// email addresses and repeated dots or hyphens, then collapses whitespace
// and trims the result.
//
// Normalise is idempotent. A removal can expose a new match (for example
// "Page Page 3 3"), so the rules are reapplied until the text stops changing.
func Normalise(s string) string {
	for {
		next := clean(s)
		if next == s {
			return next
		}
		s = next
	}
}

func clean(s string) string {
	if s == "" {
		return ""
	}
	s = pageNumberPattern.ReplaceAllString(s, "")
	s = pageOfPattern.ReplaceAllString(s, "")
	s = urlPattern.ReplaceAllString(s, "")
	s = emailPattern.ReplaceAllString(s, "")
	s = dotRunPattern.ReplaceAllString(s, ".")
	s = hyphenRunPattern.ReplaceAllString(s, "-")
	s = whitespacePattern.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// WordCount returns the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// CollapseWhitespace replaces whitespace runs with a single space and trims
// the ends, leaving everything else untouched.
func CollapseWhitespace(s string) string {
	return strings.TrimSpace(whitespacePattern.ReplaceAllString(s, " "))
}
