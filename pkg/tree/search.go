package tree

import (
	"regexp"
	"strings"
)

// Matcher decides whether a node label matches a search query.
type Matcher interface {
	Match(name string) bool
	Query() string
}

// CompilePattern turns a user query into a case-insensitive, unanchored
// matcher. '*' matches any run of characters (including none); every other
// regex metacharacter is taken literally. If the pattern cannot be compiled
// the matcher falls back to case-insensitive substring matching of the raw
// query.
func CompilePattern(query string) Matcher {
	parts := strings.Split(query, "*")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	re, err := regexp.Compile("(?i)" + strings.Join(parts, ".*"))
	if err != nil {
		return LiteralMatcher(query)
	}
	return regexMatcher{query: query, re: re}
}

type regexMatcher struct {
	query string
	re    *regexp.Regexp
}

func (m regexMatcher) Match(name string) bool { return m.re.MatchString(name) }
func (m regexMatcher) Query() string          { return m.query }

type literalMatcher struct {
	query string
	lower string
}

func (m literalMatcher) Match(name string) bool {
	return strings.Contains(strings.ToLower(name), m.lower)
}

func (m literalMatcher) Query() string { return m.query }

// LiteralMatcher returns the substring matcher CompilePattern falls back to.
func LiteralMatcher(query string) Matcher {
	return literalMatcher{query: query, lower: strings.ToLower(query)}
}
