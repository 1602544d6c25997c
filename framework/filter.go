package framework

import (
	"fmt"
	"io"
	"regexp"
	"strings"
)

// Filter is a function that can determine whether to run a specific test or not.
type Filter func(TestID) bool

// RegexFilters selects tests with -run/-skip style patterns. A pattern is split on "/"
// and applied element-wise to the test ID path, in the manner of go test -run: a parent
// scope runs when its segments match the leading pattern elements, so a pattern naming
// one leaf test still lets the groups above it execute.
type RegexFilters struct {
	MustMatch    RegexList
	MustNotMatch RegexList
}

func (r RegexFilters) AsFilter(id TestID) bool {
	return (!r.MustMatch.IsDefined() || r.MustMatch.CouldMatch(id.Path)) &&
		!r.MustNotMatch.Excludes(id.Path)
}

type RegexList struct {
	patterns []pathPattern
}

type pathPattern struct {
	raw      string
	elements []*regexp.Regexp
}

func (r RegexList) String() string {
	var ss []string
	for _, p := range r.patterns {
		ss = append(ss, `"`+p.raw+`"`)
	}
	return strings.Join(ss, " or ")
}

// Set is called by the command line parser
func (r *RegexList) Set(value string) error {
	p := pathPattern{raw: value}
	for _, element := range strings.Split(value, "/") {
		rx, err := regexp.Compile(element)
		if err != nil {
			return fmt.Errorf("invalid regex: %w", err)
		}
		p.elements = append(p.elements, rx)
	}
	r.patterns = append(r.patterns, p)
	return nil
}

func (r RegexList) IsDefined() bool {
	return len(r.patterns) != 0
}

// CouldMatch reports whether running the test or scope identified by path could lead to
// a test selected by one of the patterns. Every pattern element up to the shorter of the
// two lengths must match its path segment, so a scope above a selected test matches too.
func (r RegexList) CouldMatch(path []string) bool {
	for _, p := range r.patterns {
		if p.matchesLeading(path) {
			return true
		}
	}
	return false
}

// Excludes reports whether path is fully matched by one of the patterns. A pattern that
// is deeper than the path does not exclude the scopes above the tests it names.
func (r RegexList) Excludes(path []string) bool {
	for _, p := range r.patterns {
		if len(p.elements) <= len(path) && p.matchesLeading(path) {
			return true
		}
	}
	return false
}

func (p pathPattern) matchesLeading(path []string) bool {
	n := len(p.elements)
	if len(path) < n {
		n = len(path)
	}
	for i := 0; i < n; i++ {
		if !p.elements[i].MatchString(path[i]) {
			return false
		}
	}
	return true
}

func PrintFilterDescription(dest io.Writer, filters RegexFilters) {
	if !filters.MustMatch.IsDefined() && !filters.MustNotMatch.IsDefined() {
		return
	}
	fmt.Fprintln(dest, "Some tests will be skipped based on the filter criteria for this test run:")
	if filters.MustMatch.IsDefined() {
		fmt.Fprintf(dest, "  skip any not matching %s\n", filters.MustMatch)
	}
	if filters.MustNotMatch.IsDefined() {
		fmt.Fprintf(dest, "  skip any matching %s\n", filters.MustNotMatch)
	}
	fmt.Fprintln(dest)
}
