package framework

import (
	"strings"
	"time"
)

// TestID identifies a test or subtest as a path of names, like "authentication/missing key".
type TestID struct {
	Path []string
}

func (t TestID) String() string {
	return strings.Join(t.Path, "/")
}

// Child returns the TestID of a subtest under this one. The returned ID owns its own
// path slice, so appending to one ID can never clobber a sibling's.
func (t TestID) Child(name string) TestID {
	path := make([]string, 0, len(t.Path)+1)
	path = append(path, t.Path...)
	path = append(path, name)
	return TestID{Path: path}
}

// TestResult is the outcome of one executed test. It is created when the test finishes
// and is never modified afterward.
type TestResult struct {
	TestID   TestID
	Failed   bool
	Duration time.Duration
	Errors   []error

	// Note carries extra information about how the outcome was classified, such as the
	// original error text of a test that was expected to fail and did.
	Note string
}

func (r TestResult) Passed() bool {
	return !r.Failed
}

// Results accumulates one TestResult per executed test, in execution order. Filtered-out
// and skipped tests are not executed and do not appear here.
type Results struct {
	Tests    []TestResult
	Failures []TestResult
}

func (r Results) OK() bool {
	return len(r.Failures) == 0
}

func (r *Results) record(result TestResult) {
	r.Tests = append(r.Tests, result)
	if result.Failed {
		r.Failures = append(r.Failures, result)
	}
}
