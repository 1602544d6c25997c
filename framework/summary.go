package framework

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
)

// RunSummary is a read-only view of a finished test run. Computing it does not modify the
// underlying Results, so summarizing the same Results repeatedly yields identical values.
type RunSummary struct {
	TotalTests  int
	PassedTests int
	Results     Results
}

func Summarize(results Results) RunSummary {
	s := RunSummary{
		TotalTests: len(results.Tests),
		Results:    results,
	}
	for _, r := range results.Tests {
		if r.Passed() {
			s.PassedTests++
		}
	}
	return s
}

// SuccessRate returns the percentage of executed tests that passed, or 0 when no tests
// were executed.
func (s RunSummary) SuccessRate() float64 {
	if s.TotalTests == 0 {
		return 0
	}
	return float64(s.PassedTests) / float64(s.TotalTests) * 100
}

// AllPassed reports whether the run as a whole succeeded. A run in which no tests were
// executed is inconclusive and does not count as a success.
func (s RunSummary) AllPassed() bool {
	return s.TotalTests > 0 && s.PassedTests == s.TotalTests
}

func (s RunSummary) TotalDuration() time.Duration {
	var total time.Duration
	for _, r := range s.Results.Tests {
		total += r.Duration
	}
	return total
}

var (
	passColor = color.New(color.FgGreen)
	failColor = color.New(color.FgRed, color.Bold)
)

// PrintResults writes the final summary of a test run to dest.
func PrintResults(dest io.Writer, summary RunSummary) {
	if summary.TotalTests == 0 {
		failColor.Fprintln(dest, "No tests were executed")
		return
	}

	failures := summary.Results.Failures
	if len(failures) > 0 {
		failColor.Fprintf(dest, "Failed tests (%d):\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(dest, "  %s\n", f.TestID)
			for _, e := range f.Errors {
				fmt.Fprintf(dest, "    %s\n", e)
			}
		}
		fmt.Fprintln(dest)
	}

	line := fmt.Sprintf("%d of %d tests passed (%.0f%%) in %s",
		summary.PassedTests,
		summary.TotalTests,
		summary.SuccessRate(),
		summary.TotalDuration().Round(time.Millisecond),
	)
	if summary.AllPassed() {
		passColor.Fprintln(dest, line)
	} else {
		failColor.Fprintln(dest, line)
	}
}
