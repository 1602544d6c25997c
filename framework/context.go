package framework

import (
	"errors"
	"fmt"
	"runtime/debug"
	"time"
)

type environment struct {
	results    Results
	testLogger TestLogger
	filter     Filter
}

// Context represents one test (or the root scope of a test run) while it is executing.
// It implements the minimal TestingT-style contract (Errorf, FailNow) so that assertion
// libraries can be used against it.
type Context struct {
	env           *environment
	id            TestID
	debugLogger   CapturingLogger
	expectFailure bool
	failed        bool
	skipped       bool
	skipReason    string
	errors        []error
}

// Run executes a test run. The action receives the root Context, on which it should call
// Context.Run for each top-level test. The returned Results contain one entry per executed
// test, in execution order.
func Run(
	filter Filter,
	testLogger TestLogger,
	action func(*Context),
) Results {
	if testLogger == nil {
		testLogger = nullTestLogger{}
	}
	env := &environment{
		filter:     filter,
		testLogger: testLogger,
	}
	c := &Context{env: env}
	c.run(action)
	return env.results
}

func (c *Context) run(action func(*Context)) {
	startTime := time.Now()

	defer func() {
		if r := recover(); r != nil {
			if c.skipped {
				return
			}
			c.failed = true
			var addError error
			if _, ok := r.(*Context); ok {
				// FailNow was called; any failure messages were already recorded by Errorf
				if len(c.errors) == 0 {
					addError = errors.New("test failed with no failure message")
				}
			} else {
				addError = fmt.Errorf("unexpected panic in test: %+v\n%s", r, string(debug.Stack()))
			}
			if addError != nil {
				c.errors = append(c.errors, addError)
				c.env.testLogger.TestError(c.id, addError)
			}
		}
		if len(c.id.Path) == 0 {
			// the root scope is not itself a test
			return
		}
		c.env.results.record(c.classify(time.Since(startTime)))
	}()

	action(c)
}

// classify turns the raw success/failure state into the recorded outcome, inverting it
// when the test was declared with RunExpectingFailure.
func (c *Context) classify(elapsed time.Duration) TestResult {
	result := TestResult{TestID: c.id, Duration: elapsed}
	switch {
	case c.expectFailure && c.failed:
		result.Note = "failed as expected: " + c.errors[0].Error()
	case c.expectFailure && !c.failed:
		result.Failed = true
		err := errors.New("expected a failure but the test succeeded")
		result.Errors = []error{err}
		c.env.testLogger.TestError(c.id, err)
	default:
		result.Failed = c.failed
		result.Errors = c.errors
	}
	return result
}

func (c *Context) ID() TestID {
	return c.id
}

// Run runs a subtest under this context. This is equivalent to the Run method of testing.T.
func (c *Context) Run(name string, action func(*Context)) {
	c.runChild(name, false, action)
}

// RunExpectingFailure runs a subtest whose pass/fail interpretation is inverted: the test
// passes only if at least one assertion fails (or FailNow is called) inside it. It is used
// for negative-path tests where an error from the service is the correct behavior.
func (c *Context) RunExpectingFailure(name string, action func(*Context)) {
	c.runChild(name, true, action)
}

func (c *Context) runChild(name string, expectFailure bool, action func(*Context)) {
	id := c.id.Child(name)

	c.env.testLogger.TestStarted(id)
	if c.env.filter != nil && !c.env.filter(id) {
		c.env.testLogger.TestSkipped(id, "excluded by filter parameters")
		return
	}
	c1 := &Context{
		id:            id,
		env:           c.env,
		expectFailure: expectFailure,
	}
	c1.run(action)
	if c1.skipped {
		c.env.testLogger.TestSkipped(id, c1.skipReason)
	} else {
		last := c.env.results.Tests[len(c.env.results.Tests)-1]
		c.env.testLogger.TestFinished(id, last, c1.debugLogger.Output())
	}
}

// Errorf records a test failure. It does not cause an immediate exit; assertions from the
// assert package call this.
func (c *Context) Errorf(format string, args ...interface{}) {
	c.failed = true
	err := fmt.Errorf(format, args...)
	c.errors = append(c.errors, err)
	c.env.testLogger.TestError(c.id, err)
}

// FailNow marks the test as failed and immediately exits it. Assertions from the require
// package call this.
func (c *Context) FailNow() {
	panic(c)
}

func (c *Context) Skip() {
	c.skipped = true
	panic(c)
}

func (c *Context) SkipWithReason(reason string) {
	c.skipReason = reason
	c.Skip()
}

// Debug logs debug output for the test. The output is held in memory and passed to the
// test logger when the test finishes.
func (c *Context) Debug(message string, args ...interface{}) {
	c.debugLogger.Printf(message, args...)
}

func (c *Context) DebugLogger() Logger {
	return &c.debugLogger
}
