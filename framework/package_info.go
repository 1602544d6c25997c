// Package framework contains the low-level implementation of test harness infrastructure
// that can be reused for different kinds of API contract tests.
//
// The general model is:
//
// 1. There is a notion of a test context which is similar to Go's *testing.T, allowing
// pieces of test logic to be associated with a test identifier, to run subtests, and to
// accumulate success/failure results. A test can also be declared as one that is expected
// to fail, for exercising an API's error paths.
//
// 2. Every executed test produces exactly one immutable TestResult, collected in execution
// order. After the run, a RunSummary is computed from the collected results and drives the
// process exit status.
//
// The domain-specific code that knows what is being tested is responsible for providing
// the HTTP requests to send to the service under test, the assertions on the responses,
// and a domain-specific test API on top of the test context.
package framework
