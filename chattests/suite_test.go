package chattests

import (
	"io"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/framework"
	"github.com/llmharness/chatapi-contract-tests/mockchat"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const suiteTestKey = "suite-test-key"
const suiteTestModel = "gpt-4o-mini"

func startSuite(t *testing.T, opts mockchat.Options, authToken string) framework.Results {
	t.Helper()
	if opts.APIKey == "" {
		opts.APIKey = suiteTestKey
	}
	server := httptest.NewServer(mockchat.NewHandler(opts, zap.NewNop()))
	t.Cleanup(server.Close)

	c := client.NewServiceClient(server.URL, authToken, time.Second*5, nil)
	require.NoError(t, c.WaitForService(time.Second*5, io.Discard))
	return RunTestSuite(c, suiteTestModel, nil, nil)
}

func TestSuitePassesAgainstMockService(t *testing.T) {
	results := startSuite(t, mockchat.Options{}, suiteTestKey)

	assert.True(t, results.OK(), "failures: %+v", results.Failures)
	summary := framework.Summarize(results)
	assert.True(t, summary.AllPassed())
	assert.Greater(t, summary.TotalTests, 5)
	assert.Equal(t, summary.TotalTests, summary.PassedTests)
}

func TestSuiteFailsWhenCredentialsAreWrong(t *testing.T) {
	results := startSuite(t, mockchat.Options{}, "wrong-key")

	assert.False(t, results.OK())
	summary := framework.Summarize(results)
	assert.False(t, summary.AllPassed())
	assert.Less(t, summary.PassedTests, summary.TotalTests)
}

func TestSuiteSkipsMessagesTestsWhenEndpointIsAbsent(t *testing.T) {
	results := startSuite(t, mockchat.Options{OmitMessagesEndpoint: true}, suiteTestKey)

	assert.True(t, results.OK(), "failures: %+v", results.Failures)
	for _, r := range results.Tests {
		assert.False(t, strings.HasPrefix(r.TestID.String(), "messages endpoint/"),
			"messages test should have been skipped: %s", r.TestID)
	}
}

func TestSuiteRespectsFilter(t *testing.T) {
	server := httptest.NewServer(mockchat.NewHandler(mockchat.Options{APIKey: suiteTestKey}, zap.NewNop()))
	t.Cleanup(server.Close)

	c := client.NewServiceClient(server.URL, suiteTestKey, time.Second*5, nil)
	require.NoError(t, c.WaitForService(time.Second*5, io.Discard))

	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set("^authentication"))
	results := RunTestSuite(c, suiteTestModel, filters.AsFilter, nil)

	require.NotEmpty(t, results.Tests)
	for _, r := range results.Tests {
		assert.True(t, strings.HasPrefix(r.TestID.String(), "authentication"),
			"unexpected test ran: %s", r.TestID)
	}
}

func TestFilterBuiltFromAFailureRerunsThatTest(t *testing.T) {
	server := httptest.NewServer(mockchat.NewHandler(mockchat.Options{APIKey: suiteTestKey}, zap.NewNop()))
	t.Cleanup(server.Close)

	c := client.NewServiceClient(server.URL, "wrong-key", time.Second*5, nil)
	require.NoError(t, c.WaitForService(time.Second*5, io.Discard))

	results := RunTestSuite(c, suiteTestModel, nil, nil)
	require.NotEmpty(t, results.Failures)

	failed := results.Failures[0].TestID
	elements := make([]string, 0, len(failed.Path))
	for _, segment := range failed.Path {
		elements = append(elements, "^"+regexp.QuoteMeta(segment)+"$")
	}
	var filters framework.RegexFilters
	require.NoError(t, filters.MustMatch.Set(strings.Join(elements, "/")))

	rerun := RunTestSuite(c, suiteTestModel, filters.AsFilter, nil)
	executed := false
	for _, r := range rerun.Tests {
		if r.TestID.String() == failed.String() {
			executed = true
		}
	}
	assert.True(t, executed, "test %s was filtered out of its own re-run", failed)
}
