package chattests

import (
	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/framework"
	"github.com/llmharness/chatapi-contract-tests/servicedef"

	"github.com/stretchr/testify/require"
)

const chatCompletionsPath = "/v1/chat/completions"
const messagesPath = "/v1/messages"

type environment struct {
	client *client.ServiceClient
	model  string
}

// T represents a test or subtest in the chat API test suite.
//
// It implements the same basic functionality as Go's testing.T, but in an environment that
// is outside of the Go test runner, and with some extra features such as captured debug
// logging that are convenient for our use case. Those features are provided by our
// lower-level framework package.
//
// It also provides functionality that is specific to chat API testing: helpers for sending
// authenticated requests to the service under test and building default request payloads.
//
// To make test assertions, you can use the assert and require packages, passing the *T as
// if it were a *testing.T.
type T struct {
	context *framework.Context
	env     *environment
}

// Errorf is called by assertions to log a test failure. It does not cause an immediate exit.
func (t *T) Errorf(format string, args ...interface{}) {
	t.context.Errorf(format, args...)
}

// FailNow is called by assertions when a test should fail and immediately exit. The methods
// in the require package call FailNow.
func (t *T) FailNow() {
	t.context.FailNow()
}

// Run runs a subtest. This is equivalent to the Run method of testing.T.
func (t *T) Run(name string, action func(*T)) {
	t.context.Run(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

// RunExpectingFailure runs a subtest that passes only if it fails: an error from the
// service is the behavior under test. See framework.Context.RunExpectingFailure.
func (t *T) RunExpectingFailure(name string, action func(*T)) {
	t.context.RunExpectingFailure(name, func(c *framework.Context) {
		action(&T{context: c, env: t.env})
	})
}

// Debug logs some debug output for the test. The output will be passed to the test logger
// at the end of the test.
func (t *T) Debug(format string, args ...interface{}) {
	t.context.Debug(format, args...)
}

func (t *T) SkipWithReason(reason string) {
	t.context.SkipWithReason(reason)
}

// RequireMessagesEndpoint skips this test if the service does not implement
// POST /v1/messages.
func (t *T) RequireMessagesEndpoint() {
	if !t.env.client.HasMessagesEndpoint() {
		t.context.SkipWithReason("service does not implement the messages endpoint")
	}
}

// Model returns the model ID the suite was configured to test against.
func (t *T) Model() string {
	return t.env.model
}

// Post sends a request with the lenient client: any response status resolves, and only a
// transport-level failure fails the test.
func (t *T) Post(spec client.RequestSpec) client.Response {
	resp, err := t.env.client.Post(spec, t.context.DebugLogger())
	require.NoError(t, err)
	return resp
}

// PostStrict sends a request with the strict client: any status >= 400 fails the test with
// an error describing the status and body.
func (t *T) PostStrict(spec client.RequestSpec) client.Response {
	resp, err := t.env.client.PostStrict(spec, t.context.DebugLogger())
	require.NoError(t, err)
	return resp
}

// DefaultChatParams returns a minimal valid chat completion request for the configured model.
func (t *T) DefaultChatParams() servicedef.ChatCompletionParams {
	return servicedef.ChatCompletionParams{
		Model: t.env.model,
		Messages: []servicedef.ChatMessage{
			{Role: servicedef.RoleUser, Content: "Say hello in one short sentence."},
		},
	}
}

// DefaultMessagesParams returns a minimal valid request for the messages endpoint.
func (t *T) DefaultMessagesParams() servicedef.MessagesParams {
	return servicedef.MessagesParams{
		Model: t.env.model,
		Messages: []servicedef.ChatMessage{
			{Role: servicedef.RoleUser, Content: "Say hello in one short sentence."},
		},
		MaxTokens: 64,
	}
}
