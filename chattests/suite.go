package chattests

import (
	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/framework"
)

// RunTestSuite runs all of the chat API contract tests against the service that the given
// client points at, returning one result per executed test.
func RunTestSuite(
	serviceClient *client.ServiceClient,
	model string,
	filter framework.Filter,
	testLogger framework.TestLogger,
) framework.Results {
	return framework.Run(filter, testLogger, func(c *framework.Context) {
		t := &T{
			context: c,
			env: &environment{
				client: serviceClient,
				model:  model,
			},
		}

		t.Run("chat completions", DoChatCompletionTests)
		t.Run("messages endpoint", DoMessagesEndpointTests)
		t.Run("authentication", DoAuthTests)
		t.Run("request validation", DoValidationTests)
	})
}
