package chattests

import (
	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoMessagesEndpointTests(t *T) {
	t.RequireMessagesEndpoint()

	t.Run("returns content blocks", func(t *T) {
		resp := t.PostStrict(client.RequestSpec{Path: messagesPath, Payload: t.DefaultMessagesParams()})

		assert.Equal(t, 200, resp.Status)
		content := resp.Body.GetByKey("content")
		require.Equal(t, ldvalue.ArrayType, content.Type(), "content should be an array, got: %s", resp.Raw)
		require.Greater(t, content.Count(), 0, "content should not be empty")
		assert.NotEmpty(t, content.GetByIndex(0).GetByKey("text").StringValue(),
			"first content block should have text")
	})

	t.Run("responds as the assistant", func(t *T) {
		resp := t.PostStrict(client.RequestSpec{Path: messagesPath, Payload: t.DefaultMessagesParams()})
		assert.Equal(t, servicedef.RoleAssistant, resp.Body.GetByKey("role").StringValue())
	})

	t.Run("reports token usage", func(t *T) {
		resp := t.PostStrict(client.RequestSpec{Path: messagesPath, Payload: t.DefaultMessagesParams()})

		usage := resp.Body.GetByKey("usage")
		if usage.IsNull() {
			t.SkipWithReason("service does not report usage")
		}
		assert.Greater(t, usage.GetByKey("input_tokens").IntValue(), 0)
		assert.Greater(t, usage.GetByKey("output_tokens").IntValue(), 0)
	})

	t.Run("accepts a system prompt", func(t *T) {
		params := t.DefaultMessagesParams()
		params.System = "You are a terse assistant."
		resp := t.PostStrict(client.RequestSpec{Path: messagesPath, Payload: params})
		assert.Equal(t, 200, resp.Status)
	})
}
