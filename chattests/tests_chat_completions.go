package chattests

import (
	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoChatCompletionTests(t *T) {
	t.Run("returns a completion", func(t *T) {
		resp := t.PostStrict(client.RequestSpec{Path: chatCompletionsPath, Payload: t.DefaultChatParams()})

		assert.Equal(t, 200, resp.Status)
		choices := resp.Body.GetByKey("choices")
		require.Equal(t, ldvalue.ArrayType, choices.Type(), "choices should be an array, got: %s", resp.Raw)
		require.Greater(t, choices.Count(), 0, "choices should not be empty")

		message := choices.GetByIndex(0).GetByKey("message")
		assert.Equal(t, servicedef.RoleAssistant, message.GetByKey("role").StringValue())
		assert.NotEmpty(t, message.GetByKey("content").StringValue(), "completion content should not be empty")
	})

	t.Run("reports token usage", func(t *T) {
		resp := t.PostStrict(client.RequestSpec{Path: chatCompletionsPath, Payload: t.DefaultChatParams()})

		usage := resp.Body.GetByKey("usage")
		if usage.IsNull() {
			t.SkipWithReason("service does not report usage")
		}
		assert.Greater(t, usage.GetByKey("input_tokens").IntValue(), 0)
		assert.Greater(t, usage.GetByKey("output_tokens").IntValue(), 0)
	})

	t.Run("accepts a large max_tokens", func(t *T) {
		params := t.DefaultChatParams()
		params.MaxTokens = ldvalue.NewOptionalInt(4096)
		resp := t.PostStrict(client.RequestSpec{Path: chatCompletionsPath, Payload: params})
		assert.Equal(t, 200, resp.Status)
	})

	t.Run("accepts multi-turn conversation history", func(t *T) {
		params := t.DefaultChatParams()
		params.Messages = []servicedef.ChatMessage{
			{Role: servicedef.RoleSystem, Content: "You are a terse assistant."},
			{Role: servicedef.RoleUser, Content: "What is the capital of France?"},
			{Role: servicedef.RoleAssistant, Content: "Paris."},
			{Role: servicedef.RoleUser, Content: "And of Italy?"},
		}
		resp := t.PostStrict(client.RequestSpec{Path: chatCompletionsPath, Payload: params})

		content := resp.Body.GetByKey("choices").GetByIndex(0).GetByKey("message").GetByKey("content")
		assert.NotEmpty(t, content.StringValue())
	})
}
