package chattests

import (
	"net/http"

	"github.com/llmharness/chatapi-contract-tests/client"
	"github.com/llmharness/chatapi-contract-tests/servicedef"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoValidationTests(t *T) {
	t.Run("rejects an empty message list", func(t *T) {
		params := t.DefaultChatParams()
		params.Messages = []servicedef.ChatMessage{}
		resp := t.Post(client.RequestSpec{Path: chatCompletionsPath, Payload: params})
		assert.GreaterOrEqual(t, resp.Status, 400, "expected an error status, got: %s", resp.Raw)
	})

	t.Run("rejects an unknown model", func(t *T) {
		params := t.DefaultChatParams()
		params.Model = "model-that-does-not-exist"
		resp := t.Post(client.RequestSpec{Path: chatCompletionsPath, Payload: params})

		assert.Equal(t, http.StatusNotFound, resp.Status)
		errDetail := resp.Body.GetByKey("error")
		require.False(t, errDetail.IsNull(), "error body should have an error field, got: %s", resp.Raw)
		assert.Contains(t, errDetail.GetByKey("message").StringValue(), "model-that-does-not-exist")
	})

	t.Run("rejects a zero max_tokens", func(t *T) {
		params := t.DefaultChatParams()
		params.MaxTokens = ldvalue.NewOptionalInt(0)
		resp := t.Post(client.RequestSpec{Path: chatCompletionsPath, Payload: params})
		assert.Equal(t, http.StatusBadRequest, resp.Status)
	})

	t.RunExpectingFailure("strict client rejects a validation error", func(t *T) {
		params := t.DefaultChatParams()
		params.Messages = nil
		_, err := t.env.client.PostStrict(client.RequestSpec{Path: chatCompletionsPath, Payload: params},
			t.context.DebugLogger())
		require.NoError(t, err) // this assertion is expected to fail
	})
}
