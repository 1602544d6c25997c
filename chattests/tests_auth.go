package chattests

import (
	"net/http"

	"github.com/llmharness/chatapi-contract-tests/client"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

func DoAuthTests(t *T) {
	badAuth := map[string]string{"Authorization": "Bearer not-a-real-key"}
	noAuth := map[string]string{"Authorization": ""}

	t.Run("rejects an invalid token", func(t *T) {
		resp := t.Post(client.RequestSpec{
			Path:    chatCompletionsPath,
			Payload: t.DefaultChatParams(),
			Headers: badAuth,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("rejects a missing authorization header", func(t *T) {
		resp := t.Post(client.RequestSpec{
			Path:    chatCompletionsPath,
			Payload: t.DefaultChatParams(),
			Headers: noAuth,
		})
		assert.Equal(t, http.StatusUnauthorized, resp.Status)
	})

	t.Run("returns a structured error body", func(t *T) {
		resp := t.Post(client.RequestSpec{
			Path:    chatCompletionsPath,
			Payload: t.DefaultChatParams(),
			Headers: badAuth,
		})
		require.Equal(t, ldvalue.ObjectType, resp.Body.Type(), "error body should be JSON, got: %s", resp.Raw)
		errDetail := resp.Body.GetByKey("error")
		assert.False(t, errDetail.IsNull(), "error body should have an error field")
		assert.NotEmpty(t, errDetail.GetByKey("message").StringValue())
	})

	t.RunExpectingFailure("fails the strict client", func(t *T) {
		_, err := t.env.client.PostStrict(client.RequestSpec{
			Path:    chatCompletionsPath,
			Payload: t.DefaultChatParams(),
			Headers: badAuth,
		}, t.context.DebugLogger())
		require.NoError(t, err) // this assertion is expected to fail
	})
}
