package client

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/launchdarkly/go-test-helpers/v2/httphelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const testToken = "fake-api-key"

func newClientForServer(server *httptest.Server) *ServiceClient {
	return NewServiceClient(server.URL, testToken, time.Second*5, nil)
}

type capturedRequest struct {
	headers http.Header
	body    []byte
}

func captureHandler(delegate http.Handler) (http.Handler, *capturedRequest) {
	captured := &capturedRequest{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.headers = r.Header.Clone()
		captured.body, _ = io.ReadAll(r.Body)
		delegate.ServeHTTP(w, r)
	}), captured
}

func TestRequestBodyIsPayloadSerializedAsJSON(t *testing.T) {
	handler, captured := captureHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	payload := map[string]interface{}{
		"model":      "x",
		"messages":   []interface{}{},
		"max_tokens": 10,
	}
	_, err := newClientForServer(server).Post(RequestSpec{Path: "/v1/chat/completions", Payload: payload}, nil)
	require.NoError(t, err)

	var roundTripped map[string]interface{}
	require.NoError(t, json.Unmarshal(captured.body, &roundTripped))
	assert.Equal(t, "x", roundTripped["model"])
	assert.Equal(t, []interface{}{}, roundTripped["messages"])
	assert.Equal(t, float64(10), roundTripped["max_tokens"])
}

func TestDefaultHeadersIncludeBearerAuthAndContentType(t *testing.T) {
	handler, captured := captureHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	_, err := newClientForServer(server).Post(RequestSpec{Path: "/x", Payload: nil}, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer "+testToken, captured.headers.Get("Authorization"))
	assert.Equal(t, "application/json", captured.headers.Get("Content-Type"))
}

func TestCallerHeaderOverrideWins(t *testing.T) {
	handler, captured := captureHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	spec := RequestSpec{
		Path:    "/x",
		Headers: map[string]string{"Authorization": "Bearer other-key", "X-Extra": "1"},
	}
	_, err := newClientForServer(server).Post(spec, nil)
	require.NoError(t, err)

	assert.Equal(t, "Bearer other-key", captured.headers.Get("Authorization"))
	assert.Equal(t, "1", captured.headers.Get("X-Extra"))
}

func TestEmptyHeaderOverrideRemovesDefault(t *testing.T) {
	handler, captured := captureHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	spec := RequestSpec{Path: "/x", Headers: map[string]string{"Authorization": ""}}
	_, err := newClientForServer(server).Post(spec, nil)
	require.NoError(t, err)

	_, present := captured.headers["Authorization"]
	assert.False(t, present)
}

func TestJSONResponseBodyIsParsed(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithJSONResponse(
		map[string]interface{}{"object": "thing", "n": 3}, nil))
	defer server.Close()

	resp, err := newClientForServer(server).Post(RequestSpec{Path: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.Status)
	assert.Equal(t, ldvalue.ObjectType, resp.Body.Type())
	assert.Equal(t, "thing", resp.Body.GetByKey("object").StringValue())
	assert.Equal(t, 3, resp.Body.GetByKey("n").IntValue())
}

func TestNonJSONResponseBodyFallsBackToRawText(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(200, nil, []byte("plain text")))
	defer server.Close()

	resp, err := newClientForServer(server).Post(RequestSpec{Path: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, ldvalue.StringType, resp.Body.Type())
	assert.Equal(t, "plain text", resp.Body.StringValue())
	assert.Equal(t, "plain text", resp.Raw)
}

func TestLenientPostResolvesWithErrorStatus(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(404, nil, []byte("not found")))
	defer server.Close()

	resp, err := newClientForServer(server).Post(RequestSpec{Path: "/x"}, nil)
	require.NoError(t, err)
	assert.Equal(t, 404, resp.Status)
	assert.Equal(t, "not found", resp.Raw)
}

func TestStrictPostRejectsErrorStatusWithDetails(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithResponse(404, nil, []byte("not found")))
	defer server.Close()

	_, err := newClientForServer(server).PostStrict(RequestSpec{Path: "/x"}, nil)
	require.Error(t, err)
	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 404, statusErr.Status)
	assert.Contains(t, err.Error(), "404")
	assert.Contains(t, err.Error(), "not found")
}

func TestStrictPostResolvesForSuccessStatus(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithJSONResponse(map[string]interface{}{"ok": true}, nil))
	defer server.Close()

	resp, err := newClientForServer(server).PostStrict(RequestSpec{Path: "/x"}, nil)
	require.NoError(t, err)
	assert.True(t, resp.Body.GetByKey("ok").BoolValue())
}

func TestUnserializablePayloadFailsBeforeSending(t *testing.T) {
	handler, captured := captureHandler(httphelpers.HandlerWithStatus(200))
	server := httptest.NewServer(handler)
	defer server.Close()

	_, err := newClientForServer(server).Post(RequestSpec{Path: "/x", Payload: func() {}}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "serialize")
	var transportErr *TransportError
	assert.False(t, errors.As(err, &transportErr))
	assert.Nil(t, captured.body)
}

func TestConnectionFailureIsATransportError(t *testing.T) {
	server := httptest.NewServer(httphelpers.HandlerWithStatus(200))
	server.Close() // deliberately unreachable

	_, err := newClientForServer(server).Post(RequestSpec{Path: "/x"}, nil)
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestBrokenConnectionIsATransportError(t *testing.T) {
	server := httptest.NewServer(httphelpers.BrokenConnectionHandler())
	defer server.Close()

	_, err := newClientForServer(server).Post(RequestSpec{Path: "/x"}, nil)
	require.Error(t, err)
	var transportErr *TransportError
	require.ErrorAs(t, err, &transportErr)
}

func TestWaitForServiceReadsModelListAndProbesMessagesEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"object":"list","data":[{"id":"model-a"},{"id":"model-b"}]}`))
	})
	mux.HandleFunc("/v1/messages", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(400) // endpoint exists, payload is invalid
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newClientForServer(server)
	require.NoError(t, c.WaitForService(time.Second, io.Discard))
	assert.Equal(t, []string{"model-a", "model-b"}, c.Models())
	assert.True(t, c.HasMessagesEndpoint())
}

func TestWaitForServiceDetectsMissingMessagesEndpoint(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v1/models", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"object":"list","data":[]}`))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	c := newClientForServer(server)
	require.NoError(t, c.WaitForService(time.Second, io.Discard))
	assert.False(t, c.HasMessagesEndpoint())
}
