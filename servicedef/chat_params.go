// Package servicedef defines the request and response shapes of the chat service API that
// the harness tests against. The same definitions are used by the mock service.
package servicedef

import "gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatCompletionParams is the request body for POST /v1/chat/completions.
type ChatCompletionParams struct {
	Model     string              `json:"model"`
	Messages  []ChatMessage       `json:"messages"`
	MaxTokens ldvalue.OptionalInt `json:"max_tokens,omitempty"`
	Stream    bool                `json:"stream,omitempty"`
}

// MessagesParams is the request body for POST /v1/messages.
type MessagesParams struct {
	Model     string        `json:"model"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
	System    string        `json:"system,omitempty"`
}

type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

type ChatChoice struct {
	Index        int         `json:"index"`
	Message      ChatMessage `json:"message"`
	FinishReason string      `json:"finish_reason"`
}

// ChatCompletionResponse is the success body of POST /v1/chat/completions.
type ChatCompletionResponse struct {
	ID      string       `json:"id"`
	Object  string       `json:"object"`
	Model   string       `json:"model"`
	Choices []ChatChoice `json:"choices"`
	Usage   *Usage       `json:"usage,omitempty"`
}

type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// MessagesResponse is the success body of POST /v1/messages.
type MessagesResponse struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	Role       string         `json:"role"`
	Model      string         `json:"model"`
	Content    []ContentBlock `json:"content"`
	StopReason string         `json:"stop_reason,omitempty"`
	Usage      *Usage         `json:"usage,omitempty"`
}

type ErrorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// ErrorResponse is the body the service returns for any error status.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ModelInfo struct {
	ID     string `json:"id"`
	Object string `json:"object"`
}

// ModelListResponse is the body of GET /v1/models.
type ModelListResponse struct {
	Object string      `json:"object"`
	Data   []ModelInfo `json:"data"`
}
