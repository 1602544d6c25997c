// Package mockchat implements a small chat-completion service with deterministic output.
// The harness can be pointed at it for development and CI runs where no real model server
// is available, and the test suite's own tests mount it in-process.
package mockchat

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/llmharness/chatapi-contract-tests/servicedef"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Options struct {
	// APIKey is the bearer token the service requires on the completion endpoints.
	APIKey string

	// Models is the set of model IDs the service will accept and advertise. If empty, a
	// single default model is served.
	Models []string

	// OmitMessagesEndpoint leaves out POST /v1/messages, for testing how the harness
	// behaves against services that only implement the OpenAI-style endpoint.
	OmitMessagesEndpoint bool
}

const defaultModel = "gpt-4o-mini"

type server struct {
	opts   Options
	logger *zap.Logger
}

// NewHandler returns an http.Handler implementing the mock service. gin.Engine satisfies
// http.Handler, so tests can mount the result directly on an httptest.Server.
func NewHandler(opts Options, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(opts.Models) == 0 {
		opts.Models = []string{defaultModel}
	}
	s := &server{opts: opts, logger: logger}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/v1/models", s.listModels)
	r.POST("/v1/chat/completions", s.chatCompletions)
	if !opts.OmitMessagesEndpoint {
		r.POST("/v1/messages", s.messages)
	}
	return r
}

func (s *server) listModels(c *gin.Context) {
	resp := servicedef.ModelListResponse{Object: "list"}
	for _, id := range s.opts.Models {
		resp.Data = append(resp.Data, servicedef.ModelInfo{ID: id, Object: "model"})
	}
	c.JSON(http.StatusOK, resp)
}

func (s *server) checkAuth(c *gin.Context) bool {
	if c.GetHeader("Authorization") != "Bearer "+s.opts.APIKey {
		s.logger.Warn("rejected request with bad credentials", zap.String("path", c.FullPath()))
		c.JSON(http.StatusUnauthorized, servicedef.ErrorResponse{
			Error: servicedef.ErrorDetail{Type: "authentication_error", Message: "invalid or missing API key"},
		})
		return false
	}
	return true
}

func (s *server) checkModel(c *gin.Context, model string) bool {
	if model == "" {
		s.badRequest(c, "model is required")
		return false
	}
	for _, id := range s.opts.Models {
		if id == model {
			return true
		}
	}
	c.JSON(http.StatusNotFound, servicedef.ErrorResponse{
		Error: servicedef.ErrorDetail{Type: "not_found_error", Message: fmt.Sprintf("model %q not found", model)},
	})
	return false
}

func (s *server) badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, servicedef.ErrorResponse{
		Error: servicedef.ErrorDetail{Type: "invalid_request_error", Message: message},
	})
}

func (s *server) chatCompletions(c *gin.Context) {
	if !s.checkAuth(c) {
		return
	}
	var params servicedef.ChatCompletionParams
	if err := c.ShouldBindJSON(&params); err != nil {
		s.badRequest(c, "request body is not valid JSON: "+err.Error())
		return
	}
	if !s.checkModel(c, params.Model) {
		return
	}
	if len(params.Messages) == 0 {
		s.badRequest(c, "messages must not be empty")
		return
	}
	if params.MaxTokens.IsDefined() && params.MaxTokens.IntValue() <= 0 {
		s.badRequest(c, "max_tokens must be a positive integer")
		return
	}

	reply, usage := completeFor(params.Messages)
	s.logger.Info("served chat completion",
		zap.String("model", params.Model),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	)
	c.JSON(http.StatusOK, servicedef.ChatCompletionResponse{
		ID:     fmt.Sprintf("chatcmpl-mock-%08x", hashMessages(params.Messages)),
		Object: "chat.completion",
		Model:  params.Model,
		Choices: []servicedef.ChatChoice{
			{Index: 0, Message: servicedef.ChatMessage{Role: servicedef.RoleAssistant, Content: reply}, FinishReason: "stop"},
		},
		Usage: &usage,
	})
}

func (s *server) messages(c *gin.Context) {
	if !s.checkAuth(c) {
		return
	}
	var params servicedef.MessagesParams
	if err := c.ShouldBindJSON(&params); err != nil {
		s.badRequest(c, "request body is not valid JSON: "+err.Error())
		return
	}
	if !s.checkModel(c, params.Model) {
		return
	}
	if len(params.Messages) == 0 {
		s.badRequest(c, "messages must not be empty")
		return
	}
	if params.MaxTokens <= 0 {
		s.badRequest(c, "max_tokens must be a positive integer")
		return
	}

	reply, usage := completeFor(params.Messages)
	s.logger.Info("served message",
		zap.String("model", params.Model),
		zap.Int("input_tokens", usage.InputTokens),
		zap.Int("output_tokens", usage.OutputTokens),
	)
	c.JSON(http.StatusOK, servicedef.MessagesResponse{
		ID:         fmt.Sprintf("msg-mock-%08x", hashMessages(params.Messages)),
		Type:       "message",
		Role:       servicedef.RoleAssistant,
		Model:      params.Model,
		Content:    []servicedef.ContentBlock{{Type: "text", Text: reply}},
		StopReason: "end_turn",
		Usage:      &usage,
	})
}

// completeFor produces a deterministic reply to the last user message, with token counts
// approximated as whitespace-separated word counts.
func completeFor(messages []servicedef.ChatMessage) (string, servicedef.Usage) {
	lastUser := ""
	inputTokens := 0
	for _, m := range messages {
		inputTokens += len(strings.Fields(m.Content))
		if m.Role == servicedef.RoleUser {
			lastUser = m.Content
		}
	}
	reply := "This is a mock completion."
	if lastUser != "" {
		reply = fmt.Sprintf("This is a mock completion in response to: %s", lastUser)
	}
	return reply, servicedef.Usage{
		InputTokens:  inputTokens,
		OutputTokens: len(strings.Fields(reply)),
	}
}

func hashMessages(messages []servicedef.ChatMessage) uint32 {
	var h uint32 = 2166136261
	for _, m := range messages {
		for _, b := range []byte(m.Role + ":" + m.Content) {
			h ^= uint32(b)
			h *= 16777619
		}
	}
	return h
}
