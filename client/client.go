package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/llmharness/chatapi-contract-tests/framework"

	"gopkg.in/launchdarkly/go-sdk-common.v2/ldvalue"
)

const modelsPath = "/v1/models"
const messagesPath = "/v1/messages"

// ServiceClient manages communication with the chat service under test. All test requests
// are JSON POSTs authenticated with a bearer token.
type ServiceClient struct {
	baseURL             string
	authToken           string
	httpClient          *http.Client
	logger              framework.Logger
	models              []string
	hasMessagesEndpoint bool
}

// RequestSpec describes one request to the service. The method is always POST. Headers
// are optional overrides: a header set here replaces the default of the same name, and an
// empty value removes the default entirely (used by tests that must send no credentials).
type RequestSpec struct {
	Path    string
	Payload interface{}
	Headers map[string]string
}

// Response is the outcome of one completed request. Body holds the response body parsed
// as JSON; if the body was not valid JSON, Body is a string value holding the raw text.
type Response struct {
	Status int
	Body   ldvalue.Value
	Raw    string
}

// NewServiceClient creates a ServiceClient. The requestTimeout applies to every request;
// a hung connection fails that one request rather than stalling the whole suite.
func NewServiceClient(
	baseURL string,
	authToken string,
	requestTimeout time.Duration,
	logger framework.Logger,
) *ServiceClient {
	if logger == nil {
		logger = framework.NullLogger()
	}
	return &ServiceClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		authToken:  authToken,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger,
	}
}

// WaitForService polls the service's model listing resource until it responds, or until
// the timeout elapses. On success it remembers the advertised model IDs and probes for
// optional endpoints.
func (c *ServiceClient) WaitForService(timeout time.Duration, output io.Writer) error {
	fmt.Fprintf(output, "Connecting to chat service at %s", c.baseURL)

	deadline := time.Now().Add(timeout)
	for {
		fmt.Fprintf(output, ".")
		resp, err := c.httpClient.Get(c.baseURL + modelsPath)
		if err == nil {
			fmt.Fprintln(output)
			if resp.StatusCode != 200 {
				drainAndClose(resp)
				return fmt.Errorf("chat service returned status code %d from %s", resp.StatusCode, modelsPath)
			}
			respData, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			if err != nil {
				return err
			}
			c.models = parseModelList(respData)
			fmt.Fprintf(output, "Service is up, advertising models: %s\n", strings.Join(c.models, ", "))
			c.hasMessagesEndpoint = c.detectMessagesEndpoint()
			return nil
		}
		if !time.Now().Before(deadline) {
			return fmt.Errorf("timed out, result of last query was: %w", err)
		}
		time.Sleep(time.Millisecond * 100)
	}
}

func parseModelList(data []byte) []string {
	var listing struct {
		Data []struct {
			ID string `json:"id"`
		} `json:"data"`
	}
	if err := json.Unmarshal(data, &listing); err != nil {
		return nil
	}
	var ids []string
	for _, m := range listing.Data {
		ids = append(ids, m.ID)
	}
	return ids
}

// detectMessagesEndpoint checks whether the service implements POST /v1/messages at all.
// An unimplemented route comes back as 404 or 405; anything else (including a validation
// error for the deliberately empty payload) means the route exists.
func (c *ServiceClient) detectMessagesEndpoint() bool {
	resp, err := c.Post(RequestSpec{Path: messagesPath, Payload: map[string]interface{}{}}, nil)
	if err != nil {
		return false
	}
	return resp.Status != http.StatusNotFound && resp.Status != http.StatusMethodNotAllowed
}

// Models returns the model IDs advertised by the service at startup.
func (c *ServiceClient) Models() []string {
	return append([]string(nil), c.models...)
}

// HasMessagesEndpoint reports whether the service implements POST /v1/messages.
func (c *ServiceClient) HasMessagesEndpoint() bool {
	return c.hasMessagesEndpoint
}

// Post sends a request and resolves with whatever status came back, success or error.
// Aside from a payload that cannot be serialized, the only error it can return is a
// *TransportError; tests that need to inspect the shape of an error response use this
// variant.
func (c *ServiceClient) Post(spec RequestSpec, logger framework.Logger) (Response, error) {
	if logger == nil {
		logger = c.logger
	}

	data, err := json.Marshal(spec.Payload)
	if err != nil {
		return Response{}, fmt.Errorf("could not serialize request payload: %w", err)
	}

	url := c.baseURL + spec.Path
	logger.Printf("POST %s: %s", url, string(data))

	req, err := http.NewRequest("POST", url, bytes.NewBuffer(data))
	if err != nil {
		return Response{}, &TransportError{URL: url, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.authToken)
	}
	for name, value := range spec.Headers {
		if value == "" {
			req.Header.Del(name)
		} else {
			req.Header.Set(name, value)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, &TransportError{URL: url, Err: err}
	}
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return Response{}, &TransportError{URL: url, Err: err}
	}

	logger.Printf("Received %d: %s", resp.StatusCode, string(raw))

	var body ldvalue.Value
	if err := json.Unmarshal(raw, &body); err != nil {
		body = ldvalue.String(string(raw))
	}
	return Response{Status: resp.StatusCode, Body: body, Raw: string(raw)}, nil
}

// PostStrict is like Post, but additionally treats any status >= 400 as a failure,
// returning a *StatusError that carries the status code and raw body text.
func (c *ServiceClient) PostStrict(spec RequestSpec, logger framework.Logger) (Response, error) {
	resp, err := c.Post(spec, logger)
	if err != nil {
		return Response{}, err
	}
	if resp.Status >= 400 {
		return Response{}, &StatusError{Status: resp.Status, Body: resp.Raw}
	}
	return resp, nil
}

func drainAndClose(resp *http.Response) {
	if resp.Body != nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}
}
