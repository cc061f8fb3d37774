// Package llm is the OpenAI client behind every generation: it builds
// the chat-completion payload, performs the blocking HTTP exchange,
// and interprets the provider's JSON response.
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nhle/mail-assistant/internal/model"
)

const (
	defaultChatURL   = "https://api.openai.com/v1/chat/completions"
	defaultModelsURL = "https://api.openai.com/v1/models"

	// Fixed sampling parameters. Not user-configurable.
	maxOutputTokens     = 500
	samplingTemperature = 0.7

	generateTimeout   = 30 * time.Second
	listModelsTimeout = 10 * time.Second
)

// Client performs synchronous calls against an OpenAI-compatible API.
// It holds no configuration of its own; the caller passes the current
// Config into each call so a preferences save never affects a request
// already in flight.
type Client struct {
	chatURL    string
	modelsURL  string
	chatHTTP   *http.Client
	modelsHTTP *http.Client
}

// NewClient creates a client against the public OpenAI endpoints.
func NewClient() *Client {
	return &Client{
		chatURL:    defaultChatURL,
		modelsURL:  defaultModelsURL,
		chatHTTP:   &http.Client{Timeout: generateTimeout},
		modelsHTTP: &http.Client{Timeout: listModelsTimeout},
	}
}

// NewClientWithBaseURL creates a client against a different API root,
// e.g. a local test server. The standard endpoint paths are appended.
func NewClientWithBaseURL(baseURL string) *Client {
	base := strings.TrimRight(baseURL, "/")
	c := NewClient()
	c.chatURL = base + "/v1/chat/completions"
	c.modelsURL = base + "/v1/models"
	return c
}

// Generate performs one chat-completion call for req using cfg. On
// success req.Response is populated with the trimmed generated text.
// The configuration is validated before any network traffic; a request
// is never retried.
func (c *Client) Generate(
	ctx context.Context,
	cfg model.Config,
	req *model.GenerationRequest,
) error {
	if req == nil || req.Prompt == "" {
		return ErrEmptyPrompt
	}
	if !cfg.IsValid() {
		return ErrInvalidAPIKey
	}

	payload := buildChatRequest(cfg, req.Prompt)

	doc, err := c.postChatCompletion(ctx, cfg.APIKey, payload)
	if err != nil {
		return err
	}

	text, err := extractMessage(doc)
	if err != nil {
		return err
	}

	req.Response = text
	return nil
}

// buildChatRequest assembles the outbound payload: exactly one system
// message (the configured system prompt, or the fixed default when
// unset) and one user message carrying the prompt verbatim.
func buildChatRequest(cfg model.Config, prompt string) chatRequest {
	systemPrompt := cfg.SystemPrompt
	if systemPrompt == "" {
		systemPrompt = model.DefaultSystemPrompt
	}

	return chatRequest{
		Model: cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   maxOutputTokens,
		Temperature: samplingTemperature,
	}
}

// postChatCompletion issues the blocking POST and returns the parsed
// response document. Network failures, non-2xx statuses, and malformed
// JSON bodies surface as distinct error types.
func (c *Client) postChatCompletion(
	ctx context.Context,
	apiKey string,
	payload chatRequest,
) (*chatResponse, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.chatURL, bytes.NewReader(body),
	)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	respBody, err := c.do(c.chatHTTP, req)
	if err != nil {
		return nil, err
	}

	var doc chatResponse
	if err := json.Unmarshal(respBody, &doc); err != nil {
		return nil, &ParseError{Err: err}
	}
	return &doc, nil
}

// do executes the request and accumulates the full response body
// before anything is parsed.
func (c *Client) do(client *http.Client, req *http.Request) ([]byte, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		var decoded apiErrorResponse
		if json.Unmarshal(body, &decoded) == nil {
			apiErr.Message = decoded.Error.Message
		}
		return nil, apiErr
	}

	return body, nil
}

// extractMessage pulls the generated text out of a chat-completion
// response: the first choice's message content, trimmed. A missing or
// empty choices list, or a missing content field, means the generation
// failed.
func extractMessage(doc *chatResponse) (string, error) {
	if len(doc.Choices) == 0 {
		return "", ErrNoChoices
	}

	content := strings.TrimSpace(doc.Choices[0].Message.Content)
	if content == "" {
		return "", ErrNoContent
	}
	return content, nil
}

// --- OpenAI wire types ---

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type apiErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}
