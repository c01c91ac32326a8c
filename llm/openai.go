// Package llm provides an OpenAI-compatible chat-completions client that
// implements the companyscout generation capabilities: plain text,
// tool-calling, and schema-bound structured output. It works with any
// server exposing the /v1/chat/completions endpoint (OpenAI, Ollama /v1,
// vLLM, LiteLLM, etc.).
package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jobseekr/companyscout"
)

const defaultBaseURL = "https://api.openai.com/v1"
const defaultModel = "gpt-4.1-nano"

// Client is an OpenAI-compatible chat-completions client. It is safe for
// concurrent use by multiple research branches.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	httpClient  *http.Client
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithBaseURL points the client at a non-default endpoint.
func WithBaseURL(url string) ClientOption {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithAPIKey sets the bearer token. Leave empty for keyless servers.
func WithAPIKey(key string) ClientOption {
	return func(c *Client) { c.apiKey = key }
}

// WithModel selects the model name sent with every request.
func WithModel(model string) ClientOption {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ClientOption {
	return func(c *Client) { c.temperature = t }
}

// WithHTTPClient overrides the HTTP client, e.g. to change the timeout.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.httpClient = h
		}
	}
}

// New constructs a Client.
func New(opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		model:      defaultModel,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Wire types for the chat completions endpoint.

type chatMessage struct {
	Role       string         `json:"role"`
	Content    string         `json:"content"`
	ToolCalls  []wireToolCall `json:"tool_calls,omitempty"`
	ToolCallID string         `json:"tool_call_id,omitempty"`
	Name       string         `json:"name,omitempty"`
}

type wireToolCall struct {
	ID       string       `json:"id"`
	Type     string       `json:"type"`
	Function functionCall `json:"function"`
}

type functionCall struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

type chatTool struct {
	Type     string       `json:"type"`
	Function functionSpec `json:"function"`
}

type functionSpec struct {
	Name        string         `json:"name"`
	Description string         `json:"description,omitempty"`
	Parameters  map[string]any `json:"parameters,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	Tools          []chatTool      `json:"tools,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// GenerateText produces prose from a system prompt and message history.
func (c *Client) GenerateText(ctx context.Context, systemPrompt string, history []companyscout.Message) (string, error) {
	resp, err := c.complete(ctx, chatRequest{
		Model:       c.model,
		Messages:    toWire(systemPrompt, history),
		Temperature: c.temperature,
	})
	if err != nil {
		return "", &companyscout.GenerationError{Op: "text", Err: err}
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// GenerateWithTools returns the assistant message for one tool-calling turn.
func (c *Client) GenerateWithTools(ctx context.Context, systemPrompt string, history []companyscout.Message, tools []companyscout.ToolSpec) (companyscout.Message, error) {
	wireTools := make([]chatTool, 0, len(tools))
	for _, t := range tools {
		wireTools = append(wireTools, chatTool{
			Type:     "function",
			Function: functionSpec{Name: t.Name, Description: t.Description, Parameters: t.Parameters},
		})
	}

	resp, err := c.complete(ctx, chatRequest{
		Model:       c.model,
		Messages:    toWire(systemPrompt, history),
		Temperature: c.temperature,
		Tools:       wireTools,
	})
	if err != nil {
		return companyscout.Message{}, &companyscout.GenerationError{Op: "tool call", Err: err}
	}

	return fromWire(resp.Choices[0].Message)
}

// GenerateStructured asks for a JSON object and unmarshals it into out.
// The contract is conforms-or-fails: any parse failure is a GenerationError.
func (c *Client) GenerateStructured(ctx context.Context, systemPrompt, userPrompt string, out any) error {
	sys := systemPrompt + "\n\nRespond with a single JSON object matching the requested fields. Do not wrap it in markdown."
	resp, err := c.complete(ctx, chatRequest{
		Model:          c.model,
		Messages:       toWire(sys, []companyscout.Message{companyscout.HumanMessage(userPrompt)}),
		Temperature:    c.temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	})
	if err != nil {
		return &companyscout.GenerationError{Op: "structured", Err: err}
	}
	content := resp.Choices[0].Message.Content
	if err := json.Unmarshal([]byte(content), out); err != nil {
		return &companyscout.GenerationError{Op: "structured", Err: fmt.Errorf("output does not conform: %w", err)}
	}
	return nil
}

func (c *Client) complete(ctx context.Context, req chatRequest) (*chatResponse, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	var resp *http.Response
	delay := 1 * time.Second
	for {
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
		if err != nil {
			return nil, err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		if c.apiKey != "" {
			httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, err = c.httpClient.Do(httpReq)
		if err != nil {
			return nil, err
		}
		if resp.StatusCode != http.StatusTooManyRequests {
			break
		}
		resp.Body.Close()

		// Back off and retry on 429, doubling the delay each time up to 30 s.
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(delay):
		}
		if delay < 30*time.Second {
			delay *= 2
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return nil, fmt.Errorf("chat completions http %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var parsed chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, err
	}
	if len(parsed.Choices) == 0 {
		return nil, errors.New("response contained no choices")
	}
	return &parsed, nil
}

// toWire maps the engine's message roles onto the chat completions roles.
func toWire(systemPrompt string, history []companyscout.Message) []chatMessage {
	out := make([]chatMessage, 0, len(history)+1)
	if systemPrompt != "" {
		out = append(out, chatMessage{Role: "system", Content: systemPrompt})
	}
	for _, m := range history {
		wire := chatMessage{Content: m.Content}
		switch m.Role {
		case companyscout.RoleHuman:
			wire.Role = "user"
		case companyscout.RoleAssistant:
			wire.Role = "assistant"
			for _, call := range m.ToolCalls {
				args, err := json.Marshal(call.Arguments)
				if err != nil {
					args = []byte("{}")
				}
				wire.ToolCalls = append(wire.ToolCalls, wireToolCall{
					ID:       call.ID,
					Type:     "function",
					Function: functionCall{Name: call.Name, Arguments: string(args)},
				})
			}
		case companyscout.RoleTool:
			wire.Role = "tool"
			wire.ToolCallID = m.ToolCallID
			wire.Name = m.ToolName
		default:
			wire.Role = "system"
		}
		out = append(out, wire)
	}
	return out
}

// fromWire converts an assistant wire message, parsing each tool call's
// argument payload. Unparsable arguments fail the turn.
func fromWire(m chatMessage) (companyscout.Message, error) {
	calls := make([]companyscout.ToolCall, 0, len(m.ToolCalls))
	for _, tc := range m.ToolCalls {
		args := map[string]any{}
		if tc.Function.Arguments != "" {
			if err := json.Unmarshal([]byte(tc.Function.Arguments), &args); err != nil {
				return companyscout.Message{}, &companyscout.GenerationError{
					Op:  "tool call",
					Err: fmt.Errorf("tool call %s has unparsable arguments: %w", tc.Function.Name, err),
				}
			}
		}
		calls = append(calls, companyscout.ToolCall{ID: tc.ID, Name: tc.Function.Name, Arguments: args})
	}
	return companyscout.AssistantMessage(m.Content, calls...), nil
}
