package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strings"
	"time"
)

const (
	defaultBaseURL   = "https://api.openai.com/v1"
	defaultMaxTokens = 4096

	// maxAttempts bounds the retry loop for transient failures.
	maxAttempts = 4

	// baseRetryDelay is doubled per attempt, plus jitter.
	baseRetryDelay = time.Second
)

// OpenAI talks to an OpenAI-compatible chat and embeddings API. It
// implements both Provider and Embedder.
type OpenAI struct {
	apiKey         string
	baseURL        string
	model          string
	embeddingModel string
	client         *http.Client
}

// OpenAIOption configures an OpenAI client.
type OpenAIOption func(*OpenAI)

// WithBaseURL points the client at a different OpenAI-compatible
// endpoint, such as a local gateway or a test server.
func WithBaseURL(u string) OpenAIOption {
	return func(c *OpenAI) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithModel sets the chat model identifier.
func WithModel(model string) OpenAIOption {
	return func(c *OpenAI) {
		if model != "" {
			c.model = model
		}
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) OpenAIOption {
	return func(c *OpenAI) {
		if model != "" {
			c.embeddingModel = model
		}
	}
}

// WithHTTPClient substitutes the underlying HTTP client.
func WithHTTPClient(client *http.Client) OpenAIOption {
	return func(c *OpenAI) {
		if client != nil {
			c.client = client
		}
	}
}

// NewOpenAI creates a client. The key is carried per client rather than
// read from the environment so multi-tenant callers can isolate
// credentials.
func NewOpenAI(apiKey string, opts ...OpenAIOption) *OpenAI {
	c := &OpenAI{
		apiKey:         apiKey,
		baseURL:        defaultBaseURL,
		model:          "gpt-4o",
		embeddingModel: "text-embedding-3-small",
		client:         &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns the provider name.
func (c *OpenAI) Name() string { return "openai" }

// Available reports whether an API key is configured.
func (c *OpenAI) Available() bool { return c.apiKey != "" }

// Complete sends a chat-completion request and returns the text of the
// first choice. Transient failures (429 and 5xx) are retried with
// exponential backoff and jitter.
func (c *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	if !c.Available() {
		return "", ErrNoCredentials
	}

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultMaxTokens
	}

	messages := make([]chatMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: req.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: req.Prompt})

	body := chatRequest{
		Model:       c.model,
		Messages:    messages,
		Temperature: req.Temperature,
		MaxTokens:   maxTokens,
	}
	if req.ForceJSON {
		body.ResponseFormat = &responseFormat{Type: "json_object"}
	}

	raw, err := c.post(ctx, "/chat/completions", body)
	if err != nil {
		return "", err
	}

	var resp chatResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return "", fmt.Errorf("llm: parse chat response: %w", err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", ErrEmptyResponse
	}
	return resp.Choices[0].Message.Content, nil
}

// Embed returns one embedding vector per input text.
func (c *OpenAI) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.Available() {
		return nil, ErrNoCredentials
	}
	if len(texts) == 0 {
		return nil, nil
	}

	raw, err := c.post(ctx, "/embeddings", embeddingRequest{
		Model: c.embeddingModel,
		Input: texts,
	})
	if err != nil {
		return nil, err
	}

	var resp embeddingResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("llm: parse embedding response: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("llm: embedding count mismatch: sent %d texts, got %d vectors", len(texts), len(resp.Data))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(texts) {
			return nil, fmt.Errorf("llm: embedding index %d out of range", d.Index)
		}
		vectors[d.Index] = d.Embedding
	}
	return vectors, nil
}

// post sends a JSON request and returns the response body, retrying on
// transient failures.
func (c *OpenAI) post(ctx context.Context, path string, payload any) ([]byte, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("llm: marshal request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		if attempt > 0 {
			// baseRetryDelay * 2^(attempt-1) plus up to 50% jitter.
			delay := baseRetryDelay * time.Duration(1<<uint(attempt-1))
			delay += time.Duration(rand.Int63n(int64(delay) / 2))
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(delay):
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(jsonBody))
		if err != nil {
			return nil, fmt.Errorf("llm: create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.apiKey)

		resp, err := c.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = fmt.Errorf("llm: request: %w", err)
			continue
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			lastErr = fmt.Errorf("llm: read response: %w", readErr)
			continue
		}

		switch {
		case resp.StatusCode == http.StatusOK:
			return body, nil
		case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
			lastErr = apiError(resp.StatusCode, body)
			continue
		default:
			return nil, apiError(resp.StatusCode, body)
		}
	}
	return nil, lastErr
}

func apiError(status int, body []byte) error {
	var apiErr struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if json.Unmarshal(body, &apiErr) == nil && apiErr.Error.Message != "" {
		return fmt.Errorf("llm: API error (%d): %s", status, apiErr.Error.Message)
	}
	return fmt.Errorf("llm: API error (%d): %s", status, strings.TrimSpace(string(body)))
}

// Wire types for the OpenAI-compatible API.

type chatRequest struct {
	Model          string          `json:"model"`
	Messages       []chatMessage   `json:"messages"`
	Temperature    float64         `json:"temperature"`
	MaxTokens      int             `json:"max_tokens,omitempty"`
	ResponseFormat *responseFormat `json:"response_format,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type embeddingRequest struct {
	Model string   `json:"model"`
	Input []string `json:"input"`
}

type embeddingResponse struct {
	Data []struct {
		Index     int       `json:"index"`
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}
