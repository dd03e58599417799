package llm

import "context"

// Request describes a single chat-completion call.
type Request struct {
	// System is the system instruction. Empty means none.
	System string

	// Prompt is the user message.
	Prompt string

	// Temperature is the sampling temperature. Zero keeps output
	// deterministic, which every structured call here wants.
	Temperature float64

	// MaxTokens caps the completion length. Zero uses the client default.
	MaxTokens int

	// ForceJSON asks the service for a JSON-object response. The caller
	// still treats the output as untrusted and parses it defensively.
	ForceJSON bool
}

// Provider is a chat-completion backend.
type Provider interface {
	// Name identifies the provider in logs and diagnostics.
	Name() string

	// Available reports whether the provider is configured to make calls.
	Available() bool

	// Complete sends one request and returns the completion text.
	Complete(ctx context.Context, req Request) (string, error)
}

// Embedder converts texts into embedding vectors.
type Embedder interface {
	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}
