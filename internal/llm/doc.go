// Package llm provides chat-completion and embedding clients for
// OpenAI-compatible model services. Callers depend on the Provider and
// Embedder interfaces so tests can substitute fakes.
package llm
