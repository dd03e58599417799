package vector

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/YanFonsecaz/SiteAI/internal/config"
	"github.com/YanFonsecaz/SiteAI/internal/llm"
)

// Indexer couples an embedder with a store: it chunks page text on the
// way in and embeds queries on the way out.
type Indexer struct {
	embedder  llm.Embedder
	store     Store
	chunkSize int
	overlap   int
	threshold float64
	logger    *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithChunking overrides the chunk window and overlap.
func WithChunking(size, overlap int) IndexerOption {
	return func(ix *Indexer) {
		if size > 0 && overlap >= 0 && overlap < size {
			ix.chunkSize = size
			ix.overlap = overlap
		}
	}
}

// WithThreshold overrides the minimum similarity for retrieval.
func WithThreshold(threshold float64) IndexerOption {
	return func(ix *Indexer) {
		ix.threshold = threshold
	}
}

// WithLogger sets the logger for retrieval fallbacks.
func WithLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// NewIndexer creates an indexer over the given embedder and store.
func NewIndexer(embedder llm.Embedder, store Store, opts ...IndexerOption) *Indexer {
	ix := &Indexer{
		embedder:  embedder,
		store:     store,
		chunkSize: config.DefaultChunkSize,
		overlap:   config.DefaultChunkOverlap,
		threshold: config.DefaultSearchThreshold,
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Index chunks, embeds and stores a page's text. An empty text is a
// no-op. The caller decides whether a failure aborts its run; analysis
// treats indexing as an enrichment and continues without it.
func (ix *Indexer) Index(ctx context.Context, url, text string) error {
	chunks := Chunk(text, ix.chunkSize, ix.overlap)
	if len(chunks) == 0 {
		return nil
	}

	embeddings, err := ix.embedder.Embed(ctx, chunks)
	if err != nil {
		return fmt.Errorf("vector: embed %s: %w", url, err)
	}
	if err := ix.store.Upsert(ctx, url, chunks, embeddings); err != nil {
		return fmt.Errorf("vector: store %s: %w", url, err)
	}
	return nil
}

// Retrieve returns the stored chunks of url most similar to query,
// best first. Failures are logged and yield nil so callers can fall
// back to positional context.
func (ix *Indexer) Retrieve(ctx context.Context, query string, k int, url string) []Match {
	if query == "" || k <= 0 {
		return nil
	}

	embeddings, err := ix.embedder.Embed(ctx, []string{query})
	if err != nil || len(embeddings) == 0 {
		ix.logger.Warn("query embedding failed, falling back to positional context", "url", url, "error", err)
		return nil
	}

	matches, err := ix.store.Search(ctx, embeddings[0], k, url, ix.threshold)
	if err != nil {
		ix.logger.Warn("similarity search failed, falling back to positional context", "url", url, "error", err)
		return nil
	}
	return matches
}
