package vector

import "context"

// Match is one retrieved chunk with its similarity score.
type Match struct {
	// Text is the stored chunk content.
	Text string

	// URL is the normalized page URL the chunk came from.
	URL string

	// ChunkIndex is the chunk's position within its page.
	ChunkIndex int

	// Score is the cosine similarity against the query, in [-1, 1].
	Score float64
}

// Store persists chunk embeddings and answers similarity queries.
type Store interface {
	// Upsert stores the chunks of a page with their embeddings,
	// replacing any previous chunks for the same URL.
	Upsert(ctx context.Context, url string, chunks []string, embeddings [][]float32) error

	// Search returns up to k matches with similarity at or above
	// threshold, best first. A non-empty filterURL restricts results
	// to chunks of that page.
	Search(ctx context.Context, query []float32, k int, filterURL string, threshold float64) ([]Match, error)

	// Close releases the store's resources.
	Close() error
}
