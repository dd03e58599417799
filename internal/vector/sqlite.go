package vector

import (
	"context"
	"database/sql"
	"encoding/binary"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"golang.org/x/crypto/sha3"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// SQLiteStore implements Store on a single SQLite database file.
//
// Embeddings are stored as little-endian float32 blobs and compared
// in-process with cosine similarity. A per-run corpus is small (tens of
// pages, hundreds of chunks), so a linear scan over candidate rows is
// simpler and fast enough; no vector extension is required.
type SQLiteStore struct {
	db     *sql.DB
	dbPath string
}

// Options configures SQLiteStore behavior.
type Options struct {
	// CreateIfNotExists creates the database file and directory if missing.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging. Recommended.
	EnableWAL bool
}

// DefaultOptions returns the default store options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates the vector store at dbDir.
func Open(dbDir string, opts Options) (*SQLiteStore, error) {
	dbPath := filepath.Join(dbDir, "siteai.db")

	if !opts.CreateIfNotExists {
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("vector store not found at %s", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check store path: %w", err)
		}
	} else {
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	dsn := dbPath + "?mode=rw"
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open vector store: %w", err)
	}

	// SQLite allows a single writer; one connection avoids lock churn.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	s := &SQLiteStore{db: db, dbPath: dbPath}

	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	if err := s.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) createTables() error {
	schema := `
	-- One row per embedded chunk of a page.
	CREATE TABLE IF NOT EXISTS records (
		id TEXT PRIMARY KEY,
		url TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_records_url ON records(url);
	`

	_, err := s.db.ExecContext(context.Background(), schema)
	return err
}

// Upsert replaces the stored chunks for url with the given set. Chunks
// and embeddings must be parallel slices.
func (s *SQLiteStore) Upsert(ctx context.Context, url string, chunks []string, embeddings [][]float32) error {
	if len(chunks) != len(embeddings) {
		return fmt.Errorf("vector: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	normalized := model.NormalizeURL(url)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // rollback after commit is a no-op

	// Full replace keeps re-runs idempotent even when a page shrinks.
	if _, err := tx.ExecContext(ctx, "DELETE FROM records WHERE url = ?", normalized); err != nil {
		return fmt.Errorf("failed to clear previous chunks: %w", err)
	}

	const insert = `
	INSERT INTO records (id, url, chunk_index, content, embedding)
	VALUES (?, ?, ?, ?, ?)
	`

	for i, chunk := range chunks {
		if _, err := tx.ExecContext(ctx, insert,
			recordID(normalized, i, chunk),
			normalized,
			i,
			chunk,
			encodeEmbedding(embeddings[i]),
		); err != nil {
			return fmt.Errorf("failed to insert chunk %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit chunks: %w", err)
	}
	return nil
}

// Search scans candidate rows and returns up to k matches with cosine
// similarity at or above threshold, ordered by score descending. Ties
// break by URL then chunk index so results are stable across runs.
func (s *SQLiteStore) Search(ctx context.Context, query []float32, k int, filterURL string, threshold float64) ([]Match, error) {
	if len(query) == 0 || k <= 0 {
		return nil, nil
	}

	q := "SELECT url, chunk_index, content, embedding FROM records"
	args := make([]any, 0, 1)
	if filterURL != "" {
		q += " WHERE url = ?"
		args = append(args, model.NormalizeURL(filterURL))
	}

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		var blob []byte
		if err := rows.Scan(&m.URL, &m.ChunkIndex, &m.Text, &blob); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}

		embedding, err := decodeEmbedding(blob)
		if err != nil {
			return nil, fmt.Errorf("failed to decode embedding for %s[%d]: %w", m.URL, m.ChunkIndex, err)
		}

		m.Score = cosineSimilarity(query, embedding)
		if m.Score >= threshold {
			matches = append(matches, m)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		if matches[i].URL != matches[j].URL {
			return matches[i].URL < matches[j].URL
		}
		return matches[i].ChunkIndex < matches[j].ChunkIndex
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	return matches, nil
}

// recordID derives a stable identifier from the chunk's identity so
// re-indexing the same content produces the same rows.
func recordID(url string, index int, content string) string {
	h := sha3.New256()
	fmt.Fprintf(h, "%s|%d|%s", url, index, content)
	return fmt.Sprintf("%x", h.Sum(nil))
}

// encodeEmbedding packs a vector as little-endian float32 bytes.
func encodeEmbedding(v []float32) []byte {
	buf := make([]byte, 4*len(v))
	for i, f := range v {
		binary.LittleEndian.PutUint32(buf[4*i:], math.Float32bits(f))
	}
	return buf
}

// decodeEmbedding unpacks a little-endian float32 blob.
func decodeEmbedding(b []byte) ([]float32, error) {
	if len(b)%4 != 0 {
		return nil, fmt.Errorf("embedding blob length %d not a multiple of 4", len(b))
	}
	v := make([]float32, len(b)/4)
	for i := range v {
		v[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[4*i:]))
	}
	return v, nil
}

// cosineSimilarity returns the cosine of the angle between two vectors,
// or 0 when either has zero magnitude or the lengths differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
