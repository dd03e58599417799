package vector

import "unicode"

// Chunk splits text into overlapping windows of at most size runes,
// stepping size-overlap runes at a time. Windows prefer to break on a
// word boundary near the end so embeddings do not see half words.
// Returns nil for empty input; size must exceed overlap or the input
// is returned as a single chunk.
func Chunk(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) == 0 {
		return nil
	}
	if size <= 0 || overlap < 0 || overlap >= size {
		return []string{text}
	}
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	var chunks []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		// Back up to the nearest space so the window ends on a word,
		// unless that would shrink the window too much.
		cut := end
		for cut > start+step && !unicode.IsSpace(runes[cut-1]) {
			cut--
		}
		if cut == start+step {
			cut = end
		}

		chunks = append(chunks, string(runes[start:cut]))
	}
	return chunks
}
