package report

import (
	"io"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// Writer outputs an analysis report in one format.
//
// An interface keeps the destination and the format independent: the
// same report can go to stdout, a file, or several of both at once.
type Writer interface {
	// Write outputs the report to the configured destination.
	// Returns the number of bytes written and any error encountered.
	Write(report *model.AnalyzeReport) (int, error)
}

// MultiWriter writes a report to multiple Writers, for example the
// terminal and a file in one run. It is a separate type rather than
// io.MultiWriter because Writers consume reports, not raw bytes.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the report to all configured Writers, stopping on the
// first error. Returns the total bytes written.
func (m *MultiWriter) Write(report *model.AnalyzeReport) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(report)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides the shared output destination for writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
