package report

import (
	"encoding/json"
	"io"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// JSONWriter outputs reports in JSON format, for piping into other
// tools. Standard encoding/json is enough here: the report is a plain
// tree of structs and the output is write-once per run.
type JSONWriter struct {
	baseWriter

	indent       bool
	indentPrefix string
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output with the given prefix
// and per-level indent.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default two-space
// indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = ""
		w.indentString = "  "
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report as a JSON document.
func (w *JSONWriter) Write(report *model.AnalyzeReport) (int, error) {
	return w.writeJSON(report)
}

func (w *JSONWriter) writeJSON(v any) (int, error) {
	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Trailing newline for terminal use.
	data = append(data, '\n')
	return w.output.Write(data)
}

// versionedReport wraps the report with generator metadata for
// consumers that archive results across tool versions.
type versionedReport struct {
	Version string               `json:"version"`
	Report  *model.AnalyzeReport `json:"report"`
}

// FullJSONWriter outputs the report wrapped with version metadata.
type FullJSONWriter struct {
	*JSONWriter
	version string
}

// NewFullJSONWriter creates a writer that wraps reports with the
// generating tool's version.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the report wrapped with metadata.
func (w *FullJSONWriter) Write(report *model.AnalyzeReport) (int, error) {
	return w.writeJSON(versionedReport{Version: w.version, Report: report})
}
