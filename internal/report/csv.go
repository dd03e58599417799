package report

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// csvHeader is the column order of the exported opportunity table.
var csvHeader = []string{"source", "anchor", "excerpt", "target", "score", "reason", "topic"}

// CSVWriter exports the ranked opportunity list as CSV, one row per
// opportunity. Spreadsheets are how most content teams actually work
// through a link backlog.
type CSVWriter struct {
	baseWriter
}

// NewCSVWriter creates a CSVWriter that outputs to the given writer.
func NewCSVWriter(output io.Writer) *CSVWriter {
	return &CSVWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the opportunity table. Cluster and diagnostic data do
// not fit a flat table and are left to the other formats.
func (w *CSVWriter) Write(report *model.AnalyzeReport) (int, error) {
	counting := &countingWriter{w: w.output}
	cw := csv.NewWriter(counting)

	if err := cw.Write(csvHeader); err != nil {
		return counting.n, err
	}
	for _, opp := range report.Opportunities {
		row := []string{
			opp.SourceURL,
			opp.Anchor,
			opp.Excerpt,
			opp.TargetURL,
			strconv.FormatFloat(opp.Score, 'f', 2, 64),
			opp.Reason,
			opp.TargetTopic,
		}
		if err := cw.Write(row); err != nil {
			return counting.n, err
		}
	}

	cw.Flush()
	return counting.n, cw.Error()
}

// countingWriter tracks bytes written through it.
type countingWriter struct {
	w io.Writer
	n int
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += n
	return n, err
}
