package report

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// durationPrecision rounds the displayed run duration.
const durationPrecision = 100 * time.Millisecond

// SimpleWriter outputs human-readable text reports for the terminal.
// Plain ASCII formatting pipes cleanly into files and other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty shows sections that have no content.
	showEmpty bool

	// verbose includes per-opportunity reasons and the diagnostic log.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with reasons and diagnostics.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.AnalyzeReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeOpportunities(&sb, report)
	w.writeClusters(&sb, report)
	w.writeErrors(&sb, report)
	if w.verbose {
		w.writeDiagnostics(&sb, report)
	}
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.AnalyzeReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      INTERNAL LINK REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Pillar:        %s\n", report.PillarURL))
	sb.WriteString(fmt.Sprintf("Mode:          %s\n", report.Summary.Mode))
	sb.WriteString(fmt.Sprintf("Pages Scanned: %d\n", report.Summary.PagesScanned))
	sb.WriteString(fmt.Sprintf("Opportunities: %d\n", report.Summary.TotalOpportunities))
	sb.WriteString(fmt.Sprintf("Duration:      %s\n", report.Duration().Round(durationPrecision)))

	if len(report.Errors) > 0 {
		sb.WriteString(fmt.Sprintf("Status:        %d page(s) failed (partial results)\n", len(report.Errors)))
	} else {
		sb.WriteString("Status:        Complete\n")
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeOpportunities(sb *strings.Builder, report *model.AnalyzeReport) {
	if len(report.Opportunities) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("LINK OPPORTUNITIES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Opportunities) == 0 {
		sb.WriteString("  No opportunities found\n\n")
		return
	}

	for i, opp := range report.Opportunities {
		sb.WriteString(fmt.Sprintf("  %d. %q (score %.2f)\n", i+1, opp.Anchor, opp.Score))
		sb.WriteString(fmt.Sprintf("     Source:  %s\n", opp.SourceURL))
		sb.WriteString(fmt.Sprintf("     Target:  %s\n", opp.TargetURL))
		sb.WriteString(fmt.Sprintf("     Excerpt: %s\n", opp.Excerpt))
		if w.verbose && opp.Reason != "" {
			sb.WriteString(fmt.Sprintf("     Reason:  %s\n", opp.Reason))
		}
		sb.WriteString("\n")
	}
}

func (w *SimpleWriter) writeClusters(sb *strings.Builder, report *model.AnalyzeReport) {
	if len(report.Clusters.Pillars) == 0 && !w.showEmpty {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("TOPIC CLUSTERS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	if len(report.Clusters.Pillars) == 0 {
		sb.WriteString("  No clusters derived\n\n")
		return
	}

	for _, pillar := range report.Clusters.Pillars {
		sb.WriteString(fmt.Sprintf("  [P] %s\n", pillar))
		for _, sat := range report.Clusters.Satellites[pillar] {
			sb.WriteString(fmt.Sprintf("      - %s\n", sat))
		}
	}
	sb.WriteString("\n")

	labels := make([]string, 0, len(report.Clusters.ClusterIndex))
	for label := range report.Clusters.ClusterIndex {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	for _, label := range labels {
		sb.WriteString(fmt.Sprintf("  %s: %d page(s)\n", label, len(report.Clusters.ClusterIndex[label])))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeErrors(sb *strings.Builder, report *model.AnalyzeReport) {
	if len(report.Errors) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("PAGE FAILURES\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, e := range report.Errors {
		sb.WriteString(fmt.Sprintf("  [!] %s\n", e))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeDiagnostics(sb *strings.Builder, report *model.AnalyzeReport) {
	if len(report.Diagnostics) == 0 {
		return
	}

	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("DIAGNOSTICS\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	for _, d := range report.Diagnostics {
		sb.WriteString(fmt.Sprintf("  * %s\n", d))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by SiteAI\n")
	sb.WriteString("https://github.com/YanFonsecaz/SiteAI\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
