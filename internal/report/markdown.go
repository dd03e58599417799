package report

import (
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// MarkdownWriter outputs reports in Markdown, for sharing with content
// teams who review opportunities before editing pages.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.AnalyzeReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeOpportunities(md, report)
	w.writeClusters(md, report)
	w.writeErrors(md, report)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.AnalyzeReport) {
	md.H1("Internal Link Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Pillar", "`" + report.PillarURL + "`"},
			{"Mode", string(report.Summary.Mode)},
			{"Pages Scanned", strconv.Itoa(report.Summary.PagesScanned)},
			{"Opportunities", strconv.Itoa(report.Summary.TotalOpportunities)},
			{"Duration", report.Duration().Round(durationPrecision).String()},
			{"Status", w.statusText(report)},
		},
	})
	md.PlainText("")

	w.writeAlert(md, report)
}

func (w *MarkdownWriter) statusText(report *model.AnalyzeReport) string {
	if len(report.Errors) > 0 {
		return fmt.Sprintf("⚠️ %d page(s) failed (partial results)", len(report.Errors))
	}
	return "✅ Complete"
}

func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, report *model.AnalyzeReport) {
	switch {
	case report.Summary.TotalOpportunities == 0:
		md.Warning("No link opportunities survived validation. Check the diagnostics for rejection reasons.")
	case len(report.Errors) > 0:
		md.Importantf(
			"%d page(s) could not be processed; the %d opportunities below cover the remaining pages.",
			len(report.Errors), report.Summary.TotalOpportunities,
		)
	default:
		md.Tipf("%d link opportunities found. Each excerpt is verified to exist verbatim on its source page.",
			report.Summary.TotalOpportunities,
		)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeOpportunities(md *markdown.Markdown, report *model.AnalyzeReport) {
	md.H2("Link Opportunities")
	md.PlainText("")

	if len(report.Opportunities) == 0 {
		md.PlainText("No opportunities found.")
		md.PlainText("")
		return
	}

	rows := make([][]string, len(report.Opportunities))
	for i, opp := range report.Opportunities {
		rows[i] = []string{
			opp.Anchor,
			truncateString(opp.SourceURL, 50),
			truncateString(opp.TargetURL, 50),
			fmt.Sprintf("%.2f", opp.Score),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Anchor", "Source", "Target", "Score"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, opp := range report.Opportunities {
		detail := fmt.Sprintf("%q - %s", opp.Excerpt, opp.Reason)
		md.Details(opp.Anchor, detail)
	}
	md.PlainText("")

	w.writeSourceChart(md, report)
}

// writeSourceChart renders a mermaid pie chart of opportunities per
// source page, a quick view of where the linking effort concentrates.
func (w *MarkdownWriter) writeSourceChart(md *markdown.Markdown, report *model.AnalyzeReport) {
	counts := make(map[string]int)
	for _, opp := range report.Opportunities {
		counts[opp.SourceURL]++
	}
	if len(counts) < 2 {
		return
	}

	sources := make([]string, 0, len(counts))
	for s := range counts {
		sources = append(sources, s)
	}
	sort.Strings(sources)

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Opportunities per Source Page"),
		piechart.WithShowData(true),
	)
	for _, s := range sources {
		chart.LabelAndIntValue(truncateString(s, 40), uint64(counts[s]))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

func (w *MarkdownWriter) writeClusters(md *markdown.Markdown, report *model.AnalyzeReport) {
	md.H2("Topic Clusters")
	md.PlainText("")

	if len(report.Clusters.Pillars) == 0 {
		md.PlainText("No clusters derived.")
		md.PlainText("")
		return
	}

	for _, pillar := range report.Clusters.Pillars {
		md.H3(pillar)
		satellites := report.Clusters.Satellites[pillar]
		if len(satellites) == 0 {
			md.PlainText("No satellites assigned.")
		} else {
			md.BulletList(satellites...)
		}
		md.PlainText("")
	}

	if len(report.Clusters.ClusterIndex) > 0 {
		labels := make([]string, 0, len(report.Clusters.ClusterIndex))
		for label := range report.Clusters.ClusterIndex {
			labels = append(labels, label)
		}
		sort.Strings(labels)

		rows := make([][]string, len(labels))
		for i, label := range labels {
			rows[i] = []string{label, strconv.Itoa(len(report.Clusters.ClusterIndex[label]))}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Topic", "Pages"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeErrors(md *markdown.Markdown, report *model.AnalyzeReport) {
	if len(report.Errors) == 0 {
		return
	}

	md.H2("Page Failures")
	md.PlainText("")
	md.BulletList(report.Errors...)
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [SiteAI](https://github.com/YanFonsecaz/SiteAI)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
