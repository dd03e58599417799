// Package report renders an analysis run's results for people and
// tools: plain text for the terminal, JSON for pipelines, Markdown for
// review documents, and CSV for spreadsheet triage.
//
// Report data lives in the model package; writers here only format it.
// All writers implement the Writer interface so formats compose and a
// run can emit several at once through MultiWriter.
package report
