// Package model defines the domain types shared across the analysis
// pipeline: extracted page content, per-page classifications, anchor
// opportunities, cluster maps, and the final analyze report.
// All types are scoped to a single analysis run and are never mutated
// concurrently; each source URL's records are produced by exactly one task.
package model
