// Package cleaner extracts readable article text from fetched pages.
// It combines a deterministic goquery pass driven by a declarative
// boilerplate ruleset with an optional model-backed second pass for
// pages the heuristics cannot fully clean.
package cleaner
