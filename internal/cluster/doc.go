// Package cluster derives the pillar/satellite structure of a site
// section from page classifications. The builder is a pure function:
// identical input order produces identical output, including tie-breaks.
package cluster
