// Package pipeline orchestrates the analysis run. Each page moves
// through an ordered list of steps; a batch processor bounds how many
// pages run at once; the Analyzer wires both into the two-phase run:
// prepare every page, then propose links per direction.
package pipeline
