package model

import "fmt"

// Mode selects which link directions an analysis run computes.
type Mode string

const (
	// ModeInlinks analyzes satellites as sources linking toward the pillar.
	ModeInlinks Mode = "inlinks"

	// ModeOutlinks analyzes the pillar as a source linking toward satellites.
	ModeOutlinks Mode = "outlinks"

	// ModeHybrid runs both directions: inlinks first, then outlinks.
	ModeHybrid Mode = "hybrid"
)

// ParseMode converts a string into a Mode, defaulting empty input to
// ModeInlinks.
func ParseMode(s string) (Mode, error) {
	switch Mode(s) {
	case ModeInlinks, ModeOutlinks, ModeHybrid:
		return Mode(s), nil
	case "":
		return ModeInlinks, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want inlinks, outlinks, or hybrid)", s)
	}
}

// Inlinks reports whether the mode includes the satellite-to-pillar pass.
func (m Mode) Inlinks() bool {
	return m == ModeInlinks || m == ModeHybrid
}

// Outlinks reports whether the mode includes the pillar-to-satellite pass.
func (m Mode) Outlinks() bool {
	return m == ModeOutlinks || m == ModeHybrid
}
