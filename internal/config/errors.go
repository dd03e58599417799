package config

import "errors"

// Configuration validation errors.
// These are returned by Config.Validate() so callers can use errors.Is()
// for programmatic handling while keeping human-readable messages.
var (
	// ErrNoPillar is returned when no pillar URL is specified.
	ErrNoPillar = errors.New("no pillar URL specified: provide --pillar")

	// ErrNoSatellites is returned when the satellite URL list is empty.
	ErrNoSatellites = errors.New("no satellite URLs specified: provide at least one with --satellites")

	// ErrInvalidMode is returned when the direction mode is unknown.
	ErrInvalidMode = errors.New("invalid mode: must be inlinks, outlinks, or hybrid")

	// ErrInvalidMaxAnchors is returned when the per-page anchor budget is
	// not positive.
	ErrInvalidMaxAnchors = errors.New("invalid max anchors: must be positive")

	// ErrNoAPIKey is returned when no model-service credential is given.
	// The analyzer never reads credentials from a hardcoded default.
	ErrNoAPIKey = errors.New("no API key configured: provide --api-key or set it in the config file")

	// ErrInvalidTimeout is returned when any timeout or the overall budget
	// is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrConflictingReportFormats is returned when more than one of
	// --json, --markdown, and --csv is specified.
	ErrConflictingReportFormats = errors.New("conflicting report formats: choose at most one of --json, --markdown, --csv")
)
