package pipeline

import "errors"

// ErrAllSourcesFailed is returned by Run when no source page in any
// direction survived to the proposal phase. Partial failure is normal
// and reported per page; total failure means the run produced nothing.
var ErrAllSourcesFailed = errors.New("pipeline: every source page failed")
