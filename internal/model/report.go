package model

import (
	"sync"
	"time"
)

// Summary holds the run-level counters reported to the caller.
type Summary struct {
	// Mode is the direction mode the run executed.
	Mode Mode `json:"mode"`

	// PagesScanned is the number of source pages successfully processed.
	PagesScanned int `json:"pages_scanned"`

	// TotalOpportunities is the number of opportunities after validation
	// and ranking.
	TotalOpportunities int `json:"total_opportunities"`
}

// AnalyzeReport is the complete result of one analysis run.
//
// The slices and maps are appended to by the batch collector while the
// run is in flight; appends go through the mutex-guarded methods below
// because batch members complete at unpredictable times. Once the run
// finishes the report is read-only.
type AnalyzeReport struct {
	// PillarURL is the pillar page the run was invoked with.
	PillarURL string `json:"pillar_url"`

	// Opportunities is the merged, ranked opportunity list across all
	// processed sources and directions.
	Opportunities []AnchorOpportunity `json:"opportunities"`

	// Clusters is the pillar/satellite map derived from classifications.
	Clusters ClusterMap `json:"clusters"`

	// Classifications maps each analyzed URL to its content analysis.
	// Pages whose classification failed are absent.
	Classifications map[string]*ContentAnalysis `json:"classifications"`

	// Diagnostics is the run's diagnostic log: tier escalations, validator
	// rejections, low-confidence acceptances.
	Diagnostics []string `json:"diagnostics"`

	// Errors lists per-page failures. A page appearing here was skipped or
	// partially processed; sibling pages are unaffected.
	Errors []string `json:"errors"`

	// Summary holds the run-level counters.
	Summary Summary `json:"summary"`

	// StartedAt and FinishedAt bound the run's wall-clock time.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	mu sync.Mutex
}

// NewAnalyzeReport creates an empty report for the given pillar and mode.
func NewAnalyzeReport(pillarURL string, mode Mode) *AnalyzeReport {
	return &AnalyzeReport{
		PillarURL:       pillarURL,
		Opportunities:   make([]AnchorOpportunity, 0),
		Clusters:        NewClusterMap(),
		Classifications: make(map[string]*ContentAnalysis),
		Diagnostics:     make([]string, 0),
		Errors:          make([]string, 0),
		Summary:         Summary{Mode: mode},
	}
}

// AddOpportunities appends validated opportunities from one source page.
func (r *AnalyzeReport) AddOpportunities(opps []AnchorOpportunity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Opportunities = append(r.Opportunities, opps...)
}

// AddClassification records a page's classification.
func (r *AnalyzeReport) AddClassification(url string, analysis *ContentAnalysis) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Classifications[url] = analysis
}

// AddDiagnostic appends a diagnostic log line.
func (r *AnalyzeReport) AddDiagnostic(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Diagnostics = append(r.Diagnostics, msg)
}

// AddError records a per-page failure message.
func (r *AnalyzeReport) AddError(msg string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Errors = append(r.Errors, msg)
}

// PageScanned increments the processed-page counter.
func (r *AnalyzeReport) PageScanned() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Summary.PagesScanned++
}

// Duration returns the run's elapsed wall-clock time.
func (r *AnalyzeReport) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt)
}
