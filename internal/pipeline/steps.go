package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/YanFonsecaz/SiteAI/internal/anchor"
	"github.com/YanFonsecaz/SiteAI/internal/classify"
	"github.com/YanFonsecaz/SiteAI/internal/cleaner"
	"github.com/YanFonsecaz/SiteAI/internal/fetch"
	"github.com/YanFonsecaz/SiteAI/internal/vector"
)

// boundedCtx derives a per-call context when the step carries a
// timeout; the zero timeout inherits the pipeline's deadline.
func boundedCtx(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, timeout)
}

// FetchStep acquires the page through the tiered fetcher. A page where
// every tier came back empty is a critical failure: nothing downstream
// can run without content.
type FetchStep struct {
	fetcher *fetch.Fetcher
}

// NewFetchStep creates the fetch step.
func NewFetchStep(fetcher *fetch.Fetcher) *FetchStep {
	return &FetchStep{fetcher: fetcher}
}

// Name returns the step name.
func (s *FetchStep) Name() string { return "fetch" }

// Do fetches and cleans the page.
func (s *FetchStep) Do(ctx context.Context, result *PageResult) error {
	content := s.fetcher.Fetch(ctx, result.URL)
	result.Content = content
	if content.Empty() {
		return fmt.Errorf("pipeline: no fetch tier produced content for %s", result.URL)
	}
	return nil
}

// SanitizeStep runs the model-assisted boilerplate removal pass over
// the cleaned text. The sanitizer never fails: on any problem the
// input passes through unchanged, so this step has no error path.
type SanitizeStep struct {
	sanitizer *cleaner.Sanitizer
	timeout   time.Duration
}

// NewSanitizeStep creates the sanitize step. timeout bounds the model
// call; zero inherits the pipeline deadline.
func NewSanitizeStep(sanitizer *cleaner.Sanitizer, timeout time.Duration) *SanitizeStep {
	return &SanitizeStep{sanitizer: sanitizer, timeout: timeout}
}

// Name returns the step name.
func (s *SanitizeStep) Name() string { return "sanitize" }

// Do replaces the page content with its sanitized form.
func (s *SanitizeStep) Do(ctx context.Context, result *PageResult) error {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	result.Content.Content = s.sanitizer.Sanitize(ctx, result.Content.Content)
	return nil
}

// IndexStep chunks and embeds the page into the vector store so the
// proposal phase can retrieve topic-relevant passages. Indexing is an
// enrichment: failure degrades proposal context, nothing else.
type IndexStep struct {
	indexer *vector.Indexer
}

// NewIndexStep creates the index step.
func NewIndexStep(indexer *vector.Indexer) *IndexStep {
	return &IndexStep{indexer: indexer}
}

// Name returns the step name.
func (s *IndexStep) Name() string { return "index" }

// Do indexes the page content, recording failure as a diagnostic.
func (s *IndexStep) Do(ctx context.Context, result *PageResult) error {
	if err := s.indexer.Index(ctx, result.URL, result.Content.Content); err != nil {
		result.AddDiagnostic("indexing failed for %s: %v", result.URL, err)
	}
	return nil
}

// ClassifyStep derives the page's content analysis. Classification is
// an enrichment: on failure the page keeps a nil analysis and target
// descriptors fall back to URL slug heuristics.
type ClassifyStep struct {
	classifier *classify.Classifier
	timeout    time.Duration
}

// NewClassifyStep creates the classify step.
func NewClassifyStep(classifier *classify.Classifier, timeout time.Duration) *ClassifyStep {
	return &ClassifyStep{classifier: classifier, timeout: timeout}
}

// Name returns the step name.
func (s *ClassifyStep) Name() string { return "classify" }

// Do classifies the page content, recording failure as a diagnostic.
func (s *ClassifyStep) Do(ctx context.Context, result *PageResult) error {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	analysis, err := s.classifier.Classify(ctx, result.Content.Content, result.Content.Title)
	if err != nil {
		result.AddDiagnostic("classification failed for %s: %v", result.URL, err)
		return nil
	}
	result.Analysis = analysis
	return nil
}

// ProposeStep asks the model for anchor candidates toward the page's
// targets. A proposal failure is critical: the page has no analysis
// product without it.
type ProposeStep struct {
	proposer *anchor.Proposer
	timeout  time.Duration
}

// NewProposeStep creates the propose step.
func NewProposeStep(proposer *anchor.Proposer, timeout time.Duration) *ProposeStep {
	return &ProposeStep{proposer: proposer, timeout: timeout}
}

// Name returns the step name.
func (s *ProposeStep) Name() string { return "propose" }

// Do requests candidates for the page.
func (s *ProposeStep) Do(ctx context.Context, result *PageResult) error {
	ctx, cancel := boundedCtx(ctx, s.timeout)
	defer cancel()

	candidates, err := s.proposer.Propose(ctx, result.Content.Content, result.Targets, result.URL, result.MaxAnchors)
	if err != nil {
		return err
	}
	result.Candidates = candidates
	return nil
}

// ValidateStep runs the deterministic filter chain over the raw
// candidates. Rejections are diagnostics, never errors: a page where
// every candidate dies simply yields zero opportunities.
type ValidateStep struct {
	validator *anchor.Validator
}

// NewValidateStep creates the validate step.
func NewValidateStep(validator *anchor.Validator) *ValidateStep {
	return &ValidateStep{validator: validator}
}

// Name returns the step name.
func (s *ValidateStep) Name() string { return "validate" }

// Do validates the candidates against the page's source text.
func (s *ValidateStep) Do(_ context.Context, result *PageResult) error {
	opps, diags := s.validator.Validate(result.Candidates, result.Content.Content, result.Targets, result.URL, result.MaxAnchors)
	result.Opportunities = opps
	result.Diagnostics = append(result.Diagnostics, diags...)
	return nil
}

// StructuralStep runs the DOM safety pass over the surviving
// opportunities. Pages without raw HTML pass through unchanged.
type StructuralStep struct {
	structural *anchor.Structural
}

// NewStructuralStep creates the structural step.
func NewStructuralStep(structural *anchor.Structural) *StructuralStep {
	return &StructuralStep{structural: structural}
}

// Name returns the step name.
func (s *StructuralStep) Name() string { return "structural" }

// Do filters the opportunities against the page's raw HTML.
func (s *StructuralStep) Do(_ context.Context, result *PageResult) error {
	opps, diags := s.structural.Validate(result.Opportunities, result.Content.RawHTML)
	result.Opportunities = opps
	result.Diagnostics = append(result.Diagnostics, diags...)
	return nil
}
