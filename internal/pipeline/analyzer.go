package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/YanFonsecaz/SiteAI/internal/anchor"
	"github.com/YanFonsecaz/SiteAI/internal/classify"
	"github.com/YanFonsecaz/SiteAI/internal/cleaner"
	"github.com/YanFonsecaz/SiteAI/internal/cluster"
	"github.com/YanFonsecaz/SiteAI/internal/config"
	"github.com/YanFonsecaz/SiteAI/internal/fetch"
	"github.com/YanFonsecaz/SiteAI/internal/llm"
	"github.com/YanFonsecaz/SiteAI/internal/model"
	"github.com/YanFonsecaz/SiteAI/internal/vector"
)

// Analyzer owns the full analysis run: it prepares every page once
// (fetch, sanitize, index, classify), then runs the proposal phase per
// direction, and assembles the final report.
type Analyzer struct {
	cfg    *config.Config
	logger *slog.Logger

	fetcher    *fetch.Fetcher
	sanitizer  *cleaner.Sanitizer
	classifier *classify.Classifier
	indexer    *vector.Indexer
	proposer   *anchor.Proposer
	validator  *anchor.Validator
	structural *anchor.Structural

	store vector.Store
}

// NewAnalyzer wires the analysis stages from the configuration.
// Close must be called when the analyzer is no longer needed.
func NewAnalyzer(cfg *config.Config, logger *slog.Logger) (*Analyzer, error) {
	if logger == nil {
		logger = slog.Default()
	}

	clientOpts := []llm.OpenAIOption{
		llm.WithModel(cfg.Model),
		llm.WithEmbeddingModel(cfg.EmbeddingModel),
	}
	sanitizerOpts := []llm.OpenAIOption{
		llm.WithModel(config.DefaultSanitizerModel),
	}
	if cfg.BaseURL != "" {
		clientOpts = append(clientOpts, llm.WithBaseURL(cfg.BaseURL))
		sanitizerOpts = append(sanitizerOpts, llm.WithBaseURL(cfg.BaseURL))
	}
	client := llm.NewOpenAI(cfg.APIKey, clientOpts...)
	sanitizerClient := llm.NewOpenAI(cfg.APIKey, sanitizerOpts...)

	store, err := vector.Open(cfg.DBDir, vector.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("pipeline: open vector store: %w", err)
	}
	indexer := vector.NewIndexer(client, store, vector.WithLogger(logger))

	fetchOpts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.FetchTimeout),
		fetch.WithReaderProxy(cfg.ReaderProxyURL),
		fetch.WithMinContent(config.DefaultMinContentLength),
		fetch.WithLogger(logger),
	}
	if cfg.DisableBrowser {
		fetchOpts = append(fetchOpts, fetch.WithoutBrowser())
	}

	return &Analyzer{
		cfg:        cfg,
		logger:     logger,
		fetcher:    fetch.NewFetcher(fetchOpts...),
		sanitizer:  cleaner.NewSanitizer(sanitizerClient, logger),
		classifier: classify.NewClassifier(client, logger),
		indexer:    indexer,
		proposer:   anchor.NewProposer(client, indexer, logger),
		validator:  anchor.NewValidator(),
		structural: anchor.NewStructural(logger),
		store:      store,
	}, nil
}

// Close releases the analyzer's resources.
func (a *Analyzer) Close() error {
	if a.store != nil {
		return a.store.Close()
	}
	return nil
}

// Run executes the analysis under the configured overall budget and
// returns the assembled report. The report is returned even on error:
// partial results and per-page failures are worth reporting.
//
// ErrAllSourcesFailed is returned when no source page in any direction
// could be processed.
func (a *Analyzer) Run(ctx context.Context) (*model.AnalyzeReport, error) {
	if a.cfg.OverallBudget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.cfg.OverallBudget)
		defer cancel()
	}

	report := model.NewAnalyzeReport(a.cfg.PillarURL, a.cfg.Mode)
	report.StartedAt = time.Now()

	pillar := a.cfg.PillarURL
	satellites := a.dedupeSatellites(report)
	ordered := append([]string{pillar}, satellites...)

	prepared, err := a.prepare(ctx, report, ordered)
	if err != nil {
		a.finalize(report, prepared, ordered)
		return report, err
	}

	scanned, err := a.proposeDirections(ctx, report, prepared, pillar, satellites)
	if err != nil {
		a.finalize(report, prepared, ordered)
		return report, err
	}

	a.finalize(report, prepared, ordered)
	if scanned == 0 {
		return report, ErrAllSourcesFailed
	}
	return report, nil
}

// dedupeSatellites drops satellites that duplicate the pillar or each
// other after URL normalization, keeping first occurrences in order.
func (a *Analyzer) dedupeSatellites(report *model.AnalyzeReport) []string {
	seen := map[string]bool{
		model.NormalizeURLForComparison(a.cfg.PillarURL): true,
	}

	var satellites []string
	for _, s := range a.cfg.SatelliteURLs {
		key := model.NormalizeURLForComparison(s)
		if seen[key] {
			report.AddDiagnostic(fmt.Sprintf("duplicate URL skipped: %s", s))
			continue
		}
		seen[key] = true
		satellites = append(satellites, s)
	}
	return satellites
}

// prepare fetches, sanitizes, indexes and classifies every page once,
// concurrently. Classifications land in the report; failures become
// per-page errors but do not abort the run.
func (a *Analyzer) prepare(ctx context.Context, report *model.AnalyzeReport, urls []string) (map[string]*PageResult, error) {
	pages := make([]*PageResult, len(urls))
	for i, u := range urls {
		pages[i] = NewPageResult(u)
	}

	factory := func() *Pipeline {
		p := New(WithLogger(a.logger))
		p.AddSteps(NewFetchStep(a.fetcher))
		if !a.cfg.DisableSanitizer {
			p.AddStep(NewSanitizeStep(a.sanitizer, a.cfg.ModelTimeout))
		}
		p.AddSteps(
			NewIndexStep(a.indexer),
			NewClassifyStep(a.classifier, a.cfg.ModelTimeout),
		)
		return p
	}

	bp := NewBatchProcessor(factory,
		WithConcurrency(a.cfg.BatchSize),
		WithBatchLogger(a.logger),
	)
	err := bp.Process(ctx, pages)

	prepared := make(map[string]*PageResult, len(pages))
	for _, page := range pages {
		a.drainDiagnostics(report, page)
		if page.Failed() {
			report.AddError(fmt.Sprintf("%s: %v", page.URL, page.Err))
		} else if page.Analysis != nil {
			report.AddClassification(page.URL, page.Analysis)
		}
		prepared[model.NormalizeURLForComparison(page.URL)] = page
	}
	return prepared, err
}

// proposeDirections runs the proposal phase for each direction the
// mode selects: satellites toward the pillar first, then the pillar
// toward the satellites. Returns the number of sources that completed.
func (a *Analyzer) proposeDirections(ctx context.Context, report *model.AnalyzeReport, prepared map[string]*PageResult, pillar string, satellites []string) (int, error) {
	descriptorFor := func(url string) model.TargetDescriptor {
		if page := prepared[model.NormalizeURLForComparison(url)]; page != nil && page.Analysis != nil {
			return model.DescriptorFromAnalysis(url, page.Analysis)
		}
		return model.DescriptorFromSlug(url)
	}

	type direction struct {
		name    string
		sources []string
		targets []model.TargetDescriptor
	}

	var directions []direction
	if a.cfg.Mode.Inlinks() {
		directions = append(directions, direction{
			name:    "inlinks",
			sources: satellites,
			targets: []model.TargetDescriptor{descriptorFor(pillar)},
		})
	}
	if a.cfg.Mode.Outlinks() {
		targets := make([]model.TargetDescriptor, 0, len(satellites))
		for _, s := range satellites {
			targets = append(targets, descriptorFor(s))
		}
		directions = append(directions, direction{
			name:    "outlinks",
			sources: []string{pillar},
			targets: targets,
		})
	}

	factory := func() *Pipeline {
		p := New(WithLogger(a.logger))
		p.AddSteps(
			NewProposeStep(a.proposer, a.cfg.ModelTimeout),
			NewValidateStep(a.validator),
			NewStructuralStep(a.structural),
		)
		return p
	}

	scanned := 0
	for _, dir := range directions {
		var pages []*PageResult
		for _, src := range dir.sources {
			page := prepared[model.NormalizeURLForComparison(src)]
			if page == nil || page.Failed() {
				continue
			}
			page.Targets = dir.targets
			page.MaxAnchors = a.cfg.MaxAnchorsPerPage
			pages = append(pages, page)
		}
		if len(pages) == 0 {
			a.logger.Warn("no usable sources for direction", "direction", dir.name)
			continue
		}

		a.logger.Info("proposing links",
			"direction", dir.name,
			"sources", len(pages),
			"targets", len(dir.targets),
		)

		bp := NewBatchProcessor(factory,
			WithConcurrency(a.cfg.BatchSize),
			WithBatchLogger(a.logger),
		)
		if err := bp.Process(ctx, pages); err != nil {
			return scanned, err
		}

		for _, page := range pages {
			a.drainDiagnostics(report, page)
			if page.Failed() {
				report.AddError(fmt.Sprintf("%s: %v", page.URL, page.Err))
				continue
			}
			report.AddOpportunities(page.Opportunities)
			report.PageScanned()
			scanned++
		}
	}
	return scanned, nil
}

// drainDiagnostics moves a page's accumulated diagnostics into the
// report, so a page reused across phases reports each line once.
func (a *Analyzer) drainDiagnostics(report *model.AnalyzeReport, page *PageResult) {
	for _, d := range page.Diagnostics {
		report.AddDiagnostic(d)
	}
	page.Diagnostics = nil
}

// finalize ranks the merged opportunities, builds the cluster map from
// the gathered classifications, and stamps the summary counters.
func (a *Analyzer) finalize(report *model.AnalyzeReport, prepared map[string]*PageResult, ordered []string) {
	var entries []cluster.Entry
	for _, u := range ordered {
		if page := prepared[model.NormalizeURLForComparison(u)]; page != nil && page.Analysis != nil {
			entries = append(entries, cluster.Entry{URL: page.URL, Analysis: page.Analysis})
		}
	}
	report.Clusters = cluster.Build(entries)

	report.Opportunities = anchor.Rank(report.Opportunities)
	report.Summary.TotalOpportunities = len(report.Opportunities)
	report.FinishedAt = time.Now()
}
