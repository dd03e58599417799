package fetch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"github.com/YanFonsecaz/SiteAI/internal/cleaner"
	"github.com/YanFonsecaz/SiteAI/internal/config"
	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// maxBodySize caps response bodies so a misbehaving server cannot
// exhaust memory.
const maxBodySize = 10 << 20 // 10 MiB

// ErrorTitle marks content whose extraction failed across all tiers.
const ErrorTitle = "extraction failed"

// strategy is one way of acquiring a page.
type strategy interface {
	name() string
	fetch(ctx context.Context, url string) (*model.ExtractedContent, error)
}

// Fetcher tries strategies in order until one yields sufficient
// content, keeping the longest result seen along the way.
type Fetcher struct {
	strategies []strategy
	minContent int
	timeout    time.Duration
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*options)

type options struct {
	userAgent      string
	readerProxyURL string
	disableBrowser bool
	minContent     int
	timeout        time.Duration
	client         *http.Client
	logger         *slog.Logger
}

// WithUserAgent overrides the User-Agent for the direct and browser tiers.
func WithUserAgent(ua string) Option {
	return func(o *options) {
		if ua != "" {
			o.userAgent = ua
		}
	}
}

// WithReaderProxy sets the reader proxy prefix. Empty disables the tier.
func WithReaderProxy(u string) Option {
	return func(o *options) { o.readerProxyURL = u }
}

// WithoutBrowser removes the headless browser tier.
func WithoutBrowser() Option {
	return func(o *options) { o.disableBrowser = true }
}

// WithMinContent sets the cleaned-length threshold below which the
// next tier is attempted.
func WithMinContent(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.minContent = n
		}
	}
}

// WithTimeout bounds each tier independently.
func WithTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.timeout = d
		}
	}
}

// WithHTTPClient substitutes the HTTP client for the direct and reader tiers.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		if client != nil {
			o.client = client
		}
	}
}

// WithLogger sets the logger for tier escalation events.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// NewFetcher builds the strategy chain from options.
func NewFetcher(opts ...Option) *Fetcher {
	o := &options{
		userAgent:      config.DefaultUserAgent,
		readerProxyURL: config.DefaultReaderProxyURL,
		minContent:     config.DefaultMinContentLength,
		timeout:        config.DefaultFetchTimeout,
		client:         &http.Client{},
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}

	chain := []strategy{
		&directStrategy{client: o.client, userAgent: o.userAgent},
	}
	if o.readerProxyURL != "" {
		chain = append(chain, &readerStrategy{client: o.client, proxyURL: o.readerProxyURL})
	}
	if !o.disableBrowser {
		chain = append(chain, &browserStrategy{userAgent: o.userAgent})
	}

	return &Fetcher{
		strategies: chain,
		minContent: o.minContent,
		timeout:    o.timeout,
		logger:     o.logger,
	}
}

// Fetch walks the strategy chain for url. It never fails: when every
// tier errors or comes back empty, the result carries an error title
// and no content, which the caller records as a diagnostic.
func (f *Fetcher) Fetch(ctx context.Context, url string) *model.ExtractedContent {
	best := &model.ExtractedContent{URL: url, Title: ErrorTitle}

	// Raw HTML from an earlier tier still serves placement checks when
	// a later text-only tier wins on content length.
	var rawHTML string

	for _, s := range f.strategies {
		tierCtx, cancel := context.WithTimeout(ctx, f.timeout)
		result, err := s.fetch(tierCtx, url)
		cancel()

		if err != nil {
			f.logger.Warn("fetch tier failed", "tier", s.name(), "url", url, "error", err)
			if ctx.Err() != nil {
				break
			}
			continue
		}

		if result.RawHTML != "" {
			rawHTML = result.RawHTML
		}
		if len(result.Content) > len(best.Content) || best.Title == ErrorTitle {
			best = result
		}
		if f.sufficient(best) {
			break
		}
		f.logger.Debug("fetch tier insufficient, escalating",
			"tier", s.name(), "url", url, "length", len(result.Content))
	}

	if best.RawHTML == "" {
		best.RawHTML = rawHTML
	}
	best.URL = url
	return best
}

func (f *Fetcher) sufficient(c *model.ExtractedContent) bool {
	return c != nil && len(strings.TrimSpace(c.Content)) >= f.minContent
}

// directStrategy fetches the page itself, disguised as a regular
// browser visit. Plenty of sites serve bots a stripped page or a 403.
type directStrategy struct {
	client    *http.Client
	userAgent string
}

func (d *directStrategy) name() string { return "direct" }

func (d *directStrategy) fetch(ctx context.Context, url string) (*model.ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: create request: %w", err)
	}

	req.Header.Set("User-Agent", d.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8,application/signed-exchange;v=b3;q=0.7")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Cache-Control", "max-age=0")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Ch-Ua", `"Chromium";v="122", "Not(A:Brand";v="24", "Google Chrome";v="122"`)
	req.Header.Set("Sec-Ch-Ua-Mobile", "?0")
	req.Header.Set("Sec-Ch-Ua-Platform", `"macOS"`)
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
	req.Header.Set("Referer", "https://www.google.com/")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: direct request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: direct request status %d", resp.StatusCode)
	}

	// Charset-aware decoding: plenty of older sites still serve
	// latin-1 or GBK pages.
	decoded, err := charset.NewReader(io.LimitReader(resp.Body, maxBodySize), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("fetch: detect charset: %w", err)
	}
	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("fetch: read body: %w", err)
	}

	html := string(body)
	title := cleaner.Title(html)
	content, err := cleaner.Clean(html)
	if err != nil {
		return nil, err
	}

	return &model.ExtractedContent{
		URL:     url,
		Title:   title,
		Content: withTitleHeading(title, content),
		RawHTML: html,
	}, nil
}

// readerStrategy fetches the page through a markdown reader proxy,
// which renders JavaScript server-side and strips most furniture.
type readerStrategy struct {
	client   *http.Client
	proxyURL string
}

func (r *readerStrategy) name() string { return "reader" }

func (r *readerStrategy) fetch(ctx context.Context, url string) (*model.ExtractedContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.proxyURL+url, nil)
	if err != nil {
		return nil, fmt.Errorf("fetch: create reader request: %w", err)
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch: reader request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch: reader request status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("fetch: read reader body: %w", err)
	}

	raw := string(body)
	title := readerTitle(raw)
	content := cleaner.CleanMarkdown(raw)

	return &model.ExtractedContent{
		URL:     url,
		Title:   title,
		Content: withTitleHeading(title, content),
	}, nil
}

// readerTitle derives a title from the proxy's first line, which is
// usually a "Title:" metadata header.
func readerTitle(raw string) string {
	first, _, _ := strings.Cut(raw, "\n")
	first = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(first), "Title:"))
	if first == "" {
		return "Untitled"
	}
	return first
}

// withTitleHeading prepends a markdown title so the model always sees
// what the page is about, without duplicating one already present.
func withTitleHeading(title, content string) string {
	trimmed := strings.TrimSpace(content)
	if title == "" || title == "Untitled" {
		return trimmed
	}
	if strings.HasPrefix(trimmed, "#") || strings.Contains(trimmed, title) {
		return trimmed
	}
	return "# " + title + "\n\n" + trimmed
}
