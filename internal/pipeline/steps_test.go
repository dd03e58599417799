package pipeline

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/YanFonsecaz/SiteAI/internal/anchor"
	"github.com/YanFonsecaz/SiteAI/internal/classify"
	"github.com/YanFonsecaz/SiteAI/internal/cleaner"
	"github.com/YanFonsecaz/SiteAI/internal/fetch"
	"github.com/YanFonsecaz/SiteAI/internal/llm"
	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// stubProvider returns a canned answer or error for every completion.
type stubProvider struct {
	answer string
	err    error
}

func (s *stubProvider) Name() string    { return "stub" }
func (s *stubProvider) Available() bool { return true }

func (s *stubProvider) Complete(_ context.Context, _ llm.Request) (string, error) {
	return s.answer, s.err
}

const articlePage = `<html><head><title>Notes</title></head><body>
<article>
<h1>Field notes from the workshop</h1>
<p>Internal linking is one of the most underrated levers in content strategy,
and getting it right takes more patience than most teams expect to invest.</p>
<p>Our approach to keyword research starts with reader questions rather than
tool exports, because the questions reveal what the article must answer.</p>
<p>Successful link building takes patience and a methodical process to pay off,
especially for sites that publish only a handful of articles per month.</p>
</article>
</body></html>`

func testFetcher(serverClient *http.Client) *fetch.Fetcher {
	return fetch.NewFetcher(
		fetch.WithHTTPClient(serverClient),
		fetch.WithReaderProxy(""),
		fetch.WithoutBrowser(),
		fetch.WithTimeout(5*time.Second),
	)
}

func TestFetchStep(t *testing.T) {
	t.Parallel()

	t.Run("sets content", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.Write([]byte(articlePage)) //nolint:errcheck
		}))
		defer srv.Close()

		result := NewPageResult(srv.URL)
		if err := NewFetchStep(testFetcher(srv.Client())).Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.Content == nil || result.Content.Empty() {
			t.Fatal("content not set")
		}
		if !strings.Contains(result.Content.Content, "keyword research") {
			t.Errorf("content missing article text:\n%s", result.Content.Content)
		}
	})

	t.Run("empty page is critical", func(t *testing.T) {
		t.Parallel()

		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			http.NotFound(w, nil)
		}))
		defer srv.Close()

		result := NewPageResult(srv.URL)
		if err := NewFetchStep(testFetcher(srv.Client())).Do(context.Background(), result); err == nil {
			t.Error("Do() succeeded, want error for empty fetch")
		}
	})
}

func TestSanitizeStepPassesThrough(t *testing.T) {
	t.Parallel()

	// A nil provider makes the sanitizer a no-op; the step must still
	// succeed and leave the content intact.
	step := NewSanitizeStep(cleaner.NewSanitizer(nil, nil), time.Second)
	result := NewPageResult("https://x.test/page")
	result.Content = &model.ExtractedContent{URL: result.URL, Content: "original text"}

	if err := step.Do(context.Background(), result); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if result.Content.Content != "original text" {
		t.Errorf("Content = %q, want unchanged", result.Content.Content)
	}
}

func TestClassifyStep(t *testing.T) {
	t.Parallel()

	t.Run("sets analysis", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{answer: `{"theme": "internal linking", "intent": "Informational", "funnel_stage": "Top", "clusters": ["seo"], "entities": []}`}
		step := NewClassifyStep(classify.NewClassifier(provider, nil), time.Second)

		result := NewPageResult("https://x.test/page")
		result.Content = &model.ExtractedContent{URL: result.URL, Title: "Notes", Content: "Article content about internal linking."}

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v", err)
		}
		if result.Analysis == nil || result.Analysis.Theme != "internal linking" {
			t.Errorf("Analysis = %+v, want the parsed classification", result.Analysis)
		}
	})

	t.Run("failure is a diagnostic", func(t *testing.T) {
		t.Parallel()

		provider := &stubProvider{err: errors.New("model down")}
		step := NewClassifyStep(classify.NewClassifier(provider, nil), time.Second)

		result := NewPageResult("https://x.test/page")
		result.Content = &model.ExtractedContent{URL: result.URL, Content: "Article content."}

		if err := step.Do(context.Background(), result); err != nil {
			t.Fatalf("Do() error = %v, want soft failure", err)
		}
		if result.Analysis != nil {
			t.Errorf("Analysis = %+v, want nil after failed classification", result.Analysis)
		}
		if len(result.Diagnostics) != 1 {
			t.Errorf("Diagnostics = %v, want one entry", result.Diagnostics)
		}
	})
}

func TestProposeStepFailureIsCritical(t *testing.T) {
	t.Parallel()

	provider := &stubProvider{err: errors.New("model down")}
	step := NewProposeStep(anchor.NewProposer(provider, nil, nil), time.Second)

	result := NewPageResult("https://x.test/page")
	result.Content = &model.ExtractedContent{URL: result.URL, Content: "Article content."}
	result.Targets = []model.TargetDescriptor{{URL: "https://x.test/guide", Clusters: []string{"seo"}}}
	result.MaxAnchors = 3

	if err := step.Do(context.Background(), result); err == nil {
		t.Error("Do() succeeded, want error when the model fails")
	}
}

func TestValidateAndStructuralSteps(t *testing.T) {
	t.Parallel()

	sourceText := "Our approach to keyword research starts with reader questions rather than tool exports."
	rawHTML := "<html><body><p>" + sourceText + "</p></body></html>"

	result := NewPageResult("https://x.test/post")
	result.Content = &model.ExtractedContent{URL: result.URL, Content: sourceText, RawHTML: rawHTML}
	result.Targets = []model.TargetDescriptor{{URL: "https://x.test/guide", Clusters: []string{"keyword research"}}}
	result.MaxAnchors = 3
	result.Candidates = []anchor.Candidate{
		{Anchor: "keyword research", TargetURL: "https://x.test/guide", Score: 0.9},
		{Anchor: "marketing", TargetURL: "https://x.test/guide", Score: 0.9},
	}

	if err := NewValidateStep(anchor.NewValidator()).Do(context.Background(), result); err != nil {
		t.Fatalf("validate Do() error = %v", err)
	}
	if len(result.Opportunities) != 1 {
		t.Fatalf("Opportunities = %+v, want one surviving candidate", result.Opportunities)
	}
	if len(result.Diagnostics) == 0 {
		t.Error("Diagnostics empty, want the rejection recorded")
	}

	if err := NewStructuralStep(anchor.NewStructural(nil)).Do(context.Background(), result); err != nil {
		t.Fatalf("structural Do() error = %v", err)
	}
	if len(result.Opportunities) != 1 {
		t.Errorf("Opportunities = %+v, want the clean paragraph accepted", result.Opportunities)
	}
	if result.Opportunities[0].Anchor != "keyword research" {
		t.Errorf("Anchor = %q, want %q", result.Opportunities[0].Anchor, "keyword research")
	}
}
