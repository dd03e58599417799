package anchor

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/YanFonsecaz/SiteAI/internal/llm"
	"github.com/YanFonsecaz/SiteAI/internal/model"
	"github.com/YanFonsecaz/SiteAI/internal/vector"
)

const (
	// maxContextInput caps the flat-slice fallback context.
	maxContextInput = 20000

	// openingSlice is how much of the source's opening always joins the
	// retrieval-built context, so the model sees what the page is about.
	openingSlice = 4000

	// retrievalPerTarget is how many chunks are retrieved per target topic.
	retrievalPerTarget = 3

	// overProposeFactor asks the model for extra candidates to survive
	// downstream rejection.
	overProposeFactor = 1.5

	// proposeTemperature adds slight variety to anchor wording choices.
	proposeTemperature = 0.3
)

const proposerSystemPrompt = `Act as a senior specialist in link building and technical SEO.
Your mission is to identify precise internal-link opportunities inside
the MAIN EDITORIAL CONTENT of a page.

WHERE NOT TO LINK:
1. Navigation: menus, breadcrumbs, footers.
2. Sidebars and widgets: "popular posts", category lists, subscribe areas.
3. Short feature or product bullets.
4. CTAs and buttons: "click here", "learn more", "buy now".
5. Author bios.
6. Headings: never place links in H1, H2 or H3 text.

WHERE TO LINK:
1. Narrative paragraphs where the author explains, tells or argues.
2. Long explanatory list items that develop a step or concept.
3. Sentences where the anchor reads as a natural grammatical part.

QUALITY CRITERIA:
1. Extreme relevance: the link must help a reader of that exact sentence.
2. Naturalness: never force a term into place.
3. Length: one to five words. Prefer multi-word anchors; a single word
   is acceptable only for well-known acronyms or brand names.

HARD CONSTRAINTS:
- The anchor text must already exist character for character in the
  source text. No paraphrasing, no invented wording.
- Do not propose an anchor inside a sentence that already carries a link.
- Choose target_url strictly from the provided target list.

Respond with a JSON object:
{"opportunities": [{"anchor": "...", "excerpt": "<the full sentence containing the anchor>", "target_url": "...", "target_topic": "...", "reason": "...", "score": 0.0}]}
score is the 0-1 relevance of the opportunity. Output strictly JSON.`

// Candidate is one raw model suggestion. Every field is untrusted
// until the validator has re-derived or confirmed it.
type Candidate struct {
	Anchor      string  `json:"anchor"`
	Excerpt     string  `json:"excerpt"`
	TargetURL   string  `json:"target_url"`
	TargetTopic string  `json:"target_topic"`
	Reason      string  `json:"reason,omitempty"`
	Score       float64 `json:"score"`
}

// Retriever supplies passages of a source page relevant to a query.
// Satisfied by vector.Indexer; nil disables retrieval.
type Retriever interface {
	Retrieve(ctx context.Context, query string, k int, url string) []vector.Match
}

// Proposer asks the model for link candidates over a bounded context.
type Proposer struct {
	provider  llm.Provider
	retriever Retriever
	logger    *slog.Logger
}

// NewProposer creates a proposer. retriever may be nil, in which case
// the context window is always a flat slice of the source text.
func NewProposer(provider llm.Provider, retriever Retriever, logger *slog.Logger) *Proposer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Proposer{provider: provider, retriever: retriever, logger: logger}
}

// Propose requests candidates linking from the source text toward the
// given targets. Unlike the enrichment stages, an error here is the
// pipeline's hard failure for the page: without a model there is
// nothing to analyze.
func (p *Proposer) Propose(ctx context.Context, sourceText string, targets []model.TargetDescriptor, originURL string, maxCount int) ([]Candidate, error) {
	if strings.TrimSpace(sourceText) == "" {
		return nil, fmt.Errorf("anchor: no source text for %s", originURL)
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("anchor: no targets for %s", originURL)
	}
	if maxCount <= 0 {
		maxCount = 3
	}

	requested := int(math.Ceil(float64(maxCount) * overProposeFactor))

	answer, err := p.provider.Complete(ctx, llm.Request{
		System: proposerSystemPrompt,
		Prompt: fmt.Sprintf(
			"Text under analysis:\n%s\n\n---\n\nLink targets:\n%s\n\n---\n\nFind up to %d best opportunities. Return JSON.",
			p.buildContext(ctx, sourceText, targets, originURL),
			describeTargets(targets),
			requested,
		),
		Temperature: proposeTemperature,
		ForceJSON:   true,
	})
	if err != nil {
		return nil, fmt.Errorf("anchor: propose for %s: %w", originURL, err)
	}

	var result struct {
		Opportunities []Candidate `json:"opportunities"`
	}
	if err := json.Unmarshal([]byte(stripFences(answer)), &result); err != nil {
		return nil, fmt.Errorf("anchor: malformed proposal output for %s: %w", originURL, err)
	}
	return result.Opportunities, nil
}

// buildContext assembles the analysis window: passages retrieved per
// target topic, unioned with the page opening. When retrieval yields
// nothing the whole window falls back to a flat slice.
func (p *Proposer) buildContext(ctx context.Context, sourceText string, targets []model.TargetDescriptor, originURL string) string {
	if p.retriever == nil {
		return headRunes(sourceText, maxContextInput)
	}

	seen := make(map[string]bool)
	var passages []string
	for _, t := range targets {
		for _, topic := range t.Clusters {
			for _, m := range p.retriever.Retrieve(ctx, topic, retrievalPerTarget, originURL) {
				if !seen[m.Text] {
					seen[m.Text] = true
					passages = append(passages, m.Text)
				}
			}
		}
	}
	if len(passages) == 0 {
		p.logger.Debug("no passages retrieved, using flat context", "url", originURL)
		return headRunes(sourceText, maxContextInput)
	}

	opening := headRunes(sourceText, openingSlice)
	parts := append([]string{opening}, passages...)
	return headRunes(strings.Join(parts, "\n\n"), maxContextInput)
}

func describeTargets(targets []model.TargetDescriptor) string {
	lines := make([]string, len(targets))
	for i, t := range targets {
		theme := t.Theme
		if theme == "" {
			theme = "N/A"
		}
		intent := t.Intent
		if intent == "" {
			intent = "N/A"
		}
		lines[i] = fmt.Sprintf("- URL: %s\n  Topics: %s\n  Theme: %s\n  Intent: %s",
			t.URL, strings.Join(t.Clusters, ", "), theme, intent)
	}
	return strings.Join(lines, "\n\n")
}

func headRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// stripFences removes a markdown code fence wrapper some models emit
// around JSON despite the response-format hint.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
