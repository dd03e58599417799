package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/YanFonsecaz/SiteAI/internal/llm"
	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// maxAnalysisInput caps how much page text is sent to the model.
const maxAnalysisInput = 15000

const classifySystemPrompt = `You are a senior SEO strategy and semantic analysis specialist.

Analyze the provided page content and extract the strategic metadata
that guides internal linking decisions.

Definitions:
1. clusters: 3 to 5 broad semantic topics this content covers. Use
   broad categories, never long-tail keywords.
2. intent: the user's search intent, strictly one of Informational,
   Transactional, Commercial, Navigational.
3. funnel_stage: strictly one of Top, Middle, Bottom.
4. entities: relevant proper nouns (people, companies, tools,
   technologies, places). Ignore generic terms.
5. theme: one concise sentence answering "what is this page about?".

Respond with a JSON object:
{"theme": "...", "intent": "...", "funnel_stage": "...", "clusters": ["..."], "entities": ["..."]}
Output strictly the requested JSON.`

// intentLabels maps lowercase intent variants to canonical categories.
var intentLabels = map[string]string{
	"informational": "Informational",
	"informative":   "Informational",
	"transactional": "Transactional",
	"commercial":    "Commercial",
	"navigational":  "Navigational",
}

// funnelLabels maps lowercase funnel variants to canonical stages.
var funnelLabels = map[string]string{
	"top":    "Top",
	"tofu":   "Top",
	"middle": "Middle",
	"mofu":   "Middle",
	"bottom": "Bottom",
	"bofu":   "Bottom",
}

// classifyResult is the model's structured answer.
type classifyResult struct {
	Theme       string   `json:"theme"`
	Intent      string   `json:"intent"`
	FunnelStage string   `json:"funnel_stage"`
	Clusters    []string `json:"clusters"`
	Entities    []string `json:"entities"`
}

// Classifier turns page text into a ContentAnalysis.
type Classifier struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewClassifier creates a classifier backed by the given provider.
func NewClassifier(provider llm.Provider, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{provider: provider, logger: logger}
}

// Classify analyzes one page. The caller treats an error as a missing
// enrichment, not a run failure.
func (c *Classifier) Classify(ctx context.Context, content, title string) (*model.ContentAnalysis, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("classify: no content for %q", title)
	}

	input := content
	if runes := []rune(input); len(runes) > maxAnalysisInput {
		input = string(runes[:maxAnalysisInput])
	}

	answer, err := c.provider.Complete(ctx, llm.Request{
		System:    classifySystemPrompt,
		Prompt:    "Title: " + title + "\n\nContent:\n" + input,
		ForceJSON: true,
	})
	if err != nil {
		return nil, fmt.Errorf("classify: model call: %w", err)
	}

	var result classifyResult
	if err := json.Unmarshal([]byte(stripFences(answer)), &result); err != nil {
		return nil, fmt.Errorf("classify: malformed model output: %w", err)
	}
	if result.Theme == "" && len(result.Clusters) == 0 {
		return nil, fmt.Errorf("classify: empty analysis for %q", title)
	}

	return &model.ContentAnalysis{
		Theme:       result.Theme,
		Intent:      canonical(result.Intent, intentLabels),
		FunnelStage: canonical(result.FunnelStage, funnelLabels),
		Clusters:    result.Clusters,
		Entities:    result.Entities,
	}, nil
}

// canonical normalizes a label to its canonical form, keeping the raw
// value when the model invents a category.
func canonical(raw string, labels map[string]string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	if c, ok := labels[key]; ok {
		return c
	}
	// Tolerate decorated answers like "Top (ToFu)".
	for variant, c := range labels {
		if strings.HasPrefix(key, variant) {
			return c
		}
	}
	return strings.TrimSpace(raw)
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
