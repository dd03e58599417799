package cleaner

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/YanFonsecaz/SiteAI/internal/llm"
)

// minSanitizeLength gates the model pass. Shorter texts are either
// already clean or not worth a model call.
const minSanitizeLength = 300

// maxSanitizeInput caps how much text is sent to the model.
const maxSanitizeInput = 20000

const sanitizerSystemPrompt = `You are a senior web content extraction specialist.

Your task is to separate the main editorial content of a web page from
boilerplate noise. Return ONLY the journalistic or editorial text,
keeping its original markdown structure.

REMOVE:
1. Navigation: menus, breadcrumbs, "back to top", "skip to content".
2. Sidebars and widgets: popular posts, category lists, archives, social widgets.
3. Intrusive CTAs: "subscribe now", "download the ebook", newsletter prompts.
4. Footer sections: copyright, institutional links, generic author bios.
5. Metadata noise: repeated dates, tag dumps, "published on", reading time.
6. Engagement sections: comments, "leave a reply".
7. "Read also" blocks: internal links that interrupt the text.

KEEP:
1. Headings that structure the article.
2. All narrative, explanatory and opinion paragraphs.
3. Content lists that are part of the explanation.
4. Relevant blockquotes and call-out boxes.

The test: if this article were printed to read on paper, does the block
belong to the story, or is it a tool of the website? Tools go, story stays.

Respond with a JSON object:
{"main_content": "<cleaned markdown>", "is_article": <bool>, "removed_sections": ["<section kind>", ...]}
is_article is false when the text is an error page, a login page, or
otherwise carries no editorial content. Do not add commentary.`

// sanitizerResult is the model's structured answer.
type sanitizerResult struct {
	MainContent     string   `json:"main_content"`
	IsArticle       bool     `json:"is_article"`
	RemovedSections []string `json:"removed_sections"`
}

// Sanitizer runs a model-backed cleaning pass over heuristically
// cleaned text. It never fails: any model error returns the input.
type Sanitizer struct {
	provider llm.Provider
	logger   *slog.Logger
}

// NewSanitizer creates a sanitizer backed by the given provider.
func NewSanitizer(provider llm.Provider, logger *slog.Logger) *Sanitizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Sanitizer{provider: provider, logger: logger}
}

// Sanitize asks the model to strip residual boilerplate from text. The
// input is returned unchanged when it is short, the provider is
// unavailable, the call fails, the answer does not parse, or the model
// judges the text not to be an article.
func (s *Sanitizer) Sanitize(ctx context.Context, text string) string {
	if len(text) < minSanitizeLength {
		return text
	}
	if s.provider == nil || !s.provider.Available() {
		return text
	}

	input := text
	if runes := []rune(input); len(runes) > maxSanitizeInput {
		input = string(runes[:maxSanitizeInput])
	}

	answer, err := s.provider.Complete(ctx, llm.Request{
		System:    sanitizerSystemPrompt,
		Prompt:    "Clean the following raw content:\n\n---\n" + input + "\n---",
		ForceJSON: true,
	})
	if err != nil {
		s.logger.Warn("sanitizer model call failed, keeping heuristic text", "error", err)
		return text
	}

	var result sanitizerResult
	if err := json.Unmarshal([]byte(stripFences(answer)), &result); err != nil {
		s.logger.Warn("sanitizer returned malformed output, keeping heuristic text", "error", err)
		return text
	}
	if !result.IsArticle {
		s.logger.Debug("sanitizer judged text not to be an article")
		return text
	}
	if strings.TrimSpace(result.MainContent) == "" {
		return text
	}

	if len(result.RemovedSections) > 0 {
		s.logger.Debug("sanitizer removed sections", "sections", strings.Join(result.RemovedSections, ", "))
	}
	return result.MainContent
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
