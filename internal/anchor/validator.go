package anchor

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

const (
	// maxAnchorWords bounds anchor length.
	maxAnchorWords = 8

	// minSentenceLength is the shortest excerpt accepted as prose.
	minSentenceLength = 20

	// minListItemWords is the shortest list item whose content is
	// trusted as editorial rather than navigation.
	minListItemWords = 8

	// qualityBar is the preferred minimum model score. Candidates below
	// it survive only when nothing clears the bar.
	qualityBar = 0.8
)

var (
	mediaAnchorRe = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp|gif|pdf)$`)

	// allCapsTokenRe accepts short uppercase tokens (unlisted acronyms).
	allCapsTokenRe = regexp.MustCompile(`^[A-Z]{2,5}$`)

	numericOnlyRe  = regexp.MustCompile(`^[\d/.\-:]+$`)
	codeLikeRe     = regexp.MustCompile(`function\s*\(|\b(var|const|let)\s+`)
	captionStartRe = regexp.MustCompile(`(?i)^\s*(fig|figure|image|photo|video)\s*\d+`)
	listMarkerRe   = regexp.MustCompile(`^\s*([-*•]|\d+[.)])\s+`)
)

// acronymAllowlist holds single-word anchors acceptable despite their
// length: industry acronyms and terms that read as links on their own.
var acronymAllowlist = map[string]bool{
	"seo":  true,
	"sem":  true,
	"ppc":  true,
	"cro":  true,
	"serp": true,
	"ctr":  true,
	"roi":  true,
	"kpi":  true,
	"cms":  true,
	"crm":  true,
	"saas": true,
	"api":  true,
	"b2b":  true,
	"b2c":  true,
	"ux":   true,
	"ui":   true,
}

// boilerplatePhrases reject candidates whose anchor or sentence smells
// like page furniture rather than editorial prose.
var boilerplatePhrases = []string{
	"privacy policy",
	"terms of use",
	"terms of service",
	"log in",
	"login",
	"sign up",
	"sign in",
	"share this",
	"leave a comment",
	"leave a reply",
	"advertisement",
	"subscribe now",
	"cookie policy",
	"all rights reserved",
}

// Validator turns raw candidates into validated opportunities through
// a deterministic, model-free filter chain. Each filter is a named
// function; a candidate short-circuits on its first rejection.
type Validator struct{}

// NewValidator creates a validator.
func NewValidator() *Validator {
	return &Validator{}
}

// Validate filters candidates against the ground-truth source text and
// target set. Returned diagnostics describe each rejection; they are
// observations, never errors.
func (v *Validator) Validate(candidates []Candidate, sourceText string, targets []model.TargetDescriptor, originURL string, maxCount int) ([]model.AnchorOpportunity, []string) {
	if maxCount <= 0 {
		maxCount = 3
	}

	var accepted []model.AnchorOpportunity
	var diagnostics []string
	seen := make(map[string]bool)

	for _, c := range candidates {
		anchor := strings.TrimSpace(c.Anchor)
		if anchor == "" {
			diagnostics = append(diagnostics, "rejected empty anchor")
			continue
		}

		if reason := checkAnchorShape(anchor); reason != "" {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: %s", anchor, reason))
			continue
		}

		if !strings.Contains(strings.ToLower(sourceText), strings.ToLower(anchor)) {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: not present in source text", anchor))
			continue
		}

		// The model's own excerpt is never trusted; the sentence is
		// re-derived from the source text or the candidate dies here.
		sentence, matched, ok := deriveSentence(sourceText, anchor)
		if !ok {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: no valid enclosing sentence", anchor))
			continue
		}
		// The source's casing wins over the model's, so the excerpt
		// always holds the anchor verbatim.
		anchor = matched

		if reason := checkNaturalSentence(sentence); reason != "" {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: %s", anchor, reason))
			continue
		}
		if isShortListItem(sentence) {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: short list item context", anchor))
			continue
		}
		if phrase := matchBoilerplate(anchor, sentence); phrase != "" {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: boilerplate phrase %q", anchor, phrase))
			continue
		}

		target, ok := resolveTarget(c, targets)
		if !ok {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: target %q did not resolve", anchor, c.TargetURL))
			continue
		}
		if model.SameURL(target.URL, originURL) {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: self-link", anchor))
			continue
		}

		opp := model.AnchorOpportunity{
			Anchor:      anchor,
			Excerpt:     sentence,
			SourceURL:   originURL,
			TargetURL:   target.URL,
			Score:       clampScore(c.Score),
			Reason:      c.Reason,
			TargetTopic: c.TargetTopic,
		}
		if opp.Reason == "" {
			opp.Reason = "Topic: " + c.TargetTopic
		}

		if seen[opp.Key()] {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: duplicate anchor/target pair", anchor))
			continue
		}

		if !excerptInSource(sentence, sourceText) {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: excerpt not verifiable in source", anchor))
			continue
		}

		seen[opp.Key()] = true
		accepted = append(accepted, opp)
	}

	return applyQualityGate(accepted, maxCount), diagnostics
}

// checkAnchorShape rejects media filenames, over-long anchors and
// single words outside the allowlist.
func checkAnchorShape(anchor string) string {
	if mediaAnchorRe.MatchString(anchor) {
		return "media file anchor"
	}

	words := strings.Fields(anchor)
	if len(words) > maxAnchorWords {
		return fmt.Sprintf("anchor longer than %d words", maxAnchorWords)
	}
	if len(words) == 1 {
		if !acronymAllowlist[strings.ToLower(anchor)] && !allCapsTokenRe.MatchString(anchor) {
			return "single-word anchor outside allowlist"
		}
	}
	return ""
}

// searchNormalize lowers the anchor and strips markdown decoration so
// lookup matches the source text's plain form.
func searchNormalize(text string) string {
	return strings.TrimSpace(strings.ToLower(strings.NewReplacer("#", "", "*", "", "_", "", "`", "").Replace(text)))
}

// deriveSentence finds the anchor's first usable occurrence in the
// source and expands it to the nearest sentence boundaries. Occurrences
// inside markdown link syntax or unspaced URL-like tokens are skipped.
// The second return value is the matched source substring in its
// original casing.
func deriveSentence(content, anchor string) (string, string, bool) {
	clean := searchNormalize(anchor)
	if clean == "" {
		return "", "", false
	}
	lower := strings.ToLower(content)

	index := -1
	for search := 0; search < len(lower); {
		i := strings.Index(lower[search:], clean)
		if i < 0 {
			return "", "", false
		}
		i += search

		if insideMarkdownLink(content, i, len(clean)) || insideUnspacedToken(content, i, len(clean)) {
			search = i + 1
			continue
		}
		index = i
		break
	}
	if index < 0 {
		return "", "", false
	}

	start := index
	for start > 0 {
		ch := content[start-1]
		if ch == '.' || ch == '?' || ch == '!' || ch == '\n' {
			break
		}
		start--
	}

	end := index + len(clean)
	for end < len(content) {
		ch := content[end]
		end++
		if ch == '.' || ch == '?' || ch == '!' || ch == '\n' {
			break
		}
	}

	sentence := strings.TrimSpace(content[start:end])
	if strings.HasPrefix(sentence, "![") || strings.HasPrefix(sentence, "[Image") {
		return "", "", false
	}
	return sentence, content[index : index+len(clean)], true
}

// insideMarkdownLink reports whether the occurrence at index sits in
// [anchor](url) syntax, as link text or as the URL.
func insideMarkdownLink(content string, index, length int) bool {
	var prev, next byte
	if index > 0 {
		prev = content[index-1]
	}
	if index+length < len(content) {
		next = content[index+length]
	}

	if prev == '[' && (next == ']' || next == '(') {
		return true
	}
	if prev == '(' && index >= 2 && content[index-2:index] == "](" {
		return true
	}
	return false
}

// insideUnspacedToken reports whether the occurrence is embedded in a
// URL- or path-like run with no whitespace around it.
func insideUnspacedToken(content string, index, length int) bool {
	lo := index - 10
	if lo < 0 {
		lo = 0
	}
	hi := index + length + 10
	if hi > len(content) {
		hi = len(content)
	}
	surrounding := content[lo:hi]

	if strings.ContainsAny(surrounding, " \t\n") {
		return false
	}
	return strings.ContainsAny(surrounding, "/.") || strings.Contains(surrounding, "-")
}

// checkNaturalSentence rejects fragments that read as tables, code,
// dates or captions rather than prose.
func checkNaturalSentence(text string) string {
	trimmed := strings.TrimSpace(text)
	switch {
	case trimmed == "":
		return "empty sentence"
	case strings.Count(trimmed, "|") > 1:
		return "table-like fragment"
	case strings.Count(trimmed, "•") > 1:
		return "bullet-separator fragment"
	case strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") || strings.HasPrefix(trimmed, "("):
		return "code-like opening"
	case codeLikeRe.MatchString(trimmed):
		return "code-like tokens"
	case numericOnlyRe.MatchString(trimmed):
		return "numeric or date fragment"
	case len(trimmed) < minSentenceLength:
		return "sentence too short"
	case captionStartRe.MatchString(trimmed):
		return "caption fragment"
	case mediaAnchorRe.MatchString(trimmed):
		return "media filename fragment"
	}
	return ""
}

// isShortListItem reports whether the sentence is a list item too
// short to be explanatory content.
func isShortListItem(sentence string) bool {
	if !listMarkerRe.MatchString(sentence) {
		return false
	}
	stripped := listMarkerRe.ReplaceAllString(sentence, "")
	return len(strings.Fields(stripped)) < minListItemWords
}

func matchBoilerplate(anchor, sentence string) string {
	anchorLower := strings.ToLower(anchor)
	sentenceLower := strings.ToLower(sentence)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(anchorLower, phrase) || strings.Contains(sentenceLower, phrase) {
			return phrase
		}
	}
	return ""
}

// resolveTarget matches the proposed target URL exactly, falling back
// to normalized substring matching between the topic label and each
// target URL.
func resolveTarget(c Candidate, targets []model.TargetDescriptor) (model.TargetDescriptor, bool) {
	for _, t := range targets {
		if t.URL == c.TargetURL {
			return t, true
		}
	}

	topic := normalizeText(c.TargetTopic)
	if topic == "" {
		return model.TargetDescriptor{}, false
	}
	for _, t := range targets {
		u := normalizeText(t.URL)
		if strings.Contains(u, topic) || strings.Contains(topic, u) {
			return t, true
		}
	}
	return model.TargetDescriptor{}, false
}

// excerptInSource verifies the derived excerpt against the source with
// three decreasing-strictness comparisons: exact, whitespace-normalized,
// then whitespace-and-case-normalized.
func excerptInSource(excerpt, source string) bool {
	if strings.Contains(source, excerpt) {
		return true
	}
	flatExcerpt := collapseSpace(excerpt)
	flatSource := collapseSpace(source)
	if strings.Contains(flatSource, flatExcerpt) {
		return true
	}
	return strings.Contains(strings.ToLower(flatSource), strings.ToLower(flatExcerpt))
}

// applyQualityGate keeps candidates at or above the quality bar when
// any exist, sorts by score descending (stable) and truncates.
func applyQualityGate(opps []model.AnchorOpportunity, maxCount int) []model.AnchorOpportunity {
	var preferred []model.AnchorOpportunity
	for _, o := range opps {
		if o.Score >= qualityBar {
			preferred = append(preferred, o)
		}
	}
	if len(preferred) == 0 {
		preferred = opps
	}

	sort.SliceStable(preferred, func(i, j int) bool {
		return preferred[i].Score > preferred[j].Score
	})
	if len(preferred) > maxCount {
		preferred = preferred[:maxCount]
	}
	return preferred
}

func clampScore(s float64) float64 {
	if s < 0 {
		return 0
	}
	if s > 1 {
		return 1
	}
	return s
}

// normalizeText lowers text and collapses whitespace runs.
func normalizeText(text string) string {
	return strings.ToLower(collapseSpace(text))
}

func collapseSpace(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
