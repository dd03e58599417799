package model

import "strings"

// AnchorOpportunity is a proposed internal-link insertion: anchor text,
// the sentence it occurs in, and the source and target pages.
//
// Lifecycle: created by the anchor proposer as an unvalidated candidate,
// mutated only by the validator (which rewrites Excerpt to a
// deterministically re-derived sentence) or discarded. Never mutated
// after acceptance, except for the ranker's score blend.
//
// Invariant: Excerpt contains Anchor as a literal substring, and Excerpt
// is verifiably present (after whitespace normalization) in the source
// page's cleaned content.
type AnchorOpportunity struct {
	// Anchor is the exact text to be turned into a link.
	Anchor string `json:"anchor"`

	// Excerpt is the full sentence in which the anchor occurs.
	Excerpt string `json:"excerpt"`

	// SourceURL is the page the link would be inserted into.
	SourceURL string `json:"source_url"`

	// TargetURL is the page the link points at.
	TargetURL string `json:"target_url"`

	// Score is the relevance score in [0,1]. The proposer sets the model's
	// raw score; the ranker replaces it with the blended final score.
	Score float64 `json:"score"`

	// Reason is a short justification for the insertion.
	Reason string `json:"reason,omitempty"`

	// TargetTopic is the topic label the anchor points toward.
	TargetTopic string `json:"target_topic,omitempty"`
}

// ContainsAnchor reports whether the excerpt holds the anchor text
// verbatim. Emitted opportunities always satisfy this.
func (o *AnchorOpportunity) ContainsAnchor() bool {
	return strings.Contains(o.Excerpt, o.Anchor)
}

// Key returns the deduplication key for an opportunity: the normalized
// anchor text paired with the target URL. First occurrence wins.
func (o *AnchorOpportunity) Key() string {
	return strings.ToLower(strings.TrimSpace(o.Anchor)) + "|" + o.TargetURL
}

// SelfLink reports whether the opportunity would link a page to itself.
func (o *AnchorOpportunity) SelfLink() bool {
	return SameURL(o.SourceURL, o.TargetURL)
}
