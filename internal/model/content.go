package model

// ExtractedContent holds the fetched and cleaned content of a single page.
// It is produced once per source URL per run and is immutable after creation.
type ExtractedContent struct {
	// URL is the address the content was fetched from, as given by the caller.
	URL string `json:"url"`

	// Title is the page title, taken from the first h1 when present and
	// falling back to the <title> element. On total fetch failure it carries
	// a short error description instead.
	Title string `json:"title"`

	// Content is the cleaned editorial text of the page. Empty when every
	// fetch tier failed; an empty Content is never an error by itself.
	Content string `json:"content"`

	// RawHTML is the raw document as served, preserved only by fetch tiers
	// that produce HTML (direct and browser). The DOM safety validator
	// requires it; pages acquired only through the reader proxy lack it.
	RawHTML string `json:"raw_html,omitempty"`
}

// Empty reports whether the extraction produced no usable content.
func (e *ExtractedContent) Empty() bool {
	return len(e.Content) == 0
}

// ContentAnalysis is the LLM-derived classification of one page.
// It feeds cluster building and anchor-target descriptors.
type ContentAnalysis struct {
	// Theme is a one-sentence summary of what the page is about.
	Theme string `json:"theme"`

	// Intent is the search intent category: Informational, Transactional,
	// Commercial, or Navigational.
	Intent string `json:"intent"`

	// FunnelStage is the sales funnel stage: Top, Middle, or Bottom.
	FunnelStage string `json:"funnel_stage"`

	// Clusters lists the 3-5 broad topic labels the page covers.
	Clusters []string `json:"clusters"`

	// Entities lists named entities mentioned on the page.
	Entities []string `json:"entities"`
}

// TargetDescriptor is a synthetic view of a candidate link target,
// built either from URL slug heuristics or from a ContentAnalysis.
type TargetDescriptor struct {
	// URL is the target page address.
	URL string `json:"url"`

	// Clusters lists the topic labels associated with the target.
	Clusters []string `json:"clusters"`

	// Theme is the target's one-sentence theme, when known.
	Theme string `json:"theme,omitempty"`

	// Intent is the target's search intent, when known.
	Intent string `json:"intent,omitempty"`
}

// DescriptorFromAnalysis builds a TargetDescriptor from a classification.
func DescriptorFromAnalysis(url string, analysis *ContentAnalysis) TargetDescriptor {
	return TargetDescriptor{
		URL:      url,
		Clusters: analysis.Clusters,
		Theme:    analysis.Theme,
		Intent:   analysis.Intent,
	}
}

// DescriptorFromSlug builds a TargetDescriptor from the URL alone,
// deriving a single topic label from the last path segment.
// Used when no classification is available for the target.
func DescriptorFromSlug(url string) TargetDescriptor {
	return TargetDescriptor{
		URL:      url,
		Clusters: []string{SlugTopic(url)},
		Theme:    "related content",
	}
}
