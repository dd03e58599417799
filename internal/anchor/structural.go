package anchor

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// blockSelector matches elements whose text commonly contains a full
// sentence excerpt.
const blockSelector = "p, li, div, blockquote, td, article, section, h1, h2, h3, h4, h5, h6, span"

// Structural runs the DOM safety pass: it rejects opportunities whose
// insertion would land in a heading, inside an existing link or
// button, or next to a link that already carries the anchor text.
type Structural struct {
	logger *slog.Logger
}

// NewStructural creates the DOM validator.
func NewStructural(logger *slog.Logger) *Structural {
	if logger == nil {
		logger = slog.Default()
	}
	return &Structural{logger: logger}
}

// Validate checks each opportunity against the page's raw HTML. With
// no HTML available (reader-proxy-only pages) the pass is a no-op and
// every opportunity goes through unchanged.
func (s *Structural) Validate(opps []model.AnchorOpportunity, rawHTML string) ([]model.AnchorOpportunity, []string) {
	if rawHTML == "" || len(opps) == 0 {
		return opps, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		// Unparseable HTML gives us nothing to check against.
		return opps, []string{fmt.Sprintf("structural pass skipped: %v", err)}
	}

	var headings []string
	doc.Find("h1, h2, h3, h4, h5, h6").Each(func(_ int, el *goquery.Selection) {
		headings = append(headings, normalizeText(el.Text()))
	})

	var valid []model.AnchorOpportunity
	var diagnostics []string

	for _, opp := range opps {
		anchor := strings.TrimSpace(opp.Anchor)
		anchorNorm := normalizeText(anchor)

		if overlapsHeading(anchorNorm, headings) {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: anchor overlaps a heading", anchor))
			continue
		}

		safe, found, reason := s.checkPlacement(doc, anchor, opp.Excerpt)
		if !safe {
			diagnostics = append(diagnostics, fmt.Sprintf("rejected %q: %s", anchor, reason))
			continue
		}
		if !found {
			// Enclosing block not located; the page-wide check above
			// passed, so accept with reduced confidence.
			diagnostics = append(diagnostics, fmt.Sprintf("accepted %q with low confidence: excerpt not located in DOM", anchor))
			s.logger.Debug("structural context not found, accepting on page-wide check", "anchor", anchor)
		}

		valid = append(valid, opp)
	}

	return valid, diagnostics
}

// overlapsHeading applies the aggressive heading rule: containment in
// either direction rejects.
func overlapsHeading(anchorNorm string, headings []string) bool {
	for _, h := range headings {
		if h == "" {
			continue
		}
		if strings.Contains(h, anchorNorm) || strings.Contains(anchorNorm, h) {
			return true
		}
	}
	return false
}

// checkPlacement locates a block element containing the excerpt and
// inspects it for link collisions. When no block contains the excerpt
// it falls back to a page-wide anchor-in-link scan, favoring precision:
// any existing link carrying the anchor text rejects the candidate.
func (s *Structural) checkPlacement(doc *goquery.Document, anchor, excerpt string) (safe, found bool, reason string) {
	excerptNorm := collapseSpace(excerpt)
	safe = true

	doc.Find(blockSelector).EachWithBreak(func(_ int, el *goquery.Selection) bool {
		if !strings.Contains(collapseSpace(el.Text()), excerptNorm) {
			return true
		}
		found = true

		if el.Is("a, button") || el.ParentsFiltered("a, button").Length() > 0 {
			safe = false
			reason = "excerpt sits inside a link or button"
			return false
		}

		collision := el.Find("a, button").FilterFunction(func(_ int, child *goquery.Selection) bool {
			return strings.Contains(child.Text(), anchor)
		})
		if collision.Length() > 0 {
			safe = false
			reason = "anchor already linked within its sentence block"
			return false
		}
		return true
	})

	if !found && safe {
		linked := doc.Find("a, button").FilterFunction(func(_ int, el *goquery.Selection) bool {
			return strings.Contains(el.Text(), anchor)
		})
		if linked.Length() > 0 {
			safe = false
			reason = "excerpt not located and anchor appears in an existing link"
		}
	}

	return safe, found, reason
}
