package anchor

import (
	"strings"
	"testing"

	"github.com/YanFonsecaz/SiteAI/internal/model"
)

func opp(anchor, excerpt string) model.AnchorOpportunity {
	return model.AnchorOpportunity{
		Anchor:    anchor,
		Excerpt:   excerpt,
		SourceURL: "https://x.test/post",
		TargetURL: "https://x.test/guide",
		Score:     0.9,
	}
}

// TestStructuralNoHTML tests the reader-proxy no-op path.
func TestStructuralNoHTML(t *testing.T) {
	t.Parallel()

	opps := []model.AnchorOpportunity{opp("keyword research", "A sentence with keyword research in it.")}
	got, diags := NewStructural(nil).Validate(opps, "")

	if len(got) != 1 {
		t.Errorf("Validate() dropped opportunities without HTML: %+v", got)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none", diags)
	}
}

func TestStructuralAcceptsCleanParagraph(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<h2>Unrelated heading</h2>
		<p>Our approach to keyword research starts with reader questions.</p>
	</body></html>`

	got, diags := NewStructural(nil).Validate([]model.AnchorOpportunity{
		opp("keyword research", "Our approach to keyword research starts with reader questions."),
	}, html)

	if len(got) != 1 {
		t.Fatalf("Validate() = %+v, want the opportunity accepted (diags: %v)", got, diags)
	}
	if len(diags) != 0 {
		t.Errorf("diagnostics = %v, want none for a clean paragraph", diags)
	}
}

func TestStructuralHeadingOverlap(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		heading string
		anchor  string
	}{
		{name: "anchor inside heading", heading: "A guide to keyword research basics", anchor: "keyword research"},
		{name: "heading inside anchor", heading: "research", anchor: "keyword research"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := "<html><body><h2>" + tt.heading + "</h2>" +
				"<p>Our approach to keyword research starts with reader questions.</p></body></html>"

			got, diags := NewStructural(nil).Validate([]model.AnchorOpportunity{
				opp(tt.anchor, "Our approach to keyword research starts with reader questions."),
			}, html)

			if len(got) != 0 {
				t.Errorf("Validate() accepted a heading-overlapping anchor: %+v", got)
			}
			if !strings.Contains(strings.Join(diags, "\n"), "overlaps a heading") {
				t.Errorf("diagnostics = %v, want heading overlap rejection", diags)
			}
		})
	}
}

// TestStructuralExcerptInsideLink tests rejection when the enclosing
// block is itself link or button content.
func TestStructuralExcerptInsideLink(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<a href="/elsewhere"><span>Our approach to keyword research starts with reader questions.</span></a>
	</body></html>`

	got, diags := NewStructural(nil).Validate([]model.AnchorOpportunity{
		opp("keyword research", "Our approach to keyword research starts with reader questions."),
	}, html)

	if len(got) != 0 {
		t.Errorf("Validate() accepted an excerpt inside a link: %+v", got)
	}
	if !strings.Contains(strings.Join(diags, "\n"), "inside a link or button") {
		t.Errorf("diagnostics = %v, want link-context rejection", diags)
	}
}

// TestStructuralAnchorAlreadyLinked tests rejection when the sentence
// block already links the anchor text.
func TestStructuralAnchorAlreadyLinked(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<p>Our approach to <a href="/old">keyword research</a> starts with reader questions.</p>
	</body></html>`

	got, diags := NewStructural(nil).Validate([]model.AnchorOpportunity{
		opp("keyword research", "Our approach to keyword research starts with reader questions."),
	}, html)

	if len(got) != 0 {
		t.Errorf("Validate() accepted an already-linked anchor: %+v", got)
	}
	if !strings.Contains(strings.Join(diags, "\n"), "already linked") {
		t.Errorf("diagnostics = %v, want link collision rejection", diags)
	}
}

// TestStructuralPageWideFallback tests the precision-favoring path when
// the excerpt cannot be located in any block.
func TestStructuralPageWideFallback(t *testing.T) {
	t.Parallel()

	t.Run("anchor linked elsewhere rejects", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<p>Entirely different paragraph text.</p>
			<a href="/nav">keyword research</a>
		</body></html>`

		got, diags := NewStructural(nil).Validate([]model.AnchorOpportunity{
			opp("keyword research", "Our approach to keyword research starts with reader questions."),
		}, html)

		if len(got) != 0 {
			t.Errorf("Validate() accepted despite a page-wide link collision: %+v", got)
		}
		if !strings.Contains(strings.Join(diags, "\n"), "existing link") {
			t.Errorf("diagnostics = %v, want page-wide rejection", diags)
		}
	})

	t.Run("no collision accepts with low confidence", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
			<p>Entirely different paragraph text.</p>
		</body></html>`

		got, diags := NewStructural(nil).Validate([]model.AnchorOpportunity{
			opp("keyword research", "Our approach to keyword research starts with reader questions."),
		}, html)

		if len(got) != 1 {
			t.Fatalf("Validate() = %+v, want acceptance on the page-wide check", got)
		}
		if !strings.Contains(strings.Join(diags, "\n"), "low confidence") {
			t.Errorf("diagnostics = %v, want a low-confidence note", diags)
		}
	})
}

func TestStructuralUnparseableHTMLPassesThrough(t *testing.T) {
	t.Parallel()

	// goquery parses nearly anything, so an unparseable document is not
	// constructible here; instead verify the multi-opportunity ordering
	// stays intact on a normal page.
	html := `<html><body>
		<p>First paragraph mentions keyword research early on.</p>
		<p>Second paragraph covers link building in depth here.</p>
	</body></html>`

	opps := []model.AnchorOpportunity{
		opp("keyword research", "First paragraph mentions keyword research early on."),
		opp("link building", "Second paragraph covers link building in depth here."),
	}
	got, _ := NewStructural(nil).Validate(opps, html)

	if len(got) != 2 {
		t.Fatalf("Validate() = %+v, want both accepted", got)
	}
	if got[0].Anchor != "keyword research" || got[1].Anchor != "link building" {
		t.Errorf("input order not preserved: %+v", got)
	}
}
