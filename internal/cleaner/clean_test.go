package cleaner

import (
	"strings"
	"testing"
)

const articleBody = `The quick brown fox jumps over the lazy dog. This paragraph carries
enough prose to make the container the obvious main candidate for the
page, well past the teaser-card threshold used during selection. It
keeps going for a while so length-based heuristics have something to
measure against the shorter furniture that surrounds it.`

// TestCleanRemovesStructuralTags tests that script, nav and media tags
// never reach the output.
func TestCleanRemovesStructuralTags(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<nav>Main navigation</nav>
		<script>var tracked = true;</script>
		<article><p>` + articleBody + `</p></article>
		<footer>Site footer text</footer>
	</body></html>`

	got, err := Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}

	for _, junk := range []string{"Main navigation", "var tracked", "Site footer"} {
		if strings.Contains(got, junk) {
			t.Errorf("output contains removed content %q", junk)
		}
	}
	if !strings.Contains(got, "quick brown fox") {
		t.Errorf("output lost article prose: %q", got)
	}
}

// TestCleanRemovesBoilerplateRules tests the declarative ruleset.
func TestCleanRemovesBoilerplateRules(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		junk string
	}{
		{name: "sidebar", junk: `<div class="sidebar">Popular posts list</div>`},
		{name: "related posts", junk: `<div class="related-posts">You may also like</div>`},
		{name: "share buttons", junk: `<div class="social-share">Tweet this</div>`},
		{name: "author box", junk: `<div class="author-bio">About the writer</div>`},
		{name: "ads", junk: `<div class="ad-container">Buy our product</div>`},
		{name: "toc plugin", junk: `<div class="ez-toc-container">1. Intro 2. Body</div>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><body><article><p>` + articleBody + `</p>` + tt.junk + `</article></body></html>`

			got, err := Clean(html)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			if !strings.Contains(got, "quick brown fox") {
				t.Fatalf("article prose lost: %q", got)
			}
			// The junk div's text must be gone.
			inner := tt.junk[strings.Index(tt.junk, ">")+1 : strings.LastIndex(tt.junk, "<")]
			if strings.Contains(got, inner) {
				t.Errorf("boilerplate %q survived cleaning", inner)
			}
		})
	}
}

// TestCleanPicksLongestMainCandidate tests container selection among
// multiple article-like elements.
func TestCleanPicksLongestMainCandidate(t *testing.T) {
	t.Parallel()

	html := `<html><body>
		<article><p>Short teaser card text.</p></article>
		<article><p>` + articleBody + `</p></article>
	</body></html>`

	got, err := Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(got, "quick brown fox") {
		t.Errorf("longest candidate not selected: %q", got)
	}
	if strings.Contains(got, "Short teaser card") {
		t.Errorf("teaser candidate leaked into output: %q", got)
	}
}

// TestCleanBodyFallback tests that pages without article containers
// still produce text.
func TestCleanBodyFallback(t *testing.T) {
	t.Parallel()

	html := `<html><body><div><p>` + articleBody + `</p></div></body></html>`

	got, err := Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(got, "quick brown fox") {
		t.Errorf("body fallback lost prose: %q", got)
	}
}

// TestCleanFinePass tests in-container removal of hidden elements,
// navigation fragments and link-dominated lists.
func TestCleanFinePass(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		extra   string
		missing string
	}{
		{
			name:    "hidden element",
			extra:   `<p style="display: none">Secret promo text</p>`,
			missing: "Secret promo text",
		},
		{
			name:    "aria hidden",
			extra:   `<p aria-hidden="true">Screen reader noise</p>`,
			missing: "Screen reader noise",
		},
		{
			name:    "see also fragment",
			extra:   `<p>See also: our other guide on ferrets</p>`,
			missing: "other guide on ferrets",
		},
		{
			name:    "tag dump",
			extra:   `<p>Tags: foxes, dogs, jumping</p>`,
			missing: "foxes, dogs, jumping",
		},
		{
			name:    "read more link paragraph",
			extra:   `<p><a href="/next">Read more about foxes</a></p>`,
			missing: "Read more about foxes",
		},
		{
			name:    "link-only list",
			extra:   `<ul><li><a href="/a">First link</a></li><li><a href="/b">Second link</a></li><li><a href="/c">Third link</a></li></ul>`,
			missing: "First link",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			html := `<html><body><article><p>` + articleBody + `</p>` + tt.extra + `</article></body></html>`

			got, err := Clean(html)
			if err != nil {
				t.Fatalf("Clean() error = %v", err)
			}
			if !strings.Contains(got, "quick brown fox") {
				t.Fatalf("article prose lost: %q", got)
			}
			if strings.Contains(got, tt.missing) {
				t.Errorf("fine pass kept %q:\n%s", tt.missing, got)
			}
		})
	}
}

// TestCleanKeepsContentLists tests that explanatory lists survive.
func TestCleanKeepsContentLists(t *testing.T) {
	t.Parallel()

	html := `<html><body><article><p>` + articleBody + `</p>
		<ul><li>Boil the water first</li><li>Add the leaves</li><li>Wait four minutes</li></ul>
	</article></body></html>`

	got, err := Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(got, "Boil the water") {
		t.Errorf("content list removed: %q", got)
	}
}

// TestCleanPreservesParagraphBreaks tests block-level newline structure.
func TestCleanPreservesParagraphBreaks(t *testing.T) {
	t.Parallel()

	html := `<html><body><article><p>` + articleBody + `</p><p>A second paragraph follows the first one here.</p></article></body></html>`

	got, err := Clean(html)
	if err != nil {
		t.Fatalf("Clean() error = %v", err)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("paragraph break lost: %q", got)
	}
}

// TestTitle tests title extraction preference order.
func TestTitle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		html string
		want string
	}{
		{
			name: "h1 preferred",
			html: `<html><head><title>Doc Title</title></head><body><h1>Heading Title</h1></body></html>`,
			want: "Heading Title",
		},
		{
			name: "title fallback",
			html: `<html><head><title>Doc Title</title></head><body><p>text</p></body></html>`,
			want: "Doc Title",
		},
		{
			name: "no title",
			html: `<html><body><p>text</p></body></html>`,
			want: "Untitled",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := Title(tt.html); got != tt.want {
				t.Errorf("Title() = %q, want %q", got, tt.want)
			}
		})
	}
}
