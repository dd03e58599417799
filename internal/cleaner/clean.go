package cleaner

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/YanFonsecaz/SiteAI/internal/config"
)

var (
	horizontalSpaceRe = regexp.MustCompile(`[ \t]+`)
	blankRunRe        = regexp.MustCompile(`\n\s*\n`)

	// navCallRe matches navigation call-outs used as in-body headings
	// ("Read more:", "See also", "Check out now").
	navCallRe = regexp.MustCompile(`^(read|see|check)\s+(more|also|out|now|this)\b`)
)

// navPrefixes are fragments that interrupt article flow: in-body
// navigation, taxonomy dumps and byline furniture.
var navPrefixes = []string{
	"read also",
	"see also",
	"read more",
	"learn more",
	"check out",
	"tags:",
	"categories:",
	"share this",
	"written by",
	"posted by",
	"published on",
	"posted on",
}

// navSubstrings reject a fragment wherever they appear in it.
var navSubstrings = []string{
	"related posts",
	"related articles",
}

// navExact reject a fragment only on exact match.
var navExact = []string{
	"advertisement",
	"sponsored",
	"sponsored content",
}

// actionLinkPhrases mark a lone link as navigation rather than content.
var actionLinkPhrases = []string{
	"read more",
	"learn more",
	"click here",
}

// Clean strips page furniture from raw HTML and returns readable text
// with paragraph breaks preserved.
func Clean(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("cleaner: parse html: %w", err)
	}

	doc.Find(structuralSelector).Remove()

	junk := joinSelectors(BoilerplateRules)
	doc.Find(junk).Remove()

	main := selectMain(doc, junk)
	finePass(main)

	// Turn visual breaks into real ones before flattening to text.
	doc.Find("br").ReplaceWithHtml("\n")
	doc.Find("p, div, li, h1, h2, h3, h4, h5, h6, blockquote, pre").AppendHtml("\n")

	text := main.Text()
	text = horizontalSpaceRe.ReplaceAllString(text, " ")
	text = blankRunRe.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text), nil
}

// selectMain picks the candidate container with the most cleaned text,
// falling back to body. Candidates are measured on a clone with junk
// removed so a related-posts block nested in an article cannot inflate
// its length.
func selectMain(doc *goquery.Document, junk string) *goquery.Selection {
	candidates := doc.Find(mainCandidateSelector)
	if candidates.Length() == 0 {
		return doc.Find("body")
	}

	best := doc.Find("body")
	maxLen := 0
	candidates.Each(func(_ int, el *goquery.Selection) {
		clone := el.Clone()
		clone.Find(junk).Remove()
		n := len(clone.Text())
		if n > maxLen && n > config.DefaultMinMainContentLength {
			maxLen = n
			best = el
		}
	})
	return best
}

// finePass removes hidden elements, in-body navigation fragments,
// action-phrase link-only paragraphs and link-dominated lists inside
// the chosen container.
func finePass(main *goquery.Selection) {
	main.Find("*").Each(func(_ int, el *goquery.Selection) {
		if isHidden(el) {
			el.Remove()
			return
		}

		text := strings.ToLower(strings.TrimSpace(el.Text()))

		if len(text) < 300 && isNavFragment(text) {
			el.Remove()
			return
		}

		if (el.Is("p") || el.Is("div")) && len(text) < 100 {
			children := el.Children()
			if children.Length() == 1 && children.Is("a") {
				linkText := strings.ToLower(children.Text())
				for _, phrase := range actionLinkPhrases {
					if strings.Contains(linkText, phrase) {
						el.Remove()
						return
					}
				}
			}
		}

		if el.Is("ul") || el.Is("ol") {
			items := el.Find("li")
			total := items.Length()
			if total > 0 {
				linked := items.Has("a").Length()
				// Mostly links with little text is a menu or tag list.
				if float64(linked)/float64(total) > 0.8 && len(el.Text()) < 500 {
					el.Remove()
					return
				}
			}
		}
	})
}

func isHidden(el *goquery.Selection) bool {
	style := strings.ReplaceAll(el.AttrOr("style", ""), " ", "")
	if strings.Contains(style, "display:none") {
		return true
	}
	if el.AttrOr("aria-hidden", "") == "true" {
		return true
	}
	return el.HasClass("hidden")
}

func isNavFragment(text string) bool {
	if text == "" {
		return false
	}
	for _, prefix := range navPrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}
	for _, sub := range navSubstrings {
		if strings.Contains(text, sub) {
			return true
		}
	}
	for _, exact := range navExact {
		if text == exact {
			return true
		}
	}
	return navCallRe.MatchString(text)
}

// Title extracts the page title, preferring the first h1 over <title>.
func Title(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "Untitled"
	}
	if t := strings.TrimSpace(doc.Find("h1").First().Text()); t != "" {
		return t
	}
	if t := strings.TrimSpace(doc.Find("title").Text()); t != "" {
		return t
	}
	return "Untitled"
}
