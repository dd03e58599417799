package cleaner

import (
	"regexp"
	"strings"
)

var (
	mdImageRe    = regexp.MustCompile(`!\[.*?\]\(.*?\)`)
	mdLinkLineRe = regexp.MustCompile(`(?m)^\s*[*\-]?\s*\[.*?\]\(.*?\)\s*$`)
	mdCTALinkRe  = regexp.MustCompile(`(?i)\[(click here|read more|learn more|see more|check out|download|button|subscribe)\]\(.*?\)`)
	mdNavLineRe  = regexp.MustCompile(`(?im)^\s*(read|see|check)\s+(also|more|out|now|the post).*$`)
	mdFenceRe    = regexp.MustCompile("(?s)```.*?```")
	mdBareURLRe  = regexp.MustCompile(`(?m)^\s*https?://\S+\s*$`)

	// Lines that look like leaked script rather than prose.
	mdCallLineRe  = regexp.MustCompile(`(?m)^\s*[a-zA-Z0-9_$]+\(.*\).*`)
	mdBraceLineRe = regexp.MustCompile(`(?m)^\s*\{.*\}\s*$`)

	// Reader proxies prepend metadata lines before the content body.
	mdMetaLineRe = regexp.MustCompile(`(?im)^(title|url source|source|url|description|author|date|published time|markdown content):\s+.*$`)

	mdH1LineRe      = regexp.MustCompile(`(?m)^#\s+.*$`)
	mdBlankRunRe    = regexp.MustCompile(`\n{3,}`)
	mdNoiseLineRe   = regexp.MustCompile(`^[\W\d]+$`)
	mdBoilerplateRe = regexp.MustCompile(`(?i)^(copyright|all rights reserved|powered by|menu|home|about|contact|privacy policy|terms of use|terms of service|sitemap|search|login|sign up|sign in|subscribe|skip to content|back to top)`)
)

// CleanMarkdown strips reader-proxy noise from markdown output: images,
// standalone links, CTA buttons, code fences, bare URLs, leaked script
// lines, boilerplate navigation and metadata headers. Heading level one
// is dropped because the title travels separately.
func CleanMarkdown(text string) string {
	clean := mdImageRe.ReplaceAllString(text, "")
	clean = mdLinkLineRe.ReplaceAllString(clean, "")
	clean = mdCTALinkRe.ReplaceAllString(clean, "")
	clean = mdNavLineRe.ReplaceAllString(clean, "")
	clean = mdFenceRe.ReplaceAllString(clean, "")
	clean = mdBareURLRe.ReplaceAllString(clean, "")
	clean = mdCallLineRe.ReplaceAllString(clean, "")
	clean = mdBraceLineRe.ReplaceAllString(clean, "")
	clean = mdMetaLineRe.ReplaceAllString(clean, "")
	clean = mdH1LineRe.ReplaceAllString(clean, "")

	lines := strings.Split(clean, "\n")
	kept := lines[:0]
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed != "" {
			// Blank lines stay so paragraphs survive; short or
			// boilerplate content lines do not.
			if len(trimmed) < 3 ||
				mdBoilerplateRe.MatchString(trimmed) ||
				mdNoiseLineRe.MatchString(trimmed) {
				continue
			}
		}
		kept = append(kept, line)
	}
	clean = strings.Join(kept, "\n")

	clean = mdBlankRunRe.ReplaceAllString(clean, "\n\n")
	return strings.TrimSpace(clean)
}
