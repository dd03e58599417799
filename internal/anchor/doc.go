// Package anchor proposes, validates and ranks internal-link
// opportunities. The proposer's model output is treated as entirely
// untrusted: every candidate passes a deterministic filter chain that
// re-derives its sentence from the source text, then a structural pass
// over the page's raw HTML before it can be reported.
package anchor
