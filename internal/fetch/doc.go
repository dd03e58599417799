// Package fetch acquires page content through an escalating chain of
// strategies: a direct HTTP request with browser-like headers, a reader
// proxy that returns markdown, and a headless browser for pages that
// only render under JavaScript. The longest cleaned content wins.
package fetch
