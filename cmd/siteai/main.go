// Package main provides the entry point for the SiteAI CLI.
//
// SiteAI discovers internal-link opportunities inside a topic cluster:
// given a pillar page and its satellite articles, it fetches and cleans
// each page, classifies it, and proposes validated anchor placements.
//
// Usage:
//
//	siteai analyze --pillar <url> --satellites <url>,<url>...
//
// See --help for all available options.
package main

// main is the entry point for SiteAI.
func main() {
	Execute()
}
