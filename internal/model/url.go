package model

import (
	"net/url"
	"strings"
)

// NormalizeURL canonicalizes a URL for use as a metadata key:
// forced https scheme, lowercased host without a www prefix, and no
// trailing slash (a bare host keeps its root path).
//
// Unparseable input falls back to a lowercased, fragment-stripped,
// slash-trimmed copy so the function always returns a usable key.
func NormalizeURL(raw string) string {
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		fallback := strings.ToLower(strings.TrimSpace(raw))
		fallback, _, _ = strings.Cut(fallback, "#")
		return strings.TrimSuffix(fallback, "/")
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	path := strings.TrimSuffix(u.Path, "/")
	if path == "" {
		path = "/"
	}
	return "https://" + host + path
}

// NormalizeURLForComparison reduces a URL to a scheme-less, www-less,
// lowercased host+path form. Two URLs normalize equal exactly when the
// pipeline considers them the same page, which is the basis of the
// self-link check.
func NormalizeURLForComparison(raw string) string {
	candidate := raw
	if !strings.HasPrefix(candidate, "http://") && !strings.HasPrefix(candidate, "https://") {
		candidate = "https://" + candidate
	}

	u, err := url.Parse(candidate)
	if err != nil || u.Host == "" {
		fallback := strings.ToLower(strings.TrimSpace(raw))
		fallback = strings.TrimPrefix(fallback, "http://")
		fallback = strings.TrimPrefix(fallback, "https://")
		fallback = strings.TrimPrefix(fallback, "www.")
		return strings.TrimSuffix(fallback, "/")
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	return host + strings.TrimSuffix(u.Path, "/")
}

// SameURL reports whether two URLs refer to the same page after
// normalization.
func SameURL(a, b string) bool {
	return NormalizeURLForComparison(a) == NormalizeURLForComparison(b)
}

// SlugTopic derives a human-readable topic label from the last path
// segment of a URL, replacing hyphens and underscores with spaces.
// Returns "general topic" when the URL has no usable slug.
func SlugTopic(raw string) string {
	u, err := url.Parse(raw)
	path := raw
	if err == nil {
		path = u.Path
	}

	path = strings.Trim(path, "/")
	if path == "" {
		return "general topic"
	}

	segments := strings.Split(path, "/")
	slug := segments[len(segments)-1]

	// Drop a file extension if the slug looks like a document name.
	if i := strings.LastIndex(slug, "."); i > 0 {
		slug = slug[:i]
	}

	slug = strings.ReplaceAll(slug, "-", " ")
	slug = strings.ReplaceAll(slug, "_", " ")
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "general topic"
	}
	return slug
}
