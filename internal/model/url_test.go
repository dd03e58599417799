package model

import "testing"

// TestNormalizeURL tests canonicalization for metadata keys.
func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "strips www and trailing slash",
			in:   "https://www.Example.com/Guide/",
			want: "https://example.com/Guide",
		},
		{
			name: "forces https scheme",
			in:   "http://example.com/post-a",
			want: "https://example.com/post-a",
		},
		{
			name: "adds scheme to bare host",
			in:   "example.com/blog",
			want: "https://example.com/blog",
		},
		{
			name: "bare host keeps root path",
			in:   "https://example.com",
			want: "https://example.com/",
		},
		{
			name: "unparseable input falls back to trimmed lowercase",
			in:   "ht tp://bro ken/#frag",
			want: "ht tp://bro ken",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeURL(tt.in); got != tt.want {
				t.Errorf("NormalizeURL(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestNormalizeURLForComparison tests scheme-less equality form.
func TestNormalizeURLForComparison(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "drops scheme and www",
			in:   "https://www.example.com/guide/",
			want: "example.com/guide",
		},
		{
			name: "http and https normalize equal",
			in:   "http://example.com/guide",
			want: "example.com/guide",
		},
		{
			name: "host only",
			in:   "example.com",
			want: "example.com",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := NormalizeURLForComparison(tt.in); got != tt.want {
				t.Errorf("NormalizeURLForComparison(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestSameURL tests page identity across URL spellings.
func TestSameURL(t *testing.T) {
	t.Parallel()

	if !SameURL("https://www.x.test/guide/", "http://x.test/guide") {
		t.Error("expected differently spelled URLs of the same page to match")
	}
	if SameURL("https://x.test/guide", "https://x.test/post-a") {
		t.Error("expected distinct pages not to match")
	}
}

// TestSlugTopic tests topic derivation from URL slugs.
func TestSlugTopic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "hyphenated slug", in: "https://x.test/internal-link-guide", want: "internal link guide"},
		{name: "underscored slug", in: "https://x.test/blog/seo_basics", want: "seo basics"},
		{name: "slug with extension", in: "https://x.test/docs/guide.html", want: "guide"},
		{name: "root path", in: "https://x.test/", want: "general topic"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := SlugTopic(tt.in); got != tt.want {
				t.Errorf("SlugTopic(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
