package cleaner

import "strings"

// Category groups boilerplate rules by the kind of page furniture they
// target. Useful for diagnostics and for testing the ruleset in slices.
type Category string

// Rule categories.
const (
	CategoryLayout  Category = "layout"
	CategoryRelated Category = "related"
	CategorySocial  Category = "social"
	CategoryAuthor  Category = "author"
	CategoryMedia   Category = "media"
	CategoryWidget  Category = "widget"
	CategoryAds     Category = "ads"
	CategoryMeta    Category = "meta"
	CategoryTOC     Category = "toc"
)

// Rule names a CSS selector that matches non-content page furniture.
type Rule struct {
	Name     string
	Selector string
	Category Category
}

// structuralSelector matches tags that never carry article prose. h1 is
// included because the page title is captured separately and anchors
// must not land in it.
const structuralSelector = "script, style, noscript, iframe, svg, meta, link, header, footer, nav, form, button, object, embed, figure, figcaption, video, audio, canvas, map, area, img, picture, source, track, h1"

// mainCandidateSelector matches containers that typically hold the
// article body.
const mainCandidateSelector = "article, main, .post-content, .entry-content, #content, .blog-post, .post-body, .article-body, [itemprop='articleBody']"

// BoilerplateRules is the default ruleset for stripping sidebars,
// menus, widgets and other furniture before text extraction. Selectors
// lean on the class names WordPress and common themes emit.
var BoilerplateRules = []Rule{
	{Name: "sidebar", Selector: ".sidebar, #sidebar, aside, .aside", Category: CategoryLayout},
	{Name: "menus", Selector: ".menu, .navigation, .nav, .site-nav, .main-nav, .top-bar, .top-nav", Category: CategoryLayout},
	{Name: "page-chrome", Selector: ".footer, .site-footer, .page-footer, #footer, .header, .site-header, .page-header, #header, .logo, .branding", Category: CategoryLayout},
	{Name: "related-posts", Selector: ".related-posts, .related, .yarpp-related, .jp-relatedposts, .crp_related", Category: CategoryRelated},
	{Name: "comments", Selector: ".comments, #comments, .comment-list, .respond, #respond", Category: CategoryRelated},
	{Name: "share", Selector: ".share-buttons, .social-share, .share, .social-icons", Category: CategorySocial},
	{Name: "author-bio", Selector: ".author-bio, .about-author, .author-box, .author-info, .post-author", Category: CategoryAuthor},
	{Name: "galleries", Selector: ".gallery, .gallery-item, .wp-caption, .wp-caption-text, figcaption, .caption", Category: CategoryMedia},
	{Name: "captions", Selector: ".image-caption, .video-caption, .media-caption", Category: CategoryMedia},
	{Name: "media-blocks", Selector: ".wp-block-image, .wp-block-video, .wp-block-embed", Category: CategoryMedia},
	{Name: "in-body-titles", Selector: ".entry-title, .page-title, .post-title", Category: CategoryMeta},
	{Name: "widgets", Selector: ".widget, .widget-area, .sidebar-widget", Category: CategoryWidget},
	{Name: "cta", Selector: ".newsletter-signup, .subscribe, .cta, .call-to-action, .popup, .modal, .cookie-notice, .banner", Category: CategoryWidget},
	{Name: "ads", Selector: ".ad, .advertisement, .adsense, .ads, .ad-container", Category: CategoryAds},
	{Name: "post-nav", Selector: ".pagination, .post-navigation, .breadcrumbs", Category: CategoryMeta},
	{Name: "taxonomy", Selector: ".tags, .post-tags, .categories, .cat-links", Category: CategoryMeta},
	{Name: "post-meta", Selector: ".entry-meta, .post-meta, .date, .time, .published, .updated", Category: CategoryMeta},
	{Name: "toc", Selector: ".toc, #toc, .table-of-contents, .ez-toc-container", Category: CategoryTOC},
}

// joinSelectors builds one comma-joined selector from a ruleset.
func joinSelectors(rules []Rule) string {
	parts := make([]string, len(rules))
	for i, r := range rules {
		parts[i] = r.Selector
	}
	return strings.Join(parts, ", ")
}
