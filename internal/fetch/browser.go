package fetch

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/YanFonsecaz/SiteAI/internal/cleaner"
	"github.com/YanFonsecaz/SiteAI/internal/model"
)

// settleDelay gives client-side rendering a moment to finish after the
// body element is ready.
const settleDelay = 2 * time.Second

// browserStrategy renders the page in headless Chrome. Last resort:
// slow and heavy, but it is the only tier that sees JS-only content.
type browserStrategy struct {
	userAgent string
}

func (b *browserStrategy) name() string { return "browser" }

func (b *browserStrategy) fetch(ctx context.Context, url string) (*model.ExtractedContent, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.Headless,
		chromedp.UserAgent(b.userAgent),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	tabCtx, cancelTab := chromedp.NewContext(allocCtx)
	defer cancelTab()

	var html, title string
	err := chromedp.Run(tabCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(settleDelay),
		chromedp.Title(&title),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return nil, fmt.Errorf("fetch: browser render: %w", err)
	}

	content, err := cleaner.Clean(html)
	if err != nil {
		return nil, err
	}
	if title == "" {
		title = cleaner.Title(html)
	}

	return &model.ExtractedContent{
		URL:     url,
		Title:   title,
		Content: withTitleHeading(title, content),
		RawHTML: html,
	}, nil
}
