package eastmoney

import (
	"context"
	"fmt"

	"xwlb/internal/browser"
	"xwlb/internal/fetcher"
	"xwlb/internal/scraper"
)

func init() {
	scraper.Register(&EastmoneyScraper{})
}

// Name is the registry key of this site.
const Name = "eastmoney"

// EastmoneyScraper finds the daily 新闻联播 summary through so.eastmoney.com.
type EastmoneyScraper struct{}

func (s *EastmoneyScraper) Name() string { return Name }

// Scrape runs the whole search → article flow in one browser session. The
// browser is closed on every return path.
func (s *EastmoneyScraper) Scrape(ctx context.Context, opts scraper.Options) (scraper.Content, error) {
	if opts.Date.IsZero() {
		return nil, fmt.Errorf("date is required for --site %s", Name)
	}

	b, err := browser.New(browser.Config{
		Headless:  opts.Headless,
		ProxyURL:  opts.ProxyURL,
		UserAgent: opts.UserAgent,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create browser: %w", err)
	}
	defer b.Close()

	f := fetcher.NewFetcher(b, opts.Timeout)
	defer f.Close()

	article, err := NewClient(f, opts.Log).Daily(ctx, opts.Date)
	if err != nil {
		return nil, err
	}

	return NewArticleContent(article), nil
}
