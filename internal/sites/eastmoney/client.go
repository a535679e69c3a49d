package eastmoney

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"xwlb/internal/extractor"
	"xwlb/internal/fetcher"

	"github.com/PuerkitoBio/goquery"
)

// ContentSelector matches the article body on www.eastmoney.com.
const ContentSelector = "div#ContentBody.txtinfos"

var (
	// ErrLinkNotFound means no locator rule produced a link for the date.
	ErrLinkNotFound = errors.New("could not find the target link")
	// ErrContentNotFound means the article page has no content container.
	ErrContentNotFound = errors.New("could not find content div")
	// ErrEmptyContent means the container held nothing after the body marker.
	ErrEmptyContent = errors.New("article content is empty")
)

// PageFetcher loads a URL and returns a DOM snapshot once strategy is satisfied.
type PageFetcher interface {
	Fetch(ctx context.Context, url string, strategy fetcher.WaitStrategy) (*fetcher.FetchResult, error)
}

// Article is the sanitized summary for one day.
type Article struct {
	Date      time.Time
	Target    string   // link text that was matched
	Strategy  Strategy // locator rule that found the link
	SearchURL string
	URL       string
	Title     string
	HTML      string
	LoadTime  time.Duration
}

// Client walks search page → article page on a single PageFetcher.
type Client struct {
	fetcher PageFetcher
	logf    func(format string, args ...any)
}

// NewClient creates a new Client instance. logf may be nil.
func NewClient(f PageFetcher, logf func(format string, args ...any)) *Client {
	if logf == nil {
		logf = func(string, ...any) {}
	}
	return &Client{fetcher: f, logf: logf}
}

// Daily fetches the evening summary published for date.
func (c *Client) Daily(ctx context.Context, date time.Time) (*Article, error) {
	start := time.Now()
	target := TargetText(date)

	href, strategy, searchURL, err := c.FindLink(ctx, target)
	if err != nil {
		return nil, err
	}

	articleURL := NormalizeURL(href)
	title, body, err := c.FetchArticle(ctx, articleURL)
	if err != nil {
		return nil, err
	}

	return &Article{
		Date:      date,
		Target:    target,
		Strategy:  strategy,
		SearchURL: searchURL,
		URL:       articleURL,
		Title:     title,
		HTML:      body,
		LoadTime:  time.Since(start),
	}, nil
}

// FindLink loads the search page and returns the raw href labelled target.
func (c *Client) FindLink(ctx context.Context, target string) (href string, strategy Strategy, searchURL string, err error) {
	searchURL = SearchURL()
	c.logf("Opening %s...", searchURL)

	page, err := c.fetcher.Fetch(ctx, searchURL, fetcher.WaitNetworkIdle)
	if err != nil {
		return "", StrategyNone, searchURL, fmt.Errorf("failed to load search page: %w", err)
	}
	if page.IdleTimedOut {
		c.logf("Network idle timeout, continuing...")
	}

	c.logf("Looking for: %s", target)

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.HTML))
	if err != nil {
		return "", StrategyNone, searchURL, fmt.Errorf("failed to parse search page: %w", err)
	}

	href, strategy, ok := Locate(doc, target)
	if !ok {
		c.logf("Could not find the target link.")
		return "", StrategyNone, searchURL, fmt.Errorf("%w: %s", ErrLinkNotFound, target)
	}
	c.logf("Found link via %s: %s", strategy, href)

	return href, strategy, searchURL, nil
}

// FetchArticle loads an article page and returns its title and sanitized body.
func (c *Client) FetchArticle(ctx context.Context, articleURL string) (title, body string, err error) {
	c.logf("Navigating to %s...", articleURL)

	page, err := c.fetcher.Fetch(ctx, articleURL, fetcher.WaitDOMContentLoaded)
	if err != nil {
		return "", "", fmt.Errorf("failed to load article page: %w", err)
	}

	body, err = extractor.Extract(strings.NewReader(page.HTML), ContentSelector, extractor.ArticleBodyMarker)
	if err != nil {
		if errors.Is(err, extractor.ErrContainerNotFound) {
			c.logf("Could not find content div (%s)", ContentSelector)
			return "", "", fmt.Errorf("%w (%s) at %s", ErrContentNotFound, ContentSelector, articleURL)
		}
		return "", "", fmt.Errorf("failed to extract article: %w", err)
	}
	if strings.TrimSpace(body) == "" {
		c.logf("Content div (%s) is empty", ContentSelector)
		return "", "", fmt.Errorf("%w at %s", ErrEmptyContent, articleURL)
	}

	return page.Title, body, nil
}
