package scraper

import (
	"context"
	"time"
)

type Scraper interface {
	Name() string
	Scrape(ctx context.Context, opts Options) (Content, error)
}

type Content interface {
	ToHTML() (string, error)
	ToText() (string, error)
	ToMarkdown() (string, error)
	ToJSON() ([]byte, error)
	ToCSV() (string, error)
}

type Options struct {
	Date      time.Time     // day whose summary is wanted
	Timeout   time.Duration // per-page navigation bound
	Headless  bool
	ProxyURL  string // --proxy flag or XWLB_PROXY env var
	UserAgent string // empty means browser.DefaultUserAgent
	Logf      func(format string, args ...any)
}

// Log writes a progress line through Logf when one is set.
func (o Options) Log(format string, args ...any) {
	if o.Logf != nil {
		o.Logf(format, args...)
	}
}
