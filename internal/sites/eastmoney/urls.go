package eastmoney

import (
	"net/url"
	"strings"
)

const (
	// SearchOrigin serves the search results page.
	SearchOrigin = "https://so.eastmoney.com"
	// ContentOrigin is prepended to site-relative article links.
	ContentOrigin = "https://www.eastmoney.com"
	// SearchKeyword is the fixed query.
	SearchKeyword = "新闻联播"
)

// SearchURL returns the results page for SearchKeyword.
func SearchURL() string {
	return SearchOrigin + "/web/s?keyword=" + url.QueryEscape(SearchKeyword)
}

// NormalizeURL makes href absolute against ContentOrigin. Hrefs that already
// carry a scheme are returned unchanged.
func NormalizeURL(href string) string {
	if u, err := url.Parse(href); err == nil && u.Scheme != "" {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return ContentOrigin + href
	}
	return ContentOrigin + "/" + href
}
