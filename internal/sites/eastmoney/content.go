package eastmoney

import (
	"encoding/json"
	"fmt"

	"xwlb/internal/formatter"
)

// ArticleContent wraps an Article and implements scraper.Content.
type ArticleContent struct {
	article *Article
}

// NewArticleContent creates a new ArticleContent instance.
func NewArticleContent(a *Article) *ArticleContent {
	return &ArticleContent{article: a}
}

// ToHTML returns the sanitized fragment as extracted.
func (c *ArticleContent) ToHTML() (string, error) {
	return c.article.HTML, nil
}

func (c *ArticleContent) ToText() (string, error) {
	return formatter.HTMLToText(c.article.HTML)
}

func (c *ArticleContent) ToMarkdown() (string, error) {
	body, err := formatter.HTMLToMarkdown(c.article.HTML)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("# %s\n\n%s\n\n来源: %s\n", c.article.Target, body, c.article.URL), nil
}

func (c *ArticleContent) ToJSON() ([]byte, error) {
	markdown, err := formatter.HTMLToMarkdown(c.article.HTML)
	if err != nil {
		return nil, err
	}

	type jsonOutput struct {
		Date     string `json:"date"`
		Target   string `json:"target"`
		Title    string `json:"title"`
		URL      string `json:"url"`
		Search   string `json:"search_url"`
		Strategy string `json:"strategy"`
		HTML     string `json:"html"`
		Markdown string `json:"markdown"`
		LoadTime int64  `json:"load_time"`
	}

	return json.MarshalIndent(jsonOutput{
		Date:     c.article.Date.Format(DateLayout),
		Target:   c.article.Target,
		Title:    c.article.Title,
		URL:      c.article.URL,
		Search:   c.article.SearchURL,
		Strategy: c.article.Strategy.String(),
		HTML:     c.article.HTML,
		Markdown: markdown,
		LoadTime: c.article.LoadTime.Milliseconds(),
	}, "", "  ")
}

// ToCSV exports the tables found in the article, if any.
func (c *ArticleContent) ToCSV() (string, error) {
	return formatter.TablesToCSV(c.article.HTML)
}
