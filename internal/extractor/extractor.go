// Package extractor pulls an article container out of a page snapshot and
// reduces it to a small, attribute-whitelisted HTML fragment.
package extractor

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

// ArticleBodyMarker is the comment EastMoney places right before the real
// article text. Everything in front of it is boilerplate.
const ArticleBodyMarker = "<!--文章主体-->"

// ErrContainerNotFound is returned when the selector matches nothing.
var ErrContainerNotFound = errors.New("content container not found")

// allowedAttributes 保留的属性，其余一律删除
var allowedAttributes = map[string]bool{
	"src":     true,
	"href":    true,
	"colspan": true,
	"rowspan": true,
	"title":   true,
	"alt":     true,
}

// AllowedAttribute reports whether name survives sanitization.
func AllowedAttribute(name string) bool {
	return allowedAttributes[name]
}

// Extract parses a page, finds the container matching selector, sanitizes it
// and returns the markup after marker (or all of it if marker is absent).
func Extract(r io.Reader, selector, marker string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	container, err := Container(doc, selector)
	if err != nil {
		return "", err
	}

	markup, err := Sanitize(container)
	if err != nil {
		return "", err
	}

	return SplitAfterMarker(markup, marker), nil
}

// Container returns the first element matching selector.
func Container(doc *goquery.Document, selector string) (*goquery.Selection, error) {
	sel := doc.Find(selector).First()
	if sel.Length() == 0 {
		return nil, fmt.Errorf("%w: %s", ErrContainerNotFound, selector)
	}
	return sel, nil
}

// Sanitize returns the inner markup of container with every <video> subtree
// removed and every descendant stripped down to the allowed attributes. The
// container's own attributes are left alone; they are not part of the inner
// markup anyway. The caller's document is not modified.
func Sanitize(container *goquery.Selection) (string, error) {
	if container.Length() == 0 {
		return "", ErrContainerNotFound
	}

	c := container.First().Clone()
	c.Find("video").Remove()

	c.Find("*").Each(func(_ int, s *goquery.Selection) {
		for _, n := range s.Nodes {
			n.Attr = filterAttributes(n.Attr)
		}
	})

	markup, err := c.Html()
	if err != nil {
		return "", fmt.Errorf("failed to render sanitized content: %w", err)
	}
	return markup, nil
}

// filterAttributes keeps allowed attributes in their original order.
// Namespaced attributes (xlink:href and friends) never match the whitelist.
func filterAttributes(attrs []html.Attribute) []html.Attribute {
	if len(attrs) == 0 {
		return attrs
	}
	kept := attrs[:0]
	for _, a := range attrs {
		if a.Namespace == "" && AllowedAttribute(a.Key) {
			kept = append(kept, a)
		}
	}
	return kept
}

// SplitAfterMarker returns what follows the first occurrence of marker, or
// markup unchanged when marker does not occur.
func SplitAfterMarker(markup, marker string) string {
	if marker == "" {
		return markup
	}
	if _, after, found := strings.Cut(markup, marker); found {
		return after
	}
	return markup
}
