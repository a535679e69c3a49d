package eastmoney

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// resultItemSelector matches one search result title block.
const resultItemSelector = "div.news_item_t"

// Strategy names the rule that produced a link.
type Strategy int

const (
	StrategyNone Strategy = iota
	StrategyResultItem
	StrategyExactText
	StrategyPartialText
)

func (s Strategy) String() string {
	switch s {
	case StrategyResultItem:
		return "result item"
	case StrategyExactText:
		return "exact link text"
	case StrategyPartialText:
		return "partial link text"
	default:
		return "none"
	}
}

// Locate finds the href of the link labelled target in a results page.
//
// When the page has result items, only the first link of each item is
// compared (trimmed text, exact equality) and the other rules are skipped
// even if no item matches. Without result items, the first anchor whose text
// equals target wins, then the first anchor whose text contains it. In every
// rule the first match in document order is final: an empty href on it
// reports not found rather than moving on.
func Locate(doc *goquery.Document, target string) (string, Strategy, bool) {
	items := doc.Find(resultItemSelector)
	if items.Length() > 0 {
		var (
			href  string
			found bool
		)
		items.EachWithBreak(func(_ int, item *goquery.Selection) bool {
			a := item.Find("a").First()
			if a.Length() == 0 {
				return true
			}
			if strings.TrimSpace(a.Text()) != target {
				return true
			}
			href, found = a.Attr("href")
			return false
		})
		return result(href, found, StrategyResultItem)
	}

	anchors := doc.Find("a")

	if a := firstAnchor(anchors, func(text string) bool {
		return normalizeSpace(text) == target
	}); a != nil {
		href, ok := a.Attr("href")
		return result(href, ok, StrategyExactText)
	}

	needle := strings.ToLower(normalizeSpace(target))
	if a := firstAnchor(anchors, func(text string) bool {
		return strings.Contains(strings.ToLower(normalizeSpace(text)), needle)
	}); a != nil {
		href, ok := a.Attr("href")
		return result(href, ok, StrategyPartialText)
	}

	return "", StrategyNone, false
}

func result(href string, ok bool, s Strategy) (string, Strategy, bool) {
	href = strings.TrimSpace(href)
	if !ok || href == "" {
		return "", StrategyNone, false
	}
	return href, s, true
}

func firstAnchor(anchors *goquery.Selection, match func(string) bool) *goquery.Selection {
	var hit *goquery.Selection
	anchors.EachWithBreak(func(_ int, a *goquery.Selection) bool {
		if match(a.Text()) {
			hit = a
			return false
		}
		return true
	})
	return hit
}

// normalizeSpace trims and collapses runs of whitespace to one space.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
