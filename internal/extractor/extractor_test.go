package extractor

import (
	"errors"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const contentSelector = "div#ContentBody.txtinfos"

func parse(t *testing.T, markup string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	require.NoError(t, err)
	return doc
}

func sanitizeBody(t *testing.T, inner string) string {
	t.Helper()
	doc := parse(t, `<div id="ContentBody" class="txtinfos" data-x="1">`+inner+`</div>`)
	container, err := Container(doc, contentSelector)
	require.NoError(t, err)
	out, err := Sanitize(container)
	require.NoError(t, err)
	return out
}

// TestSanitize_StripsNonWhitelistedAttributes verifies only whitelisted
// attributes survive on descendants
func TestSanitize_StripsNonWhitelistedAttributes(t *testing.T) {
	out := sanitizeBody(t, `<p class="c" style="color:red" id="p1">Hello <a href="/a" target="_blank" title="t" onclick="x()">link</a></p>`)

	assert.Equal(t, `<p>Hello <a href="/a" title="t">link</a></p>`, out)
}

// TestSanitize_KeepsWhitelistedValues verifies whitelisted values are untouched
func TestSanitize_KeepsWhitelistedValues(t *testing.T) {
	out := sanitizeBody(t, `<img src="https://img.example.com/a.png" alt="图一" width="10" height="20">`+
		`<table border="1"><tr><td colspan="2" rowspan="3" align="center">x</td></tr></table>`)

	assert.Contains(t, out, `<img src="https://img.example.com/a.png" alt="图一"/>`)
	assert.Contains(t, out, `<td colspan="2" rowspan="3">x</td>`)
	assert.NotContains(t, out, "width")
	assert.NotContains(t, out, "border")
	assert.NotContains(t, out, "align")
}

// TestSanitize_RemovesVideo verifies video elements and their subtree vanish
func TestSanitize_RemovesVideo(t *testing.T) {
	out := sanitizeBody(t, `<p>before</p><div><video src="v.mp4" controls><source src="v.webm"><p>fallback</p></video></div><p>after</p>`)

	assert.Equal(t, `<p>before</p><div></div><p>after</p>`, out)
	assert.NotContains(t, out, "video")
	assert.NotContains(t, out, "fallback")
	assert.NotContains(t, out, "v.webm")
}

// TestSanitize_ExcludesContainerAttributes verifies the container itself is
// not serialized
func TestSanitize_ExcludesContainerAttributes(t *testing.T) {
	out := sanitizeBody(t, `<span>text</span>`)

	assert.Equal(t, `<span>text</span>`, out)
	assert.NotContains(t, out, "ContentBody")
	assert.NotContains(t, out, "data-x")
}

// TestSanitize_LeavesDocumentUntouched verifies the source document is not mutated
func TestSanitize_LeavesDocumentUntouched(t *testing.T) {
	doc := parse(t, `<div id="ContentBody" class="txtinfos"><p class="c">x</p><video></video></div>`)
	container, err := Container(doc, contentSelector)
	require.NoError(t, err)

	_, err = Sanitize(container)
	require.NoError(t, err)

	assert.Equal(t, 1, doc.Find("video").Length())
	class, ok := doc.Find("p").Attr("class")
	assert.True(t, ok)
	assert.Equal(t, "c", class)
}

// TestSanitize_DropsNamespacedAttributes verifies xlink:href is not treated as href
func TestSanitize_DropsNamespacedAttributes(t *testing.T) {
	out := sanitizeBody(t, `<svg><use xlink:href="#icon"></use></svg>`)

	assert.NotContains(t, out, "xlink")
	assert.NotContains(t, out, "#icon")
}

// TestSanitize_EmptySelection verifies an empty selection is reported
func TestSanitize_EmptySelection(t *testing.T) {
	doc := parse(t, `<p>nothing</p>`)

	_, err := Sanitize(doc.Find("div.missing"))
	assert.ErrorIs(t, err, ErrContainerNotFound)
}

// TestContainer_NotFound verifies a missing container is a sentinel error
func TestContainer_NotFound(t *testing.T) {
	doc := parse(t, `<div id="ContentBody">no class</div>`)

	_, err := Container(doc, contentSelector)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrContainerNotFound))
}

// TestSplitAfterMarker_Present verifies the text after the first marker is returned
func TestSplitAfterMarker_Present(t *testing.T) {
	markup := `<p>head</p>` + ArticleBodyMarker + `<p>body</p>` + ArticleBodyMarker + `<p>tail</p>`

	out := SplitAfterMarker(markup, ArticleBodyMarker)

	assert.Equal(t, `<p>body</p>`+ArticleBodyMarker+`<p>tail</p>`, out)
}

// TestSplitAfterMarker_Absent verifies markup passes through without a marker
func TestSplitAfterMarker_Absent(t *testing.T) {
	markup := `<p>only body</p>`

	assert.Equal(t, markup, SplitAfterMarker(markup, ArticleBodyMarker))
	assert.Equal(t, markup, SplitAfterMarker(markup, ""))
}

// TestSplitAfterMarker_AtEnd verifies a trailing marker yields an empty string
func TestSplitAfterMarker_AtEnd(t *testing.T) {
	assert.Equal(t, "", SplitAfterMarker(`<p>x</p>`+ArticleBodyMarker, ArticleBodyMarker))
}

// TestExtract_FullPage verifies the whole pipeline on a page snapshot
func TestExtract_FullPage(t *testing.T) {
	page := `<html><head><title>t</title></head><body>
<div class="nav"><a href="/home">home</a></div>
<div id="ContentBody" class="txtinfos"><p class="em_media">（来源：央视新闻）</p><!--文章主体--><p style="text-indent:2em">1. 要闻一</p><p><img src="https://img.eastmoney.com/x.jpg" class="pic" alt=""></p><video src="clip.mp4"></video></div>
</body></html>`

	out, err := Extract(strings.NewReader(page), contentSelector, ArticleBodyMarker)
	require.NoError(t, err)

	assert.Equal(t, `<p>1. 要闻一</p><p><img src="https://img.eastmoney.com/x.jpg" alt=""/></p>`, out)
}

// TestExtract_MissingContainer verifies the sentinel error surfaces through Extract
func TestExtract_MissingContainer(t *testing.T) {
	_, err := Extract(strings.NewReader(`<html><body><p>404</p></body></html>`), contentSelector, ArticleBodyMarker)

	assert.ErrorIs(t, err, ErrContainerNotFound)
}

// TestAllowedAttribute verifies the whitelist membership
func TestAllowedAttribute(t *testing.T) {
	for _, name := range []string{"src", "href", "colspan", "rowspan", "title", "alt"} {
		assert.True(t, AllowedAttribute(name), name)
	}
	for _, name := range []string{"class", "style", "id", "onclick", "data-src", "width"} {
		assert.False(t, AllowedAttribute(name), name)
	}
}
