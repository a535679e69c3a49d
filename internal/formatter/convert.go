package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var tablePattern = regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table>`)

// HTMLToMarkdown converts an HTML fragment to Markdown, rendering tables as
// pipe tables first since the converter drops their structure.
func HTMLToMarkdown(fragment string) (string, error) {
	converter := md.NewConverter("", true, nil)
	markdown, err := converter.ConvertString(convertTablesInHTML(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to Markdown: %w", err)
	}
	return strings.TrimSpace(markdown), nil
}

// blockSelector lists the elements that end a line in plain text output.
const blockSelector = "p, div, li, tr, table, ul, ol, blockquote, pre, h1, h2, h3, h4, h5, h6"

// HTMLToText converts an HTML fragment to plain text: one line per block
// element, table cells separated by a space, no markup of any kind.
func HTMLToText(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to convert HTML to text: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("br").Each(func(_ int, s *goquery.Selection) {
		s.ReplaceWithNodes(textNode("\n"))
	})
	doc.Find("th, td").Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(textNode(" "))
	})
	doc.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		s.AppendNodes(textNode("\n"))
	})

	var lines []string
	for _, line := range strings.Split(doc.Text(), "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n"), nil
}

func textNode(data string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: data}
}

// TablesToCSV writes every table of the fragment as a CSV block headed by
// "# Table N". A fragment without tables yields an empty string.
func TablesToCSV(fragment string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	var buf bytes.Buffer
	if err := writeTablesCSV(&buf, doc.Selection); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// writeTablesCSV stops at the first write error.
func writeTablesCSV(out io.Writer, root *goquery.Selection) error {
	var writeErr error
	root.Find("table").EachWithBreak(func(i int, table *goquery.Selection) bool {
		header := fmt.Sprintf("# Table %d\n", i+1)
		if i > 0 {
			header = "\n" + header
		}
		if _, err := io.WriteString(out, header); err != nil {
			writeErr = err
			return false
		}

		w := csv.NewWriter(out)
		table.Find("tr").EachWithBreak(func(_ int, row *goquery.Selection) bool {
			record := cellTexts(row)
			if len(record) == 0 {
				return true
			}
			if err := w.Write(record); err != nil {
				writeErr = err
				return false
			}
			return true
		})
		w.Flush()
		if writeErr == nil {
			writeErr = w.Error()
		}
		return writeErr == nil
	})
	if writeErr != nil {
		return fmt.Errorf("failed to write CSV: %w", writeErr)
	}
	return nil
}

func convertTablesInHTML(fragment string) string {
	return tablePattern.ReplaceAllStringFunc(fragment, convertHTMLTableToMarkdown)
}

// convertHTMLTableToMarkdown 将HTML表格转换为Markdown表格
func convertHTMLTableToMarkdown(tableHTML string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(tableHTML))
	if err != nil {
		return tableHTML
	}

	var builder strings.Builder
	doc.Find("table").Each(func(_ int, table *goquery.Selection) {
		// 表头优先取 thead，其次取第一行
		headerRow := table.Find("thead tr").First()
		if headerRow.Length() == 0 {
			headerRow = table.Find("tr").First()
		}
		headers := cellTexts(headerRow)
		if len(headers) < 1 {
			return
		}

		writeRow(&builder, headers)
		separator := make([]string, len(headers))
		for i := range separator {
			separator[i] = "---"
		}
		writeRow(&builder, separator)

		dataRows := table.Find("tr").Slice(1, goquery.ToEnd)
		if table.Find("thead tr").Length() > 0 {
			dataRows = table.Find("tbody tr")
		}
		dataRows.Each(func(_ int, row *goquery.Selection) {
			if cells := cellTexts(row); len(cells) > 0 {
				writeRow(&builder, cells)
			}
		})

		builder.WriteString("\n")
	})

	return builder.String()
}

func cellTexts(row *goquery.Selection) []string {
	var cells []string
	row.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, strings.TrimSpace(cell.Text()))
	})
	return cells
}

func writeRow(b *strings.Builder, cells []string) {
	b.WriteString("| ")
	b.WriteString(strings.Join(cells, " | "))
	b.WriteString(" |\n")
}
