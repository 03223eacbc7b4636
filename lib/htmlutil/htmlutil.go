package htmlutil

import (
	"bytes"
	"strings"

	"sptoday-backend/lib/textutil"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

func GetText(node *html.Node) string {
	var buffer bytes.Buffer
	getTextRecursive(node, &buffer)
	return buffer.String()
}

func getTextRecursive(node *html.Node, buffer *bytes.Buffer) {
	if node == nil {
		return
	}
	if node.Type == html.TextNode {
		buffer.WriteString(node.Data)
		return
	}
	child := node.FirstChild
	for child != nil {
		getTextRecursive(child, buffer)
		child = child.NextSibling
	}
}

// RowCells returns the cleaned text of every cell in a table row,
// in document order.
func RowCells(row *goquery.Selection) []string {
	var cells []string
	row.Find("td, th").Each(func(_ int, cell *goquery.Selection) {
		cells = append(cells, textutil.CleanText(cell.Text()))
	})
	return cells
}

// FirstText returns the cleaned text of the first element under sel
// matching any of the given selectors.
func FirstText(sel *goquery.Selection, selectors ...string) string {
	for _, s := range selectors {
		found := sel.Find(s).First()
		if found.Length() > 0 {
			text := textutil.CleanText(found.Text())
			if text != "" {
				return text
			}
		}
	}
	return ""
}

// ScriptTexts returns the raw text of every inline script block.
func ScriptTexts(doc *goquery.Document) []string {
	var scripts []string
	for _, node := range doc.Find("script").Nodes {
		text := GetText(node)
		if strings.TrimSpace(text) != "" {
			scripts = append(scripts, text)
		}
	}
	return scripts
}
