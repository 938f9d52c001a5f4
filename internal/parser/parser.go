package parser

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page.
type Document struct {
	doc *goquery.Document
}

// Parse parses an HTML body. Malformed markup is repaired the way browsers do;
// an error means the body could not be read as HTML at all.
func Parse(body []byte) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	return &Document{doc: doc}, nil
}

// Links returns the trimmed href of every <a> element in document order.
// Values are unresolved and may repeat.
func (d *Document) Links() []string {
	links := []string{}
	d.doc.Find("a[href]").Each(func(_ int, selection *goquery.Selection) {
		href, ok := selection.Attr("href")
		if !ok {
			return
		}

		trimmed := strings.TrimSpace(href)
		if trimmed == "" {
			return
		}

		links = append(links, trimmed)
	})

	return links
}

// Text returns the visible text of the body with whitespace collapsed.
// Script, style and similar non-rendered content is excluded.
func (d *Document) Text() string {
	body := d.doc.Find("body").First()
	if body.Length() == 0 {
		body = d.doc.Selection
	}

	parts := make([]string, 0, body.Length())
	for _, node := range body.Nodes {
		parts = append(parts, visibleText(node))
	}

	return strings.Join(parts, " ")
}

// Title returns the cleaned <title> text, or "" when absent.
func (d *Document) Title() string {
	title := d.doc.Find("title").First()
	if title.Length() == 0 {
		return ""
	}

	return cleanHumanText(title.Text())
}

// Description returns the content of <meta name="description">, or "" when absent.
func (d *Document) Description() string {
	var description string

	d.doc.Find("meta[name]").EachWithBreak(func(_ int, selection *goquery.Selection) bool {
		name, _ := selection.Attr("name")
		if !strings.EqualFold(strings.TrimSpace(name), "description") {
			return true
		}

		content, _ := selection.Attr("content")
		description = cleanHumanText(content)

		return false
	})

	return description
}
