package parser

import (
	"strings"
	"unicode"

	"golang.org/x/net/html"
	"golang.org/x/text/unicode/norm"
)

// hiddenElements hold raw text or markup that is never rendered as page text.
var hiddenElements = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"template": true,
	"iframe":   true,
	"svg":      true,
}

func visibleText(root *html.Node) string {
	var builder strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			if hiddenElements[n.Data] {
				return
			}
		case html.TextNode:
			builder.WriteString(n.Data)
			builder.WriteByte(' ')

			return
		case html.CommentNode:
			return
		}

		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)

	return cleanHumanText(builder.String())
}

func cleanHumanText(value string) string {
	collapsed := collapseSpaces(norm.NFC.String(value))

	return strings.TrimSpace(collapsed)
}

func collapseSpaces(value string) string {
	var builder strings.Builder
	builder.Grow(len(value))

	previousSpace := false
	for _, r := range value {
		if unicode.IsSpace(r) {
			if previousSpace {
				continue
			}

			builder.WriteRune(' ')
			previousSpace = true

			continue
		}

		builder.WriteRune(r)
		previousSpace = false
	}

	return builder.String()
}
