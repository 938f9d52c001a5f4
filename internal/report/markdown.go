package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"

	"webcollect/collector"
)

func writeMarkdown(w io.Writer, results []collector.Result) error {
	md := markdown.NewMarkdown(w)

	for i, result := range results {
		if i > 0 {
			md.HorizontalRule()
			md.PlainText("")
		}

		writeMarkdownResult(md, result)
	}

	return md.Build()
}

func writeMarkdownResult(md *markdown.Markdown, result collector.Result) {
	md.H1("Web collection: " + result.StartURL)
	md.PlainText("")

	if result.Failed() {
		md.Cautionf("Collection failed: %s", result.Error)
		md.PlainText("")

		return
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Start URL", "`" + result.StartURL + "`"},
			{"Max depth", strconv.Itoa(result.MaxDepth)},
			{"Same domain", strconv.FormatBool(result.SameDomain)},
			{"Pages", strconv.Itoa(result.TotalPages)},
		},
	})
	md.PlainText("")

	if len(result.Pages) == 0 {
		md.Note("No pages were collected.")
		md.PlainText("")

		return
	}

	for _, page := range result.Pages {
		md.H2(page.URL)
		md.PlainText("")

		if page.Title != "" {
			md.PlainText("**" + page.Title + "**")
			md.PlainText("")
		}

		if page.Description != "" {
			md.PlainText("*" + page.Description + "*")
			md.PlainText("")
		}

		md.PlainTextf("Depth %d, %d characters", page.Depth, page.TextLength)
		md.PlainText("")

		if page.Text != "" {
			md.PlainText(page.Text)
			md.PlainText("")
		}
	}
}
