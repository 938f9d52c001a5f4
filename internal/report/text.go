package report

import (
	"bufio"
	"fmt"
	"io"

	"webcollect/collector"
)

func writeText(w io.Writer, results []collector.Result) error {
	out := bufio.NewWriter(w)

	for i, result := range results {
		if i > 0 {
			_, _ = fmt.Fprintln(out)
		}

		if result.Failed() {
			_, _ = fmt.Fprintf(out, "%s: error: %s\n", result.StartURL, result.Error)

			continue
		}

		_, _ = fmt.Fprintf(out, "%s: %d pages (max depth %d, same domain %t)\n",
			result.StartURL, result.TotalPages, result.MaxDepth, result.SameDomain)

		for _, page := range result.Pages {
			_, _ = fmt.Fprintf(out, "\n[%d] %s (%d chars)\n", page.Depth, page.URL, page.TextLength)
			if page.Title != "" {
				_, _ = fmt.Fprintf(out, "%s\n", page.Title)
			}

			if page.Description != "" {
				_, _ = fmt.Fprintf(out, "%s\n", page.Description)
			}

			if page.Text != "" {
				_, _ = fmt.Fprintf(out, "%s\n", page.Text)
			}
		}
	}

	return out.Flush()
}
