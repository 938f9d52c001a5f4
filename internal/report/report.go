// Package report renders collection results for humans and machines.
package report

import (
	"fmt"
	"io"

	"webcollect/collector"
)

// Output formats.
const (
	FormatJSON     = "json"
	FormatMarkdown = "markdown"
	FormatText     = "text"
)

// Write renders results in the given format.
// JSON output is a single object for one result and an array otherwise.
func Write(w io.Writer, format string, results []collector.Result) error {
	switch format {
	case FormatJSON, "":
		return writeJSON(w, results)
	case FormatMarkdown:
		return writeMarkdown(w, results)
	case FormatText:
		return writeText(w, results)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

func writeJSON(w io.Writer, results []collector.Result) error {
	var data []byte
	if len(results) == 1 {
		data = collector.Marshal(results[0], true)
	} else {
		data = collector.MarshalAll(results, true)
	}

	_, err := w.Write(data)

	return err
}
