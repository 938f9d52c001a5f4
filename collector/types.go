package collector

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"webcollect/internal/limiter"
)

const (
	DefaultMaxDepth        = 2
	DefaultMaxPages        = 20
	DefaultTimeout         = 10 * time.Second
	DefaultMaxTextLength   = 5000
	DefaultMaxLinksPerPage = 50
	DefaultUserAgent       = "Mozilla/5.0 (compatible; webcollect/1.0)"
)

// Options configures a single collection.
// MaxDepth counts link hops from the seed (the seed is depth 0); negative values act as 0.
// MaxPages caps the number of page records; zero or negative yields no pages.
// Zero Timeout, MaxTextLength, MaxLinksPerPage and MaxBodyBytes select the defaults;
// a negative MaxLinksPerPage disables the per-page link cap.
// Delay is the minimum interval between consecutive fetches.
type Options struct {
	URL             string
	MaxDepth        int
	MaxPages        int
	SameDomain      bool
	Timeout         time.Duration
	Delay           time.Duration
	UserAgent       string
	MaxTextLength   int
	MaxLinksPerPage int
	MaxBodyBytes    int64
	HTTPClient      *http.Client
	Clock           limiter.Clock
	Logger          *zap.SugaredLogger
}

// DefaultOptions returns Options for seed with every default applied.
func DefaultOptions(seed string) Options {
	return Options{
		URL:             seed,
		MaxDepth:        DefaultMaxDepth,
		MaxPages:        DefaultMaxPages,
		SameDomain:      true,
		Timeout:         DefaultTimeout,
		UserAgent:       DefaultUserAgent,
		MaxTextLength:   DefaultMaxTextLength,
		MaxLinksPerPage: DefaultMaxLinksPerPage,
	}
}

// Page is the record of one successfully fetched address.
// Text is truncated to MaxTextLength runes; TextLength is the rune count before truncation.
// Description is the page's <meta name="description"> content.
type Page struct {
	URL         string `json:"url"`
	Depth       int    `json:"depth"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Text        string `json:"text"`
	TextLength  int    `json:"text_length"`
}

// Result is the outcome of Collect. Error is set only when the seed was rejected,
// in which case Pages is empty and only pages, total_pages and error are encoded.
type Result struct {
	Pages      []Page `json:"pages"`
	TotalPages int    `json:"total_pages"`
	StartURL   string `json:"start_url,omitempty"`
	MaxDepth   int    `json:"max_depth"`
	SameDomain bool   `json:"same_domain"`
	Error      string `json:"error,omitempty"`
}

type successJSON struct {
	Pages      []Page `json:"pages"`
	TotalPages int    `json:"total_pages"`
	StartURL   string `json:"start_url"`
	MaxDepth   int    `json:"max_depth"`
	SameDomain bool   `json:"same_domain"`
}

type errorJSON struct {
	Pages      []Page `json:"pages"`
	TotalPages int    `json:"total_pages"`
	Error      string `json:"error"`
}

// MarshalJSON encodes the success shape or, when Error is set, the error shape.
func (r Result) MarshalJSON() ([]byte, error) {
	pages := r.Pages
	if pages == nil {
		pages = []Page{}
	}

	if r.Error != "" {
		return json.Marshal(errorJSON{
			Pages:      pages,
			TotalPages: r.TotalPages,
			Error:      r.Error,
		})
	}

	return json.Marshal(successJSON{
		Pages:      pages,
		TotalPages: r.TotalPages,
		StartURL:   r.StartURL,
		MaxDepth:   r.MaxDepth,
		SameDomain: r.SameDomain,
	})
}

// Failed reports whether the result is the error shape.
func (r Result) Failed() bool {
	return r.Error != ""
}
