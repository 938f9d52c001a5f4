package collector

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"unicode/utf8"

	"go.uber.org/zap"

	"webcollect/internal/fetcher"
	"webcollect/internal/limiter"
	"webcollect/internal/parser"
	"webcollect/internal/set"
	"webcollect/internal/urlutil"
)

// ErrInvalidURL is returned when the seed is not an absolute http(s) URL with a host.
var ErrInvalidURL = errors.New("invalid url")

// Collect crawls breadth-first from opts.URL, one fetch at a time, and returns
// the page records in fetch order.
//
// The only error result is a rejected seed: Result.Error is set and the returned
// error wraps ErrInvalidURL. Pages that fail to fetch or parse are logged and skipped.
// If ctx is canceled the pages gathered so far are returned with ctx.Err().
func Collect(ctx context.Context, opts Options) (Result, error) {
	opts = withDefaults(opts)

	seed, err := urlutil.ParseSeed(opts.URL)
	if err != nil {
		opts.Logger.Warnw("rejecting seed", "url", opts.URL, "error", err)

		return Result{
			Pages:    []Page{},
			StartURL: opts.URL,
			Error:    fmt.Sprintf("invalid url: %v", err),
		}, fmt.Errorf("%w %q: %v", ErrInvalidURL, opts.URL, err)
	}

	c := newCollection(opts, seed)
	pages, runErr := c.run(ctx)

	return Result{
		Pages:      pages,
		TotalPages: len(pages),
		StartURL:   opts.URL,
		MaxDepth:   c.maxDepth,
		SameDomain: opts.SameDomain,
	}, runErr
}

func withDefaults(opts Options) Options {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	if opts.MaxTextLength <= 0 {
		opts.MaxTextLength = DefaultMaxTextLength
	}

	if opts.MaxLinksPerPage == 0 {
		opts.MaxLinksPerPage = DefaultMaxLinksPerPage
	}

	if opts.Clock == nil {
		opts.Clock = limiter.SystemClock{}
	}

	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}

	return opts
}

// collection holds the state of one Collect call.
type collection struct {
	opts     Options
	seed     *url.URL
	maxDepth int
	fetch    *fetcher.Fetcher
	log      *zap.SugaredLogger
	frontier *frontier
	visited  *set.Set[string]
	pages    []Page
}

func newCollection(opts Options, seed *url.URL) *collection {
	fetch := fetcher.New(opts.HTTPClient, fetcher.Config{
		Timeout:      opts.Timeout,
		UserAgent:    opts.UserAgent,
		MaxBodyBytes: opts.MaxBodyBytes,
		Limiter:      limiter.New(opts.Delay, opts.Clock),
	})

	return &collection{
		opts:     opts,
		seed:     seed,
		maxDepth: max(opts.MaxDepth, 0),
		fetch:    fetch,
		log:      opts.Logger.With("seed", seed.String()),
		frontier: newFrontier(),
		visited:  set.New[string](),
		pages:    []Page{},
	}
}

func (c *collection) run(ctx context.Context) ([]Page, error) {
	c.frontier.push(frontierEntry{url: c.seed.String(), depth: 0})

	for c.frontier.len() > 0 && len(c.pages) < c.opts.MaxPages {
		if err := ctx.Err(); err != nil {
			return c.pages, err
		}

		entry, _ := c.frontier.pop()
		if !c.visited.Add(entry.url) {
			continue
		}

		doc, err := c.load(ctx, entry)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return c.pages, ctxErr
			}

			c.log.Debugw("skipping page", "url", entry.url, "depth", entry.depth, "error", err)

			continue
		}

		c.pages = append(c.pages, c.record(entry, doc))
		c.log.Debugw("collected page", "url", entry.url, "depth", entry.depth, "pages", len(c.pages))

		if entry.depth >= c.maxDepth {
			continue
		}

		c.expand(entry, doc.Links())
	}

	c.log.Infow("collection finished", "pages", len(c.pages), "visited", c.visited.Len(), "pending", c.frontier.len())

	return c.pages, nil
}

// load fetches and parses one address. The error names the failing stage.
func (c *collection) load(ctx context.Context, entry frontierEntry) (*parser.Document, error) {
	result, err := c.fetch.Fetch(ctx, entry.url)
	if err != nil {
		return nil, fmt.Errorf("fetch: %w", err)
	}

	doc, err := parser.Parse(result.Body)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	return doc, nil
}

func (c *collection) record(entry frontierEntry, doc *parser.Document) Page {
	text, length := truncateRunes(doc.Text(), c.opts.MaxTextLength)

	return Page{
		URL:         entry.url,
		Depth:       entry.depth,
		Title:       doc.Title(),
		Description: doc.Description(),
		Text:        text,
		TextLength:  length,
	}
}

// expand queues the outbound links of the page at entry.
// Links resolve against the page's own address, not the seed.
func (c *collection) expand(entry frontierEntry, hrefs []string) {
	base, err := url.Parse(entry.url)
	if err != nil {
		c.log.Debugw("cannot resolve links", "url", entry.url, "error", err)

		return
	}

	for _, link := range c.outboundLinks(base, hrefs) {
		if c.opts.SameDomain && !urlutil.SameHost(c.seed, link) {
			continue
		}

		if c.visited.Has(link) || c.frontier.contains(link) {
			continue
		}

		c.frontier.push(frontierEntry{url: link, depth: entry.depth + 1})
	}
}

// outboundLinks resolves hrefs to unique absolute http(s) URLs in document order,
// capped at MaxLinksPerPage.
func (c *collection) outboundLinks(base *url.URL, hrefs []string) []string {
	seen := set.New[string]()
	links := make([]string, 0, len(hrefs))

	for _, href := range hrefs {
		if c.opts.MaxLinksPerPage > 0 && len(links) >= c.opts.MaxLinksPerPage {
			break
		}

		link, ok := urlutil.Resolve(base, href)
		if !ok || !seen.Add(link) {
			continue
		}

		links = append(links, link)
	}

	return links
}

// truncateRunes cuts s to at most limit runes and returns the rune count of s.
func truncateRunes(s string, limit int) (string, int) {
	length := utf8.RuneCountInString(s)
	if length <= limit {
		return s, length
	}

	count := 0
	for i := range s {
		if count == limit {
			return s[:i], length
		}
		count++
	}

	return s, length
}
