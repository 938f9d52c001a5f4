package collector

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

const fixtureSeed = "https://example.com"

var fixtureTime = time.Date(2026, time.October, 16, 9, 0, 0, 0, time.UTC)

var errConnectionRefused = errors.New("connection refused")

type roundTripFunc func(*http.Request) (*http.Response, error)

func (fn roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) { return fn(req) }

// fakeSite serves HTML pages keyed by "host/path" and records every request.
type fakeSite struct {
	mu       sync.Mutex
	pages    map[string]string
	failing  map[string]bool
	requests []string
}

func newFakeSite(pages map[string]string) *fakeSite {
	return &fakeSite{
		pages:   pages,
		failing: map[string]bool{},
	}
}

func (s *fakeSite) client() *http.Client {
	return &http.Client{Transport: roundTripFunc(s.roundTrip)}
}

func (s *fakeSite) roundTrip(req *http.Request) (*http.Response, error) {
	key := req.URL.Host + req.URL.Path
	if req.URL.RawQuery != "" {
		key += "?" + req.URL.RawQuery
	}

	s.mu.Lock()
	s.requests = append(s.requests, key)
	body, ok := s.pages[key]
	failing := s.failing[key]
	s.mu.Unlock()

	if failing {
		return nil, errConnectionRefused
	}

	if !ok {
		return htmlResponse(http.StatusNotFound, "<p>not found</p>"), nil
	}

	if strings.HasPrefix(body, "%PDF") {
		return &http.Response{
			StatusCode: http.StatusOK,
			Header:     http.Header{"Content-Type": []string{"application/pdf"}},
			Body:       io.NopCloser(strings.NewReader(body)),
		}, nil
	}

	return htmlResponse(http.StatusOK, body), nil
}

func (s *fakeSite) requested() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.requests...)
}

func htmlResponse(status int, body string) *http.Response {
	return &http.Response{
		StatusCode: status,
		Header:     http.Header{"Content-Type": []string{"text/html; charset=utf-8"}},
		Body:       io.NopCloser(bytes.NewReader([]byte(body))),
	}
}

// page builds an HTML document whose body holds text followed by one link per href.
func page(text string, hrefs ...string) string {
	var b strings.Builder
	b.WriteString("<html><head><title>")
	b.WriteString(text)
	b.WriteString("</title></head><body><p>")
	b.WriteString(text)
	b.WriteString("</p>")
	for _, href := range hrefs {
		b.WriteString(`<a href="`)
		b.WriteString(href)
		b.WriteString(`">link</a>`)
	}
	b.WriteString("</body></html>")

	return b.String()
}

func testOptions(site *fakeSite, seed string) Options {
	opts := DefaultOptions(seed)
	opts.HTTPClient = site.client()
	opts.Clock = &testClock{now: fixtureTime}
	opts.Timeout = time.Second

	return opts
}

func observedLogger() (*zap.SugaredLogger, *observer.ObservedLogs) {
	core, logs := observer.New(zap.DebugLevel)

	return zap.New(core).Sugar(), logs
}

func pageURLs(pages []Page) []string {
	urls := make([]string, 0, len(pages))
	for _, p := range pages {
		urls = append(urls, p.URL)
	}

	return urls
}

type testClock struct {
	mu     sync.Mutex
	now    time.Time
	sleeps []time.Duration
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Sleep(ctx context.Context, duration time.Duration) error {
	c.mu.Lock()
	c.sleeps = append(c.sleeps, duration)
	c.mu.Unlock()

	return ctx.Err()
}
