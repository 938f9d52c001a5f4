package fetcher

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/net/html/charset"

	"webcollect/internal/limiter"
)

const (
	// DefaultTimeout bounds a single fetch, including reading the body.
	DefaultTimeout = 10 * time.Second
	// DefaultMaxBodyBytes caps how much of a response body is read.
	DefaultMaxBodyBytes int64 = 5 << 20

	sniffLen = 512
)

var (
	// ErrInvalidRequest is returned when the URL cannot be turned into a request.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrNotHTML is returned for successful responses that are not HTML documents.
	ErrNotHTML = errors.New("not an html document")
)

// StatusError reports a non-2xx response.
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.StatusCode)
	if text == "" {
		return fmt.Sprintf("http status %d", e.StatusCode)
	}

	return fmt.Sprintf("http status %d: %s", e.StatusCode, text)
}

// Result contains a fetched HTML document decoded to UTF-8.
type Result struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

// Config configures a Fetcher. Zero values select the defaults.
type Config struct {
	Timeout      time.Duration
	UserAgent    string
	MaxBodyBytes int64
	Limiter      *limiter.Limiter
}

// Fetcher performs single-attempt HTML GET requests.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	userAgent    string
	maxBodyBytes int64
	limiter      *limiter.Limiter
}

// New creates a Fetcher. A nil client falls back to a fresh http.Client.
func New(client *http.Client, cfg Config) *Fetcher {
	if client == nil {
		client = &http.Client{}
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	maxBodyBytes := cfg.MaxBodyBytes
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}

	return &Fetcher{
		client:       client,
		timeout:      timeout,
		userAgent:    cfg.UserAgent,
		maxBodyBytes: maxBodyBytes,
		limiter:      cfg.Limiter,
	}
}

// Fetch performs one GET request. It fails on transport errors, timeouts,
// non-2xx responses and non-HTML content; there are no retries.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Result, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return Result{}, err
	}

	requestCtx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	request, err := newRequest(requestCtx, rawURL)
	if err != nil {
		return Result{}, err
	}

	if f.userAgent != "" {
		request.Header.Set("User-Agent", f.userAgent)
	}
	request.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.1")

	response, err := f.client.Do(request)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		_ = response.Body.Close()
	}()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		_, _ = io.Copy(io.Discard, io.LimitReader(response.Body, sniffLen))

		return Result{StatusCode: response.StatusCode}, &StatusError{StatusCode: response.StatusCode}
	}

	raw, err := io.ReadAll(io.LimitReader(response.Body, f.maxBodyBytes))
	if err != nil {
		return Result{StatusCode: response.StatusCode}, fmt.Errorf("read body: %w", err)
	}

	contentType := response.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(raw[:min(len(raw), sniffLen)])
	}

	result := Result{StatusCode: response.StatusCode, ContentType: contentType}
	if !isHTML(contentType) {
		return result, fmt.Errorf("%w: %q", ErrNotHTML, contentType)
	}

	body, err := decode(raw, contentType)
	if err != nil {
		return result, fmt.Errorf("decode body: %w", err)
	}
	result.Body = body

	return result, nil
}

func newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	if parsedURL.Path == "" {
		parsedURL.Path = "/"
	}

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, parsedURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}

	return request, nil
}

func isHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}

// decode converts raw to UTF-8 using the declared or sniffed charset.
func decode(raw []byte, contentType string) ([]byte, error) {
	if len(raw) == 0 {
		return raw, nil
	}

	reader, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return nil, err
	}

	return io.ReadAll(reader)
}
