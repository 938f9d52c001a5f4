package urlutil

import (
	"errors"
	"net/url"
	"strings"
)

var (
	errMissingSchemeOrHost = errors.New("missing scheme or host")
	errUnsupportedScheme   = errors.New("unsupported scheme")
)

// ParseSeed parses rawURL as an absolute http(s) URL with a host.
// The host is lowercased, the fragment dropped and a bare "/" path canonicalized to empty,
// matching the form Resolve produces for discovered links.
func ParseSeed(rawURL string) (*url.URL, error) {
	parsed, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, err
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, errMissingSchemeOrHost
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil, errUnsupportedScheme
	}

	canonicalize(parsed)

	return parsed, nil
}

// Resolve resolves href against base and returns an absolute HTTP(S) URL.
// Fragment-only references and non-http schemes (javascript:, mailto:, ...) are rejected.
func Resolve(base *url.URL, href string) (string, bool) {
	trimmed := strings.TrimSpace(href)
	if trimmed == "" || strings.HasPrefix(trimmed, "#") {
		return "", false
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", false
	}

	if !isSupportedScheme(parsed.Scheme) {
		return "", false
	}

	resolved := base.ResolveReference(parsed)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return "", false
	}

	if resolved.Host == "" {
		return "", false
	}

	canonicalize(resolved)

	return resolved.String(), true
}

func isSupportedScheme(scheme string) bool {
	scheme = strings.ToLower(scheme)

	return scheme == "" || scheme == "http" || scheme == "https"
}

// canonicalize gives equal addresses equal strings: lowercase host, no fragment, no bare "/" path.
func canonicalize(u *url.URL) {
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""
	u.RawFragment = ""

	if u.Path == "/" {
		u.Path = ""
		u.RawPath = ""
	}
}

// SameHost reports whether raw has the same network location (host and port) as base.
// Scheme is ignored; host names compare case-insensitively.
func SameHost(base *url.URL, raw string) bool {
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}

	if parsed.Host == "" {
		return false
	}

	return strings.EqualFold(parsed.Host, base.Host)
}
