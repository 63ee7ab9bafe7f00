package urlhandler

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrNotCrawlable is the sentinel returned for URLs whose scheme the engine
// cannot fetch (mailto:, javascript:, tel:, data:, ...). These are dropped
// silently, not recorded as broken links.
var ErrNotCrawlable = errors.New("URL scheme is not crawlable")

// ErrInvalidURL is returned when a URL cannot be parsed or resolved at all.
var ErrInvalidURL = errors.New("invalid URL")

// Normalize resolves href (possibly relative) against base and canonicalizes
// the result into the string form used as the engine's dedup key: lowercase
// scheme and host, no fragment, no default port, empty path rewritten to "/".
// Normalizing an already-normalized URL returns it unchanged.
func Normalize(href string, base *url.URL) (string, error) {
	trimmedHref := strings.TrimSpace(href)
	if trimmedHref == "" {
		return "", fmt.Errorf("%w: href is empty", ErrInvalidURL)
	}

	var resolvedURL *url.URL

	if base == nil {
		parsedHref, parseErr := url.Parse(trimmedHref)
		if parseErr != nil {
			return "", fmt.Errorf("%w: could not parse '%s': %v", ErrInvalidURL, trimmedHref, parseErr)
		}
		if !parsedHref.IsAbs() {
			return "", fmt.Errorf("%w: cannot resolve relative URL '%s' without a base", ErrInvalidURL, trimmedHref)
		}
		resolvedURL = parsedHref
	} else {
		resolved, resolveErr := base.Parse(trimmedHref)
		if resolveErr != nil {
			return "", fmt.Errorf("%w: could not resolve '%s' against '%s': %v", ErrInvalidURL, trimmedHref, base.String(), resolveErr)
		}
		resolvedURL = resolved
	}

	scheme := strings.ToLower(resolvedURL.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", ErrNotCrawlable
	}

	resolvedURL.Scheme = scheme
	resolvedURL.Host = normalizeHost(scheme, resolvedURL.Host)
	resolvedURL.Fragment = ""
	if resolvedURL.Path == "" {
		resolvedURL.Path = "/"
	}

	if resolvedURL.Hostname() == "" {
		return "", fmt.Errorf("%w: URL '%s' lacks a hostname", ErrInvalidURL, trimmedHref)
	}

	return resolvedURL.String(), nil
}

// NormalizeSeed normalizes a seed URL. A seed without a scheme gets http://
// prepended before normalization, so "example.com" is accepted from the CLI.
func NormalizeSeed(rawURL string) (string, error) {
	trimmedURL := strings.TrimSpace(rawURL)
	if trimmedURL == "" {
		return "", fmt.Errorf("%w: seed URL is empty or only whitespace", ErrInvalidURL)
	}

	if !strings.Contains(trimmedURL, "://") && !strings.HasPrefix(trimmedURL, "//") {
		trimmedURL = "http://" + trimmedURL
	}

	return Normalize(trimmedURL, nil)
}

// normalizeHost lowercases the host and strips the scheme's default port.
func normalizeHost(scheme, host string) string {
	host = strings.ToLower(host)
	switch scheme {
	case "http":
		host = strings.TrimSuffix(host, ":80")
	case "https":
		host = strings.TrimSuffix(host, ":443")
	}
	return host
}

// Origin returns the scheme://host[:port] origin of a normalized URL string.
func Origin(normalizedURL string) (string, error) {
	parsed, err := url.Parse(normalizedURL)
	if err != nil {
		return "", fmt.Errorf("%w: could not parse '%s': %v", ErrInvalidURL, normalizedURL, err)
	}
	return parsed.Scheme + "://" + parsed.Host, nil
}

// SameOrigin reports whether two normalized URL strings share an origin.
// Normalization already lowercased hosts and stripped default ports, so a
// plain origin comparison is exact.
func SameOrigin(a, b string) bool {
	originA, errA := Origin(a)
	originB, errB := Origin(b)
	if errA != nil || errB != nil {
		return false
	}
	return originA == originB
}
