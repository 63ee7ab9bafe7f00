package crawler

import (
	"linkradar/internal/urlhandler"
)

// OriginScope decides whether a discovered URL may be expanded further.
// When same-origin crawling is enabled, a URL outside the seed's origin is
// still fetched once and classified, but its links are never followed:
// crawling stops at the boundary, checking does not.
type OriginScope struct {
	seedOrigin     string
	sameOriginOnly bool
}

// NewOriginScope builds the scope from a normalized seed URL.
func NewOriginScope(normalizedSeedURL string, sameOriginOnly bool) (*OriginScope, error) {
	origin, err := urlhandler.Origin(normalizedSeedURL)
	if err != nil {
		return nil, err
	}
	return &OriginScope{
		seedOrigin:     origin,
		sameOriginOnly: sameOriginOnly,
	}, nil
}

// AllowsExpansion reports whether links found on the given normalized URL
// should be followed.
func (os *OriginScope) AllowsExpansion(normalizedURL string) bool {
	if !os.sameOriginOnly {
		return true
	}
	origin, err := urlhandler.Origin(normalizedURL)
	if err != nil {
		return false
	}
	return origin == os.seedOrigin
}
