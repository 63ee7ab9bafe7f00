package crawler

import (
	"bytes"
	"net/url"
	"strings"

	"linkradar/internal/common"

	"github.com/PuerkitoBio/goquery"
)

// LinkExtractor pulls hyperlink navigation targets out of fetched HTML.
// Only anchor-like references are considered (a[href], area[href]); assets,
// scripts, and styles are not navigation targets for this engine.
type LinkExtractor struct{}

// NewLinkExtractor creates a LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns the raw href values of a document in source order,
// resolved base included: when the document carries a <base href>, the
// effective base URL returned alongside the links reflects it. Callers
// normalize each raw link against that base.
func (le *LinkExtractor) ExtractLinks(htmlBody []byte, pageURL *url.URL) ([]string, *url.URL, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(htmlBody))
	if err != nil {
		return nil, pageURL, common.WrapError(err, "failed to parse HTML content")
	}

	baseURL := le.effectiveBase(doc, pageURL)

	links := make([]string, 0, 32)
	doc.Find("a[href], area[href]").Each(func(i int, s *goquery.Selection) {
		href, exists := s.Attr("href")
		if !exists {
			return
		}
		href = strings.TrimSpace(href)
		if href == "" {
			return
		}
		links = append(links, href)
	})

	return links, baseURL, nil
}

// effectiveBase resolves the document's <base href> against the page URL.
// The first base element wins, matching browser behavior.
func (le *LinkExtractor) effectiveBase(doc *goquery.Document, pageURL *url.URL) *url.URL {
	baseHref, exists := doc.Find("base[href]").First().Attr("href")
	if !exists || strings.TrimSpace(baseHref) == "" {
		return pageURL
	}
	if pageURL == nil {
		return nil
	}
	resolved, err := pageURL.Parse(strings.TrimSpace(baseHref))
	if err != nil {
		return pageURL
	}
	return resolved
}
