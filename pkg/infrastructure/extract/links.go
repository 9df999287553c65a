// Package extract scans fetched pages for hyperlinks and titles.
package extract

import (
	"regexp"
	"strings"

	"github.com/WangYihang/web-crawler/pkg/domain/service"
	mapset "github.com/deckarep/golang-set/v2"
)

// DefaultDenylist holds the substrings that mark a link as a non-content asset.
// Matching is a plain substring test on the raw href, so "discoball.ico" and
// "/unicorns" are dropped as well.
var DefaultDenylist = []string{"css", "ico"}

var (
	hrefRegex  = regexp.MustCompile(`(?i)href=["']([^\s"'<>]+)`)
	titleRegex = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	spaceRegex = regexp.MustCompile(`\s+`)
)

// LinkExtractor implements service.LinkExtractor
type LinkExtractor struct {
	resolver service.URLResolver
	denylist []string
}

// NewLinkExtractor creates an extractor resolving links with resolver.
// A nil denylist means DefaultDenylist; an empty one disables filtering.
func NewLinkExtractor(resolver service.URLResolver, denylist []string) *LinkExtractor {
	if denylist == nil {
		denylist = DefaultDenylist
	}
	return &LinkExtractor{resolver: resolver, denylist: denylist}
}

// ExtractLinks returns the resolved href targets of html
func (e *LinkExtractor) ExtractLinks(pageURL, html string) mapset.Set[string] {
	links := mapset.NewThreadUnsafeSet[string]()
	for _, match := range hrefRegex.FindAllStringSubmatch(html, -1) {
		raw := match[1]
		if e.denied(raw) {
			continue
		}
		links.Add(e.resolver.Join(pageURL, raw))
	}
	return links
}

func (e *LinkExtractor) denied(raw string) bool {
	for _, s := range e.denylist {
		if s != "" && strings.Contains(raw, s) {
			return true
		}
	}
	return false
}

// ExtractTitle extracts the title from HTML content
func (e *LinkExtractor) ExtractTitle(html string) string {
	matches := titleRegex.FindStringSubmatch(html)
	if len(matches) < 2 {
		return ""
	}
	return strings.TrimSpace(spaceRegex.ReplaceAllString(matches[1], " "))
}
