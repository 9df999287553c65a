package service

import (
	"context"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
)

// DomainNormalizer turns raw seed hosts into canonical root domain URLs
type DomainNormalizer interface {
	// Normalize returns the set of valid root domains; invalid seeds are dropped
	Normalize(seeds []string) mapset.Set[string]
}

// URLResolver resolves references against a base URL
type URLResolver interface {
	// Join resolves ref against base
	Join(base, ref string) string
}

// LinkExtractor extracts links from page content
type LinkExtractor interface {
	// ExtractLinks returns the resolved hyperlink targets found in html
	ExtractLinks(pageURL, html string) mapset.Set[string]
	// ExtractTitle returns the page title, or "" when there is none
	ExtractTitle(html string) string
}

// LinkScope decides whether a discovered link may be queued
type LinkScope interface {
	InScope(link string) bool
}

// PageFetcher fetches a page body
type PageFetcher interface {
	// Fetch returns the page body. On failure the returned result still
	// describes the attempts made.
	Fetch(ctx context.Context, target string) (*FetchResult, error)
}

// FetchResult describes a concluded fetch
type FetchResult struct {
	URL        string
	ProxyURL   string
	StatusCode int
	Body       string
	Attempts   int
	Duration   time.Duration
}
