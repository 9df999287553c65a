package extract

import (
	"strings"
	"testing"

	"github.com/WangYihang/web-crawler/pkg/infrastructure/urljoin"
	mapset "github.com/deckarep/golang-set/v2"
)

func TestExtractLinks(t *testing.T) {
	e := NewLinkExtractor(urljoin.NewResolver(), nil)

	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{"relative", `<a href="/about">About</a>`, []string{"https://example.com/about"}},
		{"single quotes", `<a href='/blog'>`, []string{"https://example.com/blog"}},
		{"upper case attribute", `<A HREF="/x">`, []string{"https://example.com/x"}},
		{"absolute", `<a href="https://golang.org/doc">`, []string{"https://golang.org/doc"}},
		{"dedup", `<a href="/a"><a href="/a"><a href='/a'>`, []string{"https://example.com/a"}},
		{"stylesheet", `<link rel="stylesheet" href="/main.css">`, nil},
		{"favicon", `<link rel="icon" href="/favicon.ico">`, nil},
		{"coarse filter", `<a href="/unicorns">`, nil},
		{"unquoted ignored", `<a href=/plain>`, nil},
		{"stops at whitespace", `<a href="/a b">`, []string{"https://example.com/a"}},
		{"mailto passes through", `<a href="mailto:me@example.com">`, []string{"mailto:me@example.com"}},
		{"none", `<p>no links</p>`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := e.ExtractLinks("https://example.com", tt.html)
			if !result.Equal(mapset.NewThreadUnsafeSet(tt.expected...)) {
				t.Errorf("ExtractLinks(%q) = %v, want %v", tt.html, result.ToSlice(), tt.expected)
			}
		})
	}
}

func TestExtractLinks_NeverReturnsDenied(t *testing.T) {
	e := NewLinkExtractor(urljoin.NewResolver(), nil)
	html := `<a href="/ok"><a href="/style.css"><a href="/x/icons/y"><a href="/css/"><a href="https://cdn.example.com/a.ico">`

	result := e.ExtractLinks("https://example.com", html)
	for link := range result.Iter() {
		if strings.Contains(link, "css") || strings.Contains(link, "ico") {
			t.Errorf("ExtractLinks returned denied link %q", link)
		}
	}
	if result.Cardinality() != 1 {
		t.Errorf("ExtractLinks returned %d links, want 1", result.Cardinality())
	}
}

func TestExtractLinks_CustomDenylist(t *testing.T) {
	html := `<a href="/a.pdf"><a href="/main.css"><a href="/b">`

	e := NewLinkExtractor(urljoin.NewResolver(), []string{".pdf"})
	want := mapset.NewThreadUnsafeSet("https://example.com/main.css", "https://example.com/b")
	if result := e.ExtractLinks("https://example.com", html); !result.Equal(want) {
		t.Errorf("ExtractLinks() = %v, want %v", result.ToSlice(), want.ToSlice())
	}

	e = NewLinkExtractor(urljoin.NewResolver(), []string{})
	if result := e.ExtractLinks("https://example.com", html); result.Cardinality() != 3 {
		t.Errorf("ExtractLinks() with empty denylist = %d links, want 3", result.Cardinality())
	}
}

func TestExtractTitle(t *testing.T) {
	e := NewLinkExtractor(urljoin.NewResolver(), nil)

	tests := []struct {
		name     string
		html     string
		expected string
	}{
		{"simple", "<title>Hello</title>", "Hello"},
		{"attributes", `<title lang="en">Hi there</title>`, "Hi there"},
		{"multiline", "<TITLE>\n  Multi\n\tLine  \n</TITLE>", "Multi Line"},
		{"missing", "<html></html>", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if result := e.ExtractTitle(tt.html); result != tt.expected {
				t.Errorf("ExtractTitle(%q) = %q, want %q", tt.html, result, tt.expected)
			}
		})
	}
}
