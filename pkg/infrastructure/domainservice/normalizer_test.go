package domainservice

import (
	"strings"
	"testing"

	mapset "github.com/deckarep/golang-set/v2"
)

func TestNormalizer_Normalize(t *testing.T) {
	normalizer := NewNormalizer(nil)

	tests := []struct {
		name     string
		seeds    []string
		expected []string
	}{
		{"bare host", []string{"example.com"}, []string{"https://example.com"}},
		{"http url", []string{"http://example.com/path"}, []string{"https://example.com"}},
		{"host with port", []string{"example.com:8080"}, []string{"https://example.com"}},
		{"url with port", []string{"https://api.example.com:8443/x"}, []string{"https://api.example.com"}},
		{"upper case", []string{"WWW.Example.COM"}, []string{"https://www.example.com"}},
		{"duplicates collapse", []string{"a.com", "a.com", "A.com"}, []string{"https://a.com"}},
		{"invalid", []string{"not a domain!!"}, nil},
		{"no tld", []string{"localhost"}, nil},
		{"numeric tld", []string{"10.0.0.1"}, nil},
		{"leading hyphen", []string{"-bad.com"}, nil},
		{"empty host", []string{"https://", ""}, nil},
		{"mixed", []string{"golang.org", "bad host", "https://go.dev"}, []string{"https://golang.org", "https://go.dev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := normalizer.Normalize(tt.seeds)
			expected := mapset.NewThreadUnsafeSet(tt.expected...)
			if !result.Equal(expected) {
				t.Errorf("Normalize(%v) = %v, want %v", tt.seeds, result.ToSlice(), tt.expected)
			}
		})
	}
}

func TestNormalizer_Invariants(t *testing.T) {
	normalizer := NewNormalizer(nil)
	seeds := []string{
		"Example.com", "ftp://files.example.org:21", "a..b.com", "x.y", "x.yz",
		"under_score.com", "ümlaut.de", "https://UPPER.IO/Path", " spaced.com",
	}

	for root := range normalizer.Normalize(seeds).Iter() {
		if !strings.HasPrefix(root, "https://") {
			t.Errorf("root %q does not start with https://", root)
		}
		if root != strings.ToLower(root) {
			t.Errorf("root %q is not lower-case", root)
		}
		host := strings.TrimPrefix(root, "https://")
		if !normalizer.(*Normalizer).IsValid(host) {
			t.Errorf("root %q fails the domain grammar", root)
		}
	}
}

func TestNormalizer_IsValid(t *testing.T) {
	normalizer := NewNormalizer(nil).(*Normalizer)

	tests := []struct {
		domain   string
		expected bool
	}{
		{"www.example.com", true},
		{"api.example.com", true},
		{"deep.sub.example.com", true},
		{"", false},
		{"not a domain", false},
		{"example", false},
		{"example.c", false},
		{"example.c0m", false},
		{"bad-.example.com", false},
	}

	for _, tt := range tests {
		if result := normalizer.IsValid(tt.domain); result != tt.expected {
			t.Errorf("IsValid(%s) = %v, want %v", tt.domain, result, tt.expected)
		}
	}
}
