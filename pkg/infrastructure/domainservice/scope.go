package domainservice

import (
	"strings"

	"github.com/WangYihang/web-crawler/pkg/infrastructure/urljoin"
	"golang.org/x/net/publicsuffix"
)

// Scope implements service.LinkScope by registrable domain (eTLD+1)
type Scope struct {
	sites map[string]bool
}

// NewScope creates a scope covering the registrable domains of rootDomains
func NewScope(rootDomains []string) *Scope {
	sites := make(map[string]bool)
	for _, root := range rootDomains {
		if site, ok := registrable(root); ok {
			sites[site] = true
		}
	}
	return &Scope{sites: sites}
}

// InScope reports whether link shares a registrable domain with a root
func (s *Scope) InScope(link string) bool {
	site, ok := registrable(link)
	if !ok {
		return false
	}
	return s.sites[site]
}

// Sites returns the number of registrable domains in scope
func (s *Scope) Sites() int {
	return len(s.sites)
}

func registrable(rawURL string) (string, bool) {
	host := urljoin.Netloc(rawURL)
	if i := strings.LastIndexByte(host, '@'); i >= 0 {
		host = host[i+1:]
	}
	host, _, _ = strings.Cut(host, ":")
	host = strings.ToLower(strings.TrimSuffix(host, "."))
	if host == "" {
		return "", false
	}
	site, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return "", false
	}
	return site, true
}

// AnyScope accepts every link
type AnyScope struct{}

// InScope always returns true
func (AnyScope) InScope(string) bool { return true }
