package urljoin

import "strings"

const schemeChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+-."

// components is a URL split into <scheme>://<netloc><path>?<query>#<fragment>.
// Splitting never fails; anything unrecognised ends up in path.
type components struct {
	scheme   string
	netloc   string
	path     string
	query    string
	fragment string
}

func split(raw string) components {
	var c components
	rest := raw

	if i := strings.IndexByte(rest, ':'); i > 0 && isScheme(rest[:i]) {
		after := rest[i+1:]
		// "host:8080" carries a port, not a scheme
		if after == "" || !allDigits(after) {
			c.scheme = strings.ToLower(rest[:i])
			rest = after
		}
	}

	if strings.HasPrefix(rest, "//") {
		rest = rest[2:]
		end := strings.IndexAny(rest, "/?#")
		if end < 0 {
			end = len(rest)
		}
		c.netloc, rest = rest[:end], rest[end:]
	}

	if i := strings.IndexByte(rest, '#'); i >= 0 {
		c.fragment, rest = rest[i+1:], rest[:i]
	}
	if i := strings.IndexByte(rest, '?'); i >= 0 {
		c.query, rest = rest[i+1:], rest[:i]
	}
	c.path = rest
	return c
}

func (c components) String() string {
	url := c.path
	if c.netloc != "" || (c.scheme != "" && usesNetloc[c.scheme] && !strings.HasPrefix(url, "//")) {
		if url != "" && url[0] != '/' {
			url = "/" + url
		}
		url = "//" + c.netloc + url
	}
	if c.scheme != "" {
		url = c.scheme + ":" + url
	}
	if c.query != "" {
		url += "?" + c.query
	}
	if c.fragment != "" {
		url += "#" + c.fragment
	}
	return url
}

func isScheme(s string) bool {
	first := s[0]
	if !(first >= 'a' && first <= 'z' || first >= 'A' && first <= 'Z') {
		return false
	}
	for i := 0; i < len(s); i++ {
		if strings.IndexByte(schemeChars, s[i]) < 0 {
			return false
		}
	}
	return true
}

func allDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
