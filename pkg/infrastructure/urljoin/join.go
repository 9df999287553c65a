// Package urljoin resolves links found in a page against the page URL.
//
// The resolver is deliberately simple: it never merges the base path with a
// relative reference and never removes "." or ".." segments. A reference
// path is used verbatim, so "//a/../b" and "page.html" pass through as they
// are. Visited-set deduplication relies on this output staying stable.
package urljoin

// usesRelative lists schemes whose references are resolved against a base
var usesRelative = map[string]bool{
	"": true, "ftp": true, "http": true, "gopher": true, "nntp": true, "imap": true,
	"wais": true, "file": true, "https": true, "shttp": true, "mms": true,
	"prospero": true, "rtsp": true, "rtsps": true, "rtspu": true, "sftp": true,
	"svn": true, "svn+ssh": true, "ws": true, "wss": true,
}

// usesNetloc lists schemes that carry a network location
var usesNetloc = map[string]bool{
	"": true, "ftp": true, "http": true, "gopher": true, "nntp": true, "telnet": true,
	"imap": true, "wais": true, "file": true, "mms": true, "https": true, "shttp": true,
	"snews": true, "prospero": true, "rtsp": true, "rtsps": true, "rtspu": true, "rsync": true,
	"svn": true, "svn+ssh": true, "sftp": true, "nfs": true, "git": true, "git+ssh": true,
	"ws": true, "wss": true, "itms-services": true,
}

// Resolver implements service.URLResolver
type Resolver struct{}

// NewResolver creates a resolver
func NewResolver() *Resolver {
	return &Resolver{}
}

// Join implements service.URLResolver
func (r *Resolver) Join(base, ref string) string {
	return Join(base, ref)
}

// Join resolves ref against base. It never fails: malformed input degrades
// to string concatenation.
func Join(base, ref string) string {
	if base == "" {
		return ref
	}
	if ref == "" {
		return base
	}

	b := split(base)
	u := split(ref)
	if !usesRelative[u.scheme] {
		return ref
	}

	netloc, path := u.netloc, u.path
	if usesNetloc[b.scheme] {
		if netloc != "" {
			return reparse(b.scheme + "://" + netloc + path)
		}
		netloc = b.netloc
	}

	if path == "" {
		return reparse(b.scheme + "://" + netloc + b.path)
	}
	return b.scheme + "://" + netloc + path
}

func reparse(raw string) string {
	return split(raw).String()
}

// Netloc returns the network location of raw, or "" when it has none
func Netloc(raw string) string {
	return split(raw).netloc
}
