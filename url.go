package zealgen

import (
	"net/url"
	"strings"
)

// FilenameFor maps a page URL to the name of its document inside the bundle.
// The final path segment is used, "index.html" stands in for directory URLs,
// and ".html" is appended when missing:
//
//	http://x.com/docs/          → index.html
//	http://x.com/docs/page      → page.html
//	http://x.com/docs/page.html → page.html
//
// The mapping is a pure function of the input string. Two URLs that reach the
// same resource through a redirect (".../page/" and ".../page/index.php") map
// to different names.
func FilenameFor(rawURL string) string {
	path := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		path = u.Path
	} else {
		// Unparseable input: drop query and fragment by hand.
		if i := strings.IndexAny(path, "?#"); i != -1 {
			path = path[:i]
		}
	}

	if path == "" || strings.HasSuffix(path, "/") {
		path += "index.html"
	}

	name := path[strings.LastIndex(path, "/")+1:]
	if !strings.HasSuffix(name, ".html") {
		name += ".html"
	}
	return name
}

// Scope is the crawl boundary derived from a seed URL: same host, and a path
// inside the seed's directory.
type Scope struct {
	Host       string
	PathPrefix string
}

// NewScope returns the scope of seedURL. The directory prefix is the seed's
// path with its last segment dropped, so both
// http://docs.example.com/guide/ and http://docs.example.com/guide/index.html
// scope the crawl to /guide.
func NewScope(seedURL string) (Scope, error) {
	u, err := url.Parse(seedURL)
	if err != nil {
		return Scope{}, Errorf(EINVALID, "invalid seed URL %q: %v", seedURL, err)
	}
	if u.Host == "" {
		return Scope{}, Errorf(EINVALID, "seed URL %q has no host", seedURL)
	}

	prefix := ""
	if i := strings.LastIndex(u.Path, "/"); i != -1 {
		prefix = u.Path[:i]
	}
	return Scope{Host: u.Host, PathPrefix: prefix}, nil
}

// Contains reports whether u lies inside the scope.
// A prefix only matches whole path segments: /guide contains /guide/sub.html
// but not /guidelines.
func (s Scope) Contains(u *url.URL) bool {
	if u == nil || u.Host != s.Host {
		return false
	}
	if s.PathPrefix == "" {
		return true
	}
	return u.Path == s.PathPrefix || strings.HasPrefix(u.Path, s.PathPrefix+"/")
}

// StripFragment returns rawURL without its "#fragment" part.
func StripFragment(rawURL string) string {
	if i := strings.Index(rawURL, "#"); i != -1 {
		return rawURL[:i]
	}
	return rawURL
}
