package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/zealgen"
)

var _ zealgen.LinkRewriter = (*LinkRewriter)(nil)

// LinkRewriter points in-scope anchors at their local document names and
// collects the in-scope pages they link to.
//
// Anchors outside the scope are resolved to absolute URLs so they keep
// working from the offline copy. Same-page fragments and non-HTTP schemes
// (mailto:, javascript:, ...) are left untouched.
type LinkRewriter struct{}

// NewLinkRewriter creates a new LinkRewriter.
func NewLinkRewriter() *LinkRewriter {
	return &LinkRewriter{}
}

// Rewrite rewrites html's anchors relative to pageURL and returns the
// rewritten page with the in-scope links in document order, fragments
// stripped and duplicates removed.
func (r *LinkRewriter) Rewrite(html string, pageURL string, scope zealgen.Scope) (*zealgen.RewriteResult, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, zealgen.Errorf(zealgen.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := parseHTML(html)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var links []string

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href := strings.TrimSpace(a.AttrOr("href", ""))
		if href == "" || strings.HasPrefix(href, "#") || isNonHTTPLink(href) {
			return
		}

		ref, err := url.Parse(href)
		if err != nil {
			return
		}
		resolved := base.ResolveReference(ref)
		if resolved.Scheme != "http" && resolved.Scheme != "https" {
			return
		}

		if !scope.Contains(resolved) {
			a.SetAttr("href", resolved.String())
			return
		}

		fragment := resolved.EscapedFragment()
		resolved.Fragment = ""
		resolved.RawFragment = ""
		target := resolved.String()

		local := zealgen.FilenameFor(target)
		if fragment != "" {
			local += "#" + fragment
		}
		a.SetAttr("href", local)

		if !seen[target] {
			seen[target] = true
			links = append(links, target)
		}
	})

	out, err := render(doc)
	if err != nil {
		return nil, err
	}
	return &zealgen.RewriteResult{HTML: out, Links: links}, nil
}
