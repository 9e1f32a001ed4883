package assets

import (
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Resolver turns asset references into fetchable URLs, the way a browser
// page would: relative to the page first, then rooted at the page's origin.
type Resolver struct {
	page *url.URL
	root *url.URL
}

// NewResolver creates a resolver for a page URL. An empty page means the
// working directory. siteRoot is the origin used for file:// pages, which
// have no host of their own; empty means the page's directory.
func NewResolver(page, siteRoot string) (*Resolver, error) {
	p, err := parseLocation(page, true)
	if err != nil {
		return nil, fmt.Errorf("page URL: %w", err)
	}

	r := &Resolver{page: p}
	switch {
	case p.Scheme == "http" || p.Scheme == "https":
		r.root = &url.URL{Scheme: p.Scheme, Host: p.Host, Path: "/"}
	case siteRoot != "":
		if r.root, err = parseLocation(siteRoot, true); err != nil {
			return nil, fmt.Errorf("site root: %w", err)
		}
	default:
		r.root = p.ResolveReference(&url.URL{Path: "./"})
	}
	return r, nil
}

// parseLocation accepts URLs and local paths. Directories get a trailing
// slash so references resolve inside them.
func parseLocation(s string, dir bool) (*url.URL, error) {
	if s == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		s = wd
	}
	if strings.Contains(s, "://") {
		return url.Parse(s)
	}

	abs, err := filepath.Abs(s)
	if err != nil {
		return nil, err
	}
	p := filepath.ToSlash(abs)
	if dir {
		if info, err := os.Stat(abs); err == nil && info.IsDir() && !strings.HasSuffix(p, "/") {
			p += "/"
		}
	}
	if !strings.HasPrefix(p, "/") {
		p = "/" + p
	}
	return &url.URL{Scheme: "file", Path: p}, nil
}

// Page returns the page URL references are resolved against.
func (r *Resolver) Page() string {
	return r.page.String()
}

// Relative resolves ref against the page path. Absolute URLs pass through.
func (r *Resolver) Relative(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("asset reference %q: %w", ref, err)
	}
	return r.page.ResolveReference(u).String(), nil
}

// Origin resolves ref from the site root, ignoring where the page lives.
// Leading ./ and ../ segments are dropped so "../models/a.obj" becomes
// "<root>/models/a.obj".
func (r *Resolver) Origin(ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("asset reference %q: %w", ref, err)
	}
	if u.IsAbs() {
		return u.String(), nil
	}

	clean := path.Clean("/" + u.Path)
	rooted := *r.root
	rooted.Path = strings.TrimSuffix(r.root.Path, "/") + clean
	rooted.RawQuery = u.RawQuery
	return rooted.String(), nil
}

// LocalPath returns the filesystem path behind a file URL, or "" for
// anything else.
func LocalPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "file" && u.Scheme != "") {
		return ""
	}
	if u.Scheme == "" {
		return filepath.FromSlash(rawURL)
	}
	return filepath.FromSlash(u.Path)
}
