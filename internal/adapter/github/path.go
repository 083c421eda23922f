package github

import (
	"net/url"
	"strconv"
	"strings"
)

// reserved are first path segments that are site pages, not users.
var reserved = map[string]bool{
	"about": true, "account": true, "apps": true, "blog": true, "business": true,
	"codespaces": true, "contact": true, "dashboard": true, "developer": true,
	"explore": true, "features": true, "gist": true, "integrations": true,
	"issues": true, "join": true, "login": true, "marketplace": true,
	"new": true, "notifications": true, "open-source": true, "organizations": true,
	"orgs": true, "personal": true, "pricing": true, "pulls": true, "search": true,
	"security": true, "sessions": true, "settings": true, "showcases": true,
	"site": true, "sponsors": true, "stars": true, "styleguide": true,
	"topics": true, "trending": true, "users": true, "watching": true,
}

// pagePath is what a location path says about the repository it shows.
type pagePath struct {
	Owner      string
	Repo       string
	Kind       string // "", "tree", "blob", "pull", or another repo tab
	Rest       []string
	PullNumber int
}

// parsePagePath splits a github.com style path. ok is false for pages that
// do not belong to a repository.
func parsePagePath(u *url.URL) (pagePath, bool) {
	segs := splitPath(u.EscapedPath())
	if len(segs) < 2 || reserved[segs[0]] {
		return pagePath{}, false
	}
	p := pagePath{Owner: segs[0], Repo: strings.TrimSuffix(segs[1], ".git")}
	if len(segs) > 2 {
		p.Kind = segs[2]
		p.Rest = segs[3:]
	}
	if p.Kind == "pull" {
		if len(p.Rest) == 0 {
			return pagePath{}, false
		}
		n, err := strconv.Atoi(p.Rest[0])
		if err != nil || n <= 0 {
			return pagePath{}, false
		}
		p.PullNumber = n
	}
	return p, true
}

// splitPath splits an escaped path and decodes each segment once.
func splitPath(p string) []string {
	var out []string
	for _, s := range strings.Split(p, "/") {
		if s == "" {
			continue
		}
		if dec, err := url.PathUnescape(s); err == nil {
			s = dec
		}
		out = append(out, s)
	}
	return out
}

// branchFromRest picks the branch out of a tree/blob path. Branch names may
// contain slashes, so a known branch that prefixes the path wins over the
// first segment.
func branchFromRest(rest []string, known string) (branch string, path []string) {
	if len(rest) == 0 {
		return "", nil
	}
	if known != "" {
		ks := strings.Split(known, "/")
		if len(rest) >= len(ks) && strings.Join(rest[:len(ks)], "/") == known {
			return known, rest[len(ks):]
		}
	}
	return rest[0], rest[1:]
}
