// Package github resolves repositories from github.com and GitHub
// Enterprise locations through the REST API.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/marcus/treeside/internal/adapter"
	"github.com/marcus/treeside/internal/settings"
)

const (
	adapterID   = "github"
	adapterName = "GitHub"

	// PublicOrigin is always on the allow-list.
	PublicOrigin = "https://github.com"
	publicAPI    = "https://api.github.com"
)

func init() {
	adapter.RegisterFactory(adapter.Factory{
		ID:      adapterID,
		Matches: Matches,
		New: func(location *url.URL, env adapter.Env) adapter.Adapter {
			return New(adapter.Origin(location), env)
		},
	})
}

// Matches reports whether location's origin is github.com or one of the
// enterprise origins listed in the enterprise-urls setting.
func Matches(location *url.URL, env adapter.Env) bool {
	if location.Scheme != "http" && location.Scheme != "https" {
		return false
	}
	origin := adapter.Origin(location)
	for _, allowed := range AllowList(env.Store) {
		if strings.EqualFold(origin, allowed) {
			return true
		}
	}
	return false
}

// AllowList returns the normalized origins the adapter serves.
func AllowList(store settings.Store) []string {
	var out []string
	if store != nil {
		for _, line := range strings.Split(settings.String(store, settings.EnterpriseURLs), "\n") {
			if o := adapter.NormalizeOrigin(line); o != "" {
				out = append(out, o)
			}
		}
	}
	return append(out, PublicOrigin)
}

// Adapter serves one GitHub origin.
type Adapter struct {
	adapter.Layout

	origin string
	api    *client
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	branches map[string]string // owner/repo -> default branch
}

// New creates an adapter for origin. Enterprise origins use origin/api/v3.
func New(origin string, env adapter.Env) *Adapter {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	base := origin + "/api/v3"
	if strings.EqualFold(origin, PublicOrigin) {
		base = publicAPI
		if env.GitHubAPI != "" {
			base = env.GitHubAPI
		}
	}
	return &Adapter{
		origin:   origin,
		api:      newClient(base, env.GitHubTimeout, env.GitHubRate, logger),
		logger:   logger,
		now:      time.Now,
		branches: make(map[string]string),
	}
}

// ID returns the adapter identifier.
func (a *Adapter) ID() string { return adapterID }

// Name returns the adapter display name.
func (a *Adapter) Name() string { return adapterName }

// GetRepoFromPath resolves owner, repository, branch and pull request
// number from location.
func (a *Adapter) GetRepoFromPath(ctx context.Context, location string, prev *adapter.Repo, token string) (*adapter.Repo, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, nil
	}
	if !strings.EqualFold(adapter.Origin(u), a.origin) {
		return nil, nil
	}
	p, ok := parsePagePath(u)
	if !ok {
		return nil, nil
	}

	repo := &adapter.Repo{
		Username:   p.Owner,
		Reponame:   p.Repo,
		Host:       a.origin,
		ResolvedAt: a.now(),
	}

	switch p.Kind {
	case "pull":
		info, err := a.api.pull(ctx, p.Owner, p.Repo, p.PullNumber, token)
		if err != nil {
			return nil, err
		}
		repo.PullNumber = p.PullNumber
		repo.Branch = info.Head.Ref
		repo.Commit = info.Head.SHA
		repo.DisplayBranch = fmt.Sprintf("#%d %s", p.PullNumber, info.Head.Ref)
		return repo, nil

	case "tree", "blob":
		known := ""
		if prev != nil && prev.Username == p.Owner && prev.Reponame == p.Repo {
			known = prev.Branch
		}
		if branch, _ := branchFromRest(p.Rest, known); branch != "" {
			repo.Branch = branch
			repo.DisplayBranch = branch
			return repo, nil
		}
	}

	branch, err := a.defaultBranch(ctx, p.Owner, p.Repo, token)
	if err != nil {
		return nil, err
	}
	repo.Branch = branch
	repo.DisplayBranch = branch
	return repo, nil
}

func (a *Adapter) defaultBranch(ctx context.Context, owner, repo, token string) (string, error) {
	key := owner + "/" + repo
	a.mu.Lock()
	b, ok := a.branches[key]
	a.mu.Unlock()
	if ok {
		return b, nil
	}

	b, err := a.api.defaultBranch(ctx, owner, repo, token)
	if err != nil {
		return "", err
	}
	a.mu.Lock()
	a.branches[key] = b
	a.mu.Unlock()
	return b, nil
}

// LoadTree lists the repository tree, or the changed files of the pull
// request when req.PullRequests is set.
func (a *Adapter) LoadTree(ctx context.Context, repo *adapter.Repo, req adapter.TreeRequest) ([]adapter.TreeItem, error) {
	if repo == nil {
		return nil, fmt.Errorf("load tree: no repository")
	}
	if req.PullRequests && repo.PullNumber > 0 {
		files, err := a.api.pullFiles(ctx, repo.Username, repo.Reponame, repo.PullNumber, req.Token)
		if err != nil {
			return nil, err
		}
		return pullItems(files), nil
	}

	treeish := repo.Branch
	if req.Path != "" {
		treeish += ":" + req.Path
	}
	resp, err := a.api.tree(ctx, repo.Username, repo.Reponame, treeish, req.Recursive, req.Token)
	if err != nil {
		return nil, err
	}
	if resp.Truncated {
		a.logger.Warn("github: tree truncated", "repo", repo.String())
	}

	items := make([]adapter.TreeItem, 0, len(resp.Tree))
	for _, e := range resp.Tree {
		full := e.Path
		if req.Path != "" {
			full = req.Path + "/" + e.Path
		}
		items = append(items, adapter.TreeItem{
			Path: full,
			Name: path.Base(full),
			Type: adapter.ItemType(e.Type),
			Size: e.Size,
		})
	}
	return items, nil
}

// pullItems turns a changed-file list into tree items, adding the parent
// directories so the tree renders nested.
func pullItems(files []pullFile) []adapter.TreeItem {
	dirs := make(map[string]bool)
	var items []adapter.TreeItem
	for _, f := range files {
		for dir := path.Dir(f.Filename); dir != "." && !dirs[dir]; dir = path.Dir(dir) {
			dirs[dir] = true
		}
		items = append(items, adapter.TreeItem{
			Path:   f.Filename,
			Name:   path.Base(f.Filename),
			Type:   adapter.Blob,
			Status: f.Status,
		})
	}
	for dir := range dirs {
		items = append(items, adapter.TreeItem{Path: dir, Name: path.Base(dir), Type: adapter.Tree})
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Path < items[j].Path })
	return items
}

// FileURL returns the blob page of path.
func (a *Adapter) FileURL(repo *adapter.Repo, p string) string {
	if repo == nil {
		return ""
	}
	kind := "blob"
	if p == "" {
		kind = "tree"
	}
	u := fmt.Sprintf("%s/%s/%s/%s/%s", a.origin, url.PathEscape(repo.Username), url.PathEscape(repo.Reponame), kind, escapeSegments(repo.Branch))
	if p != "" {
		u += "/" + escapeSegments(p)
	}
	return u
}

// escapeSegments escapes each slash-separated segment of p.
func escapeSegments(p string) string {
	segs := strings.Split(p, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}

// SelectedPath returns the path a tree or blob location points at.
func (a *Adapter) SelectedPath(location string, repo *adapter.Repo) string {
	if repo == nil {
		return ""
	}
	u, err := url.Parse(location)
	if err != nil {
		return ""
	}
	p, ok := parsePagePath(u)
	if !ok || p.Owner != repo.Username || p.Repo != repo.Reponame {
		return ""
	}
	if p.Kind != "tree" && p.Kind != "blob" {
		return ""
	}
	branch, rest := branchFromRest(p.Rest, repo.Branch)
	if branch != repo.Branch {
		return ""
	}
	return strings.Join(rest, "/")
}
