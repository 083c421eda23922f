// Package local resolves repositories from file:// locations of git
// checkouts on disk.
package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	gitlib "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/filemode"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/marcus/treeside/internal/adapter"
)

const (
	adapterID   = "local"
	adapterName = "Local git"
)

func init() {
	adapter.RegisterFactory(adapter.Factory{
		ID: adapterID,
		Matches: func(location *url.URL, _ adapter.Env) bool {
			return location.Scheme == "file"
		},
		New: func(_ *url.URL, env adapter.Env) adapter.Adapter {
			return New(env)
		},
	})
}

// Adapter reads repositories with go-git.
type Adapter struct {
	adapter.Layout

	logger   *slog.Logger
	debounce time.Duration
	now      func() time.Time
}

// New creates a local adapter.
func New(env adapter.Env) *Adapter {
	logger := env.Logger
	if logger == nil {
		logger = slog.Default()
	}
	debounce := env.WatchDebounce
	if debounce <= 0 {
		debounce = 150 * time.Millisecond
	}
	return &Adapter{logger: logger, debounce: debounce, now: time.Now}
}

// ID returns the adapter identifier.
func (a *Adapter) ID() string { return adapterID }

// Name returns the adapter display name.
func (a *Adapter) Name() string { return adapterName }

// LocationFor returns the file:// location of dir.
func LocationFor(dir string) string {
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(dir)}
	return u.String()
}

func locationPath(location string) (string, bool) {
	u, err := url.Parse(location)
	if err != nil || u.Scheme != "file" {
		return "", false
	}
	return filepath.FromSlash(u.Path), true
}

// GetRepoFromPath opens the repository containing the location's path.
// Paths outside any repository are not repository pages.
func (a *Adapter) GetRepoFromPath(ctx context.Context, location string, prev *adapter.Repo, token string) (*adapter.Repo, error) {
	p, ok := locationPath(location)
	if !ok {
		return nil, nil
	}
	info, err := os.Stat(p)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, &adapter.Error{Title: "Unreadable location", Message: p, Err: err}
	}
	if !info.IsDir() {
		p = filepath.Dir(p)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r, err := gitlib.PlainOpenWithOptions(p, &gitlib.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, gitlib.ErrRepositoryNotExists) {
			return nil, nil
		}
		return nil, &adapter.Error{Title: "Unreadable repository", Message: p, Err: err}
	}
	wt, err := r.Worktree()
	if err != nil {
		// Bare repositories have no files to browse.
		return nil, nil
	}
	root := wt.Filesystem.Root()

	branch, commit, err := head(r)
	if err != nil {
		return nil, &adapter.Error{Title: "Unreadable HEAD", Message: root, Err: err}
	}

	display := branch
	if display == "" && len(commit) >= 7 {
		display = commit[:7]
		branch = commit
	}
	return &adapter.Repo{
		Username:      filepath.Base(filepath.Dir(root)),
		Reponame:      filepath.Base(root),
		Branch:        branch,
		DisplayBranch: display,
		Host:          "file://",
		Root:          root,
		Commit:        commit,
		ResolvedAt:    a.now(),
	}, nil
}

// head returns the checked-out branch (empty when detached) and commit
// (empty before the first commit).
func head(r *gitlib.Repository) (branch, commit string, err error) {
	ref, err := r.Head()
	if err == nil {
		if ref.Name().IsBranch() {
			branch = ref.Name().Short()
		}
		return branch, ref.Hash().String(), nil
	}
	if !errors.Is(err, plumbing.ErrReferenceNotFound) {
		return "", "", err
	}
	// Unborn branch: HEAD is symbolic but points nowhere yet.
	sym, err := r.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", "", err
	}
	return sym.Target().Short(), "", nil
}

// LoadTree lists the committed tree at the resolved commit.
func (a *Adapter) LoadTree(ctx context.Context, repo *adapter.Repo, req adapter.TreeRequest) ([]adapter.TreeItem, error) {
	if repo == nil || repo.Root == "" {
		return nil, fmt.Errorf("load tree: no repository")
	}
	if repo.Commit == "" {
		return nil, nil
	}
	r, err := gitlib.PlainOpen(repo.Root)
	if err != nil {
		return nil, &adapter.Error{Title: "Unreadable repository", Message: repo.Root, Err: err}
	}
	c, err := r.CommitObject(plumbing.NewHash(repo.Commit))
	if err != nil {
		return nil, &adapter.Error{Title: "Missing commit", Message: repo.Commit, Err: err}
	}
	tree, err := c.Tree()
	if err != nil {
		return nil, err
	}
	if req.Path != "" {
		if tree, err = tree.Tree(req.Path); err != nil {
			return nil, &adapter.Error{Title: "Missing directory", Message: req.Path, Err: err}
		}
	}

	var items []adapter.TreeItem
	add := func(rel string, e object.TreeEntry) {
		full := rel
		if req.Path != "" {
			full = req.Path + "/" + rel
		}
		items = append(items, adapter.TreeItem{Path: full, Name: path.Base(full), Type: itemType(e.Mode)})
	}

	if !req.Recursive {
		for _, e := range tree.Entries {
			add(e.Name, e)
		}
		return items, nil
	}

	w := object.NewTreeWalker(tree, true, nil)
	defer w.Close()
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name, e, err := w.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		add(name, e)
	}
	return items, nil
}

func itemType(m filemode.FileMode) adapter.ItemType {
	switch m {
	case filemode.Dir:
		return adapter.Tree
	case filemode.Submodule:
		return adapter.Commit
	default:
		return adapter.Blob
	}
}

// FileURL returns the file:// location of path inside repo.
func (a *Adapter) FileURL(repo *adapter.Repo, p string) string {
	if repo == nil {
		return ""
	}
	return LocationFor(filepath.Join(repo.Root, filepath.FromSlash(p)))
}

// SelectedPath returns location relative to the repository root.
func (a *Adapter) SelectedPath(location string, repo *adapter.Repo) string {
	if repo == nil {
		return ""
	}
	p, ok := locationPath(location)
	if !ok {
		return ""
	}
	rel, err := filepath.Rel(repo.Root, p)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}
	return filepath.ToSlash(rel)
}
