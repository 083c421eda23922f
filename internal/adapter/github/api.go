package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/marcus/treeside/internal/adapter"
)

// client is a minimal GitHub REST client.
type client struct {
	base    string
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

func newClient(base string, timeout time.Duration, rps float64, logger *slog.Logger) *client {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	limit := rate.Inf
	if rps > 0 {
		limit = rate.Limit(rps)
	}
	return &client{
		base:    strings.TrimRight(base, "/"),
		http:    &http.Client{Timeout: timeout},
		limiter: rate.NewLimiter(limit, 5),
		logger:  logger,
	}
}

func (c *client) get(ctx context.Context, path, token string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return adapter.StatusError(0, err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return adapter.StatusError(0, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("github: request", "path", path, "status", resp.StatusCode)
	if resp.StatusCode != http.StatusOK {
		return adapter.StatusError(resp.StatusCode, fmt.Errorf("GET %s: %s", path, resp.Status))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

type repoInfo struct {
	DefaultBranch string `json:"default_branch"`
}

type pullInfo struct {
	Head struct {
		Ref string `json:"ref"`
		SHA string `json:"sha"`
	} `json:"head"`
}

type treeEntry struct {
	Path string `json:"path"`
	Type string `json:"type"`
	Size int64  `json:"size"`
}

type treeResponse struct {
	Tree      []treeEntry `json:"tree"`
	Truncated bool        `json:"truncated"`
}

type pullFile struct {
	Filename string `json:"filename"`
	Status   string `json:"status"`
}

func repoPath(owner, repo string) string {
	return "/repos/" + url.PathEscape(owner) + "/" + url.PathEscape(repo)
}

func (c *client) defaultBranch(ctx context.Context, owner, repo, token string) (string, error) {
	var info repoInfo
	if err := c.get(ctx, repoPath(owner, repo), token, &info); err != nil {
		return "", err
	}
	return info.DefaultBranch, nil
}

func (c *client) pull(ctx context.Context, owner, repo string, number int, token string) (pullInfo, error) {
	var info pullInfo
	err := c.get(ctx, fmt.Sprintf("%s/pulls/%d", repoPath(owner, repo), number), token, &info)
	return info, err
}

func (c *client) tree(ctx context.Context, owner, repo, treeish string, recursive bool, token string) (treeResponse, error) {
	p := repoPath(owner, repo) + "/git/trees/" + url.PathEscape(treeish)
	if recursive {
		p += "?recursive=1"
	}
	var resp treeResponse
	err := c.get(ctx, p, token, &resp)
	return resp, err
}

// maxPullPages bounds the pages read from the pull files endpoint.
const maxPullPages = 30

func (c *client) pullFiles(ctx context.Context, owner, repo string, number int, token string) ([]pullFile, error) {
	var all []pullFile
	for page := 1; page <= maxPullPages; page++ {
		var files []pullFile
		p := fmt.Sprintf("%s/pulls/%d/files?per_page=100&page=%d", repoPath(owner, repo), number, page)
		if err := c.get(ctx, p, token, &files); err != nil {
			return nil, err
		}
		all = append(all, files...)
		if len(files) < 100 {
			break
		}
	}
	return all, nil
}
