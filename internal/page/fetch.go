package page

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

// maxBytes caps how much of a file the page shows.
const maxBytes = 1 << 20

// Kind classifies fetched content.
type Kind int

const (
	KindText Kind = iota
	KindMarkdown
	KindDirectory
	KindBinary
	KindSummary
)

// Content is what the page shows for a location.
type Content struct {
	Location string
	// Name is the file name used to pick a highlighter.
	Name string
	Kind Kind
	Body string
	// Truncated is set when Body was cut at maxBytes.
	Truncated bool
}

// Fetcher loads the content behind a location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (Content, error)
}

// FetcherFunc adapts a function to Fetcher.
type FetcherFunc func(ctx context.Context, location string) (Content, error)

// Fetch implements Fetcher.
func (f FetcherFunc) Fetch(ctx context.Context, location string) (Content, error) {
	return f(ctx, location)
}

// Mux picks a fetcher by location scheme.
type Mux struct {
	File Fetcher
	Web  Fetcher
}

// NewMux returns the default fetchers. token supplies the access token at
// fetch time.
func NewMux(token func() string, timeout time.Duration) *Mux {
	return &Mux{
		File: FileFetcher{},
		Web: &WebFetcher{
			Client: &http.Client{Timeout: timeout},
			Token:  token,
		},
	}
}

// Fetch implements Fetcher.
func (m *Mux) Fetch(ctx context.Context, location string) (Content, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Content{}, fmt.Errorf("parse location: %w", err)
	}
	switch u.Scheme {
	case "file":
		return m.File.Fetch(ctx, location)
	case "http", "https":
		return m.Web.Fetch(ctx, location)
	default:
		return Content{}, fmt.Errorf("unsupported location %q", location)
	}
}

// classify decides how raw bytes are shown.
func classify(location, name string, data []byte) Content {
	c := Content{Location: location, Name: name}
	if len(data) > maxBytes {
		data = data[:maxBytes]
		c.Truncated = true
	}
	if bytes.IndexByte(data, 0) >= 0 || !utf8.Valid(data) {
		c.Kind = KindBinary
		return c
	}
	c.Body = string(data)
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		c.Kind = KindMarkdown
	default:
		c.Kind = KindText
	}
	return c
}

// FileFetcher reads file:// locations from disk.
type FileFetcher struct{}

// Fetch implements Fetcher.
func (FileFetcher) Fetch(ctx context.Context, location string) (Content, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Content{}, err
	}
	p := filepath.FromSlash(u.Path)
	info, err := os.Stat(p)
	if err != nil {
		return Content{}, err
	}
	if info.IsDir() {
		entries, err := os.ReadDir(p)
		if err != nil {
			return Content{}, err
		}
		return directory(location, filepath.Base(p), entries), nil
	}

	f, err := os.Open(p)
	if err != nil {
		return Content{}, err
	}
	defer f.Close()
	data, err := io.ReadAll(io.LimitReader(f, maxBytes+1))
	if err != nil {
		return Content{}, err
	}
	return classify(location, filepath.Base(p), data), nil
}

func directory(location, name string, entries []os.DirEntry) Content {
	var dirs, files []string
	for _, e := range entries {
		if e.IsDir() {
			dirs = append(dirs, e.Name()+"/")
		} else {
			files = append(files, e.Name())
		}
	}
	sort.Strings(dirs)
	sort.Strings(files)
	return Content{
		Location: location,
		Name:     name,
		Kind:     KindDirectory,
		Body:     strings.Join(append(dirs, files...), "\n"),
	}
}

// WebFetcher shows code host pages. File pages on github.com are fetched
// raw; other pages get a summary.
type WebFetcher struct {
	Client *http.Client
	Token  func() string
	// RawBase replaces https://raw.githubusercontent.com in tests.
	RawBase string
}

// Fetch implements Fetcher.
func (w *WebFetcher) Fetch(ctx context.Context, location string) (Content, error) {
	u, err := url.Parse(location)
	if err != nil {
		return Content{}, err
	}
	raw, name, ok := w.rawURL(u)
	if !ok {
		return Content{Location: location, Kind: KindSummary, Body: summary(u)}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, raw, nil)
	if err != nil {
		return Content{}, err
	}
	if w.Token != nil {
		if tok := w.Token(); tok != "" {
			req.Header.Set("Authorization", "Bearer "+tok)
		}
	}
	resp, err := w.Client.Do(req)
	if err != nil {
		return Content{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Content{}, fmt.Errorf("fetch %s: %s", raw, resp.Status)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes+1))
	if err != nil {
		return Content{}, err
	}
	return classify(location, name, data), nil
}

// rawURL maps https://github.com/o/r/blob/ref/path to its raw file URL.
func (w *WebFetcher) rawURL(u *url.URL) (raw, name string, ok bool) {
	if !strings.EqualFold(u.Host, "github.com") {
		return "", "", false
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(parts) < 5 || parts[2] != "blob" {
		return "", "", false
	}
	base := w.RawBase
	if base == "" {
		base = "https://raw.githubusercontent.com"
	}
	rest := append([]string{parts[0], parts[1]}, parts[3:]...)
	return strings.TrimRight(base, "/") + "/" + strings.Join(rest, "/"), parts[len(parts)-1], true
}

func summary(u *url.URL) string {
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s\n\n", u.String())
	if len(parts) >= 2 && parts[0] != "" {
		fmt.Fprintf(&sb, "Repository %s/%s on %s.\n", parts[0], parts[1], u.Host)
		if len(parts) >= 4 && parts[2] == "pull" {
			fmt.Fprintf(&sb, "Pull request #%s. Its changed files are listed in the sidebar.\n", parts[3])
		}
	}
	sb.WriteString("Open a file from the sidebar to view it here.")
	return sb.String()
}
