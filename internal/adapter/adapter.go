package adapter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/marcus/treeside/internal/shell"
)

// Adapter resolves which repository a location shows and serves its tree.
type Adapter interface {
	ID() string
	Name() string

	// Init attaches the adapter to the sidebar once at startup.
	Init(sidebar *shell.Sidebar)

	// GetRepoFromPath resolves the repository for location. prev is the
	// repository currently displayed (nil if none) and may be used as a
	// cache hint. A nil Repo with a nil error means location is not a
	// repository page.
	GetRepoFromPath(ctx context.Context, location string, prev *Repo, token string) (*Repo, error)

	// UpdateLayout adjusts the page after a layout-affecting change.
	UpdateLayout(togglerVisible, sidebarVisible bool, width int)

	// LoadTree lists the items under req.Path.
	LoadTree(ctx context.Context, repo *Repo, req TreeRequest) ([]TreeItem, error)

	// FileURL returns the location that shows path in repo.
	FileURL(repo *Repo, path string) string

	// SelectedPath returns the repository path location points at, or "".
	SelectedPath(location string, repo *Repo) string
}

// Watcher is implemented by adapters that can report changes to the
// repository behind a location (for example a branch switch). The
// channel closes once ctx is done.
type Watcher interface {
	Watch(ctx context.Context, repo *Repo) (<-chan Event, error)
}

// Repo identifies what the sidebar currently displays.
type Repo struct {
	Username      string
	Reponame      string
	Branch        string
	PullNumber    int
	DisplayBranch string

	// Host is the origin the repo was resolved on (e.g. https://github.com).
	Host string
	// Root is the worktree directory for local repositories.
	Root string
	// Commit is the resolved head commit, when known.
	Commit string
	// ResolvedAt is when the adapter produced this value.
	ResolvedAt time.Time
}

// FullName returns "username/reponame".
func (r *Repo) FullName() string {
	if r == nil {
		return ""
	}
	return r.Username + "/" + r.Reponame
}

// String formats the repo for logs.
func (r *Repo) String() string {
	if r == nil {
		return "<none>"
	}
	s := r.FullName() + "@" + r.Branch
	if r.PullNumber > 0 {
		s += fmt.Sprintf("#%d", r.PullNumber)
	}
	return s
}

// ItemType is the kind of a tree item.
type ItemType string

const (
	Blob   ItemType = "blob"
	Tree   ItemType = "tree"
	Commit ItemType = "commit"
)

// TreeRequest selects what LoadTree lists.
type TreeRequest struct {
	Token string
	// Path is the directory to list; "" is the repository root.
	Path string
	// Recursive lists everything below Path instead of one level.
	Recursive bool
	// PullRequests lists the pull request's changed files when the repo
	// has a PullNumber.
	PullRequests bool
}

// TreeItem is one entry of a repository tree.
type TreeItem struct {
	// Path is relative to the repository root, slash separated.
	Path string
	Name string
	Type ItemType
	Size int64
	// Status is the pull request change status (added, modified, ...).
	Status string
}

// EventType identifies the kind of adapter event.
type EventType string

const (
	EventHeadChanged EventType = "head_changed"
)

// Event represents a change in the watched repository.
type Event struct {
	Type EventType
	Ref  string
}

// Error is a user-facing resolution or load failure.
type Error struct {
	Status  int
	Title   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Title, e.Err)
	}
	return e.Title + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusError maps an HTTP status to the error shown to the user.
func StatusError(status int, err error) *Error {
	switch status {
	case http.StatusUnauthorized:
		return &Error{Status: status, Title: "Invalid token", Message: "The access token is invalid or expired. Update it in the options panel.", Err: err}
	case http.StatusForbidden:
		return &Error{Status: status, Title: "API limit exceeded", Message: "The API rate limit was hit. Add an access token in the options panel to raise it.", Err: err}
	case http.StatusNotFound:
		return &Error{Status: status, Title: "Private or missing repository", Message: "The repository was not found. Private repositories need an access token.", Err: err}
	case 0:
		return &Error{Title: "Connection error", Message: "The code host could not be reached.", Err: err}
	default:
		return &Error{Status: status, Title: "Error", Message: fmt.Sprintf("The code host answered with status %d.", status), Err: err}
	}
}
