package adapter

import (
	"log/slog"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/marcus/treeside/internal/settings"
)

// Env is what factories get to build and match adapters.
type Env struct {
	Store  settings.Store
	Logger *slog.Logger

	GitHubAPI     string
	GitHubTimeout time.Duration
	GitHubRate    float64

	WatchDebounce time.Duration
}

// Factory builds one adapter kind.
type Factory struct {
	ID string
	// Matches reports whether the adapter serves location.
	Matches func(location *url.URL, env Env) bool
	New     func(location *url.URL, env Env) Adapter
}

var (
	mu        sync.Mutex
	factories []Factory
)

// RegisterFactory adds a factory. Factories are tried in registration order.
func RegisterFactory(f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories = append(factories, f)
}

// Factories returns the registered factories.
func Factories() []Factory {
	mu.Lock()
	defer mu.Unlock()
	return append([]Factory(nil), factories...)
}

// Select builds the first adapter whose factory matches location, or returns
// nil when none does.
func Select(location string, env Env) Adapter {
	return SelectFrom(Factories(), location, env)
}

// SelectFrom is Select over an explicit factory list.
func SelectFrom(fs []Factory, location string, env Env) Adapter {
	u, err := url.Parse(location)
	if err != nil {
		if env.Logger != nil {
			env.Logger.Debug("adapter: unparsable location", "location", location, "err", err)
		}
		return nil
	}
	for _, f := range fs {
		if f.Matches != nil && f.Matches(u, env) {
			return f.New(u, env)
		}
	}
	return nil
}

var originRe = regexp.MustCompile(`^(.*?://[^/]+)(.*)$`)

// NormalizeOrigin strips everything after the host of raw.
func NormalizeOrigin(raw string) string {
	raw = strings.TrimSpace(raw)
	return strings.TrimRight(originRe.ReplaceAllString(raw, "$1"), "/")
}

// Origin returns scheme://host of u.
func Origin(u *url.URL) string {
	return u.Scheme + "://" + u.Host
}
