// Package settings defines the persisted user settings, their defaults, and
// the Store contract the controller and plugins read and write them through.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Key identifies a persisted setting.
type Key string

const (
	Token          Key = "access-token"
	Hotkeys        Key = "hotkeys"
	Icons          Key = "icon-set"
	LoadAll        Key = "load-all-files"
	PopupSeen      Key = "help-popup-seen"
	Width          Key = "sidebar-width"
	Shown          Key = "shown"
	EnterpriseURLs Key = "enterprise-urls"
	PullRequests   Key = "show-prs"
	Remember       Key = "remember-on-visible"
	HiddenPatterns Key = "hidden-patterns"
	WatchRepo      Key = "watch-repo"
)

// Value is a setting value. Only string and bool are stored.
type Value = any

// ErrInvalidValue is returned when a value is neither a string nor a bool.
var ErrInvalidValue = errors.New("settings: value must be a string or bool")

var defaults = map[Key]Value{
	Token:          "",
	Hotkeys:        "ctrl+b,alt+b",
	Icons:          true,
	LoadAll:        true,
	PopupSeen:      false,
	Width:          "32",
	Shown:          false,
	EnterpriseURLs: "",
	PullRequests:   true,
	Remember:       false,
	HiddenPatterns: "",
	WatchRepo:      true,
}

// Keys returns every known key in a stable order.
func Keys() []Key {
	keys := make([]Key, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// Default returns the declared default for key.
func Default(key Key) (Value, bool) {
	v, ok := defaults[key]
	return v, ok
}

// Change holds the previous and the new value of a key, in that order.
type Change [2]Value

// Old returns the value before the change.
func (c Change) Old() Value { return c[0] }

// New returns the value after the change.
func (c Change) New() Value { return c[1] }

// Changes maps every changed key to its old and new value.
type Changes map[Key]Change

// Has reports whether key changed.
func (c Changes) Has(key Key) bool {
	_, ok := c[key]
	return ok
}

// Store persists settings. Get reads the cached value synchronously; Set and
// SetIfNull persist and may block on I/O.
type Store interface {
	Get(key Key) Value
	Set(ctx context.Context, key Key, value Value) error
	SetIfNull(ctx context.Context, key Key, value Value) error
}

func validate(value Value) error {
	switch value.(type) {
	case string, bool:
		return nil
	default:
		return fmt.Errorf("%w (got %T)", ErrInvalidValue, value)
	}
}

// String returns the value of key as a string. Booleans are formatted.
func String(s Store, key Key) string {
	switch v := s.Get(key).(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	default:
		return ""
	}
}

// Bool returns the value of key as a bool. Strings are parsed leniently and
// anything unparseable is false.
func Bool(s Store, key Key) bool {
	switch v := s.Get(key).(type) {
	case bool:
		return v
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(v))
		return b
	default:
		return false
	}
}

// Int parses the leading integer of the value of key, the way a width
// stored as "32" or "32px" is read back. It returns fallback when there is
// no leading integer.
func Int(s Store, key Key, fallback int) int {
	raw := strings.TrimSpace(String(s, key))
	end := 0
	for end < len(raw) && (raw[end] >= '0' && raw[end] <= '9' || end == 0 && raw[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(raw[:end])
	if err != nil {
		return fallback
	}
	return n
}
