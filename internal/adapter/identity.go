package adapter

import (
	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"
)

// identity is the part of a Repo that decides whether it changed. Fields not
// listed here (commit, timestamps, ...) never trigger a reload.
type identity struct {
	Username   string `json:"username"`
	Reponame   string `json:"reponame"`
	Branch     string `json:"branch"`
	PullNumber int    `json:"pullNumber,omitempty"`
}

// IdentityKey returns the serialized identity of r; "null" for nil.
func IdentityKey(r *Repo) string {
	if r == nil {
		return "null"
	}
	data, err := json.Marshal(identity{
		Username:   r.Username,
		Reponame:   r.Reponame,
		Branch:     r.Branch,
		PullNumber: r.PullNumber,
	})
	if err != nil {
		// Strings and ints always encode.
		panic(err)
	}
	return string(data)
}

// Equivalent reports whether a and b display the same repository.
func Equivalent(a, b *Repo) bool {
	return IdentityKey(a) == IdentityKey(b)
}

// Fingerprint hashes the identity of r.
func (r *Repo) Fingerprint() uint64 {
	return xxhash.Sum64String(IdentityKey(r))
}
