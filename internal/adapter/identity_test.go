package adapter

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

func drawRepo(t *rapid.T, label string) *Repo {
	return &Repo{
		Username:   rapid.StringMatching(`[a-z][a-z0-9-]{0,6}`).Draw(t, label+".username"),
		Reponame:   rapid.StringMatching(`[a-z][a-z0-9._-]{0,6}`).Draw(t, label+".reponame"),
		Branch:     rapid.StringMatching(`[a-z0-9/._-]{1,8}`).Draw(t, label+".branch"),
		PullNumber: rapid.IntRange(0, 20).Draw(t, label+".pullNumber"),
	}
}

func TestEquivalent_IgnoresVolatileFields(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawRepo(t, "a")
		b := *a
		b.DisplayBranch = rapid.String().Draw(t, "display")
		b.Commit = rapid.StringMatching(`[0-9a-f]{7}`).Draw(t, "commit")
		b.Host = rapid.String().Draw(t, "host")
		b.ResolvedAt = time.Unix(rapid.Int64Range(0, 1<<40).Draw(t, "at"), 0)

		if !Equivalent(a, &b) {
			t.Fatalf("%v and %v differ only in volatile fields", a, &b)
		}
		if a.Fingerprint() != b.Fingerprint() {
			t.Fatalf("fingerprints differ for equivalent repos")
		}
	})
}

func TestEquivalent_AnyIdentityFieldDiffers(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := drawRepo(t, "a")
		b := *a
		switch rapid.IntRange(0, 3).Draw(t, "field") {
		case 0:
			b.Username += "x"
		case 1:
			b.Reponame += "x"
		case 2:
			b.Branch += "x"
		case 3:
			b.PullNumber++
		}
		if Equivalent(a, &b) {
			t.Fatalf("%v and %v should not be equivalent", a, &b)
		}
	})
}

func TestEquivalent_Nil(t *testing.T) {
	r := &Repo{Username: "u", Reponame: "r", Branch: "main"}
	if !Equivalent(nil, nil) {
		t.Error("nil should be equivalent to nil")
	}
	if Equivalent(nil, r) || Equivalent(r, nil) {
		t.Error("nil should never be equivalent to a repo")
	}
}

func TestIdentityKey_Format(t *testing.T) {
	r := &Repo{Username: "octo", Reponame: "tree", Branch: "main", Commit: "abc"}
	want := `{"username":"octo","reponame":"tree","branch":"main"}`
	if got := IdentityKey(r); got != want {
		t.Errorf("IdentityKey = %s, want %s", got, want)
	}
	r.PullNumber = 7
	want = `{"username":"octo","reponame":"tree","branch":"main","pullNumber":7}`
	if got := IdentityKey(r); got != want {
		t.Errorf("IdentityKey = %s, want %s", got, want)
	}
}
