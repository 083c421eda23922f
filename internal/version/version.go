// Package version reports the build version of treeside.
package version

import "runtime/debug"

// Effective returns v, falling back to the module version or the VCS
// revision recorded in the build info.
func Effective(v string) string {
	if v != "" {
		return v
	}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	if info.Main.Version != "" && info.Main.Version != "(devel)" {
		return info.Main.Version
	}

	var revision string
	var dirty bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			dirty = setting.Value == "true"
		}
	}
	if revision == "" {
		return "devel"
	}
	ver := "devel+" + ShortRevision(revision)
	if dirty {
		ver += "+dirty"
	}
	return ver
}

// ShortRevision returns the first 12 chars of a revision.
func ShortRevision(rev string) string {
	if len(rev) > 12 {
		return rev[:12]
	}
	return rev
}
