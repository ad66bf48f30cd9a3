package version

import "runtime/debug"

// Set via -ldflags; fallbacks if VCS stamping is unavailable.
var (
	Version = "0.3.0"   // bootbanner release
	Commit  = "none"    // short sha
	Date    = "unknown" // build time, UTC
)

// VCSInfo is the subset of build settings stamped by the go tool.
type VCSInfo struct {
	System   string // "git"
	Revision string // full sha
	Time     string // RFC3339 commit time
	Modified bool
}

// ReadVCS returns the VCS stamp of the running binary, if any.
func ReadVCS() (VCSInfo, bool) {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return VCSInfo{}, false
	}
	var v VCSInfo
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs":
			v.System = s.Value
		case "vcs.revision":
			v.Revision = s.Value
		case "vcs.time":
			v.Time = s.Value
		case "vcs.modified":
			v.Modified = s.Value == "true"
		}
	}
	return v, v.Revision != ""
}

// MainModule returns the version of the main module of the running binary.
// Returns "" for development builds.
func MainModule() string {
	bi, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	if v := bi.Main.Version; v != "" && v != "(devel)" {
		return v
	}
	return ""
}

// Full returns the release version with commit details.
func Full() string {
	if vcs, ok := ReadVCS(); ok {
		dirty := ""
		if vcs.Modified {
			dirty = ", dirty"
		}
		return Version + " (" + vcs.System + " " + Short(vcs.Revision) + ", " + vcs.Time + dirty + ")"
	}
	return Version + " (" + Commit + ", " + Date + ")"
}

// Short truncates a commit sha to 7 characters.
func Short(sha string) string {
	if len(sha) >= 7 {
		return sha[:7]
	}
	return sha
}
