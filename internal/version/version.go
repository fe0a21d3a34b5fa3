package version

import (
	"runtime/debug"
	"strings"
)

// String reports the module version, or "(devel)" plus the VCS revision for
// untagged builds.
func String() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "(devel)"
	}
	return fromBuildInfo(info)
}

func fromBuildInfo(info *debug.BuildInfo) string {
	version := info.Main.Version
	if version != "" && version != "(devel)" && !strings.Contains(version, "+dirty") && !isPseudoVersion(version) {
		return version
	}

	var revision string
	var modified bool
	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			revision = setting.Value
		case "vcs.modified":
			modified = setting.Value == "true"
		}
	}
	if revision == "" {
		return "(devel)"
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	if modified {
		revision += "-dirty"
	}
	return "(devel " + revision + ")"
}

// isPseudoVersion matches v0.0.0-20250101120000-abcdef123456 style versions.
func isPseudoVersion(version string) bool {
	version, _, _ = strings.Cut(version, "+")

	parts := strings.Split(version, "-")
	if len(parts) < 3 {
		return false
	}
	ts := parts[len(parts)-2]
	if i := strings.LastIndexByte(ts, '.'); i >= 0 {
		ts = ts[i+1:]
	}
	hash := parts[len(parts)-1]
	return len(ts) == 14 && strings.Trim(ts, "0123456789") == "" &&
		len(hash) >= 12 && strings.Trim(hash, "0123456789abcdefABCDEF") == ""
}
