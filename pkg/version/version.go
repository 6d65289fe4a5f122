// Package version reports build metadata, set with -ldflags -X or read from
// the embedded build info.
package version

import (
	"encoding/json"
	"runtime"
	"runtime/debug"
)

///////////////////////////////////////////////////////////////////////////////
// GLOBALS

var (
	GitSource   string
	GitTag      string
	GitBranch   string
	GitHash     string
	GoBuildTime string
)

const (
	// Product is the name sent in the User-Agent header
	Product = "go-upload"
)

///////////////////////////////////////////////////////////////////////////////
// PUBLIC METHODS

// Version returns the git tag, then the branch, then the short VCS revision,
// and finally "dev".
func Version() string {
	switch {
	case GitTag != "":
		return GitTag
	case GitBranch != "":
		return GitBranch
	}
	if rev := setting("vcs.revision"); rev != "" {
		return rev[:min(len(rev), 12)]
	}
	return "dev"
}

// UserAgent returns the User-Agent header value for outgoing requests.
func UserAgent() string {
	return Product + "/" + Version() + " (" + runtime.GOOS + "/" + runtime.GOARCH + ")"
}

// Metadata returns the build metadata for the named executable. Fields not
// set at link time are filled in from the embedded build info.
func Metadata(execName string) map[string]string {
	metadata := map[string]string{
		"name":     execName,
		"version":  Version(),
		"compiler": runtime.Version(),
		"platform": runtime.GOOS + "/" + runtime.GOARCH,
	}
	set := func(key, value, fallback string) {
		if value == "" {
			value = fallback
		}
		if value != "" {
			metadata[key] = value
		}
	}
	var source string
	if info, ok := debug.ReadBuildInfo(); ok {
		source = info.Main.Path
	}
	set("source", GitSource, source)
	set("tag", GitTag, "")
	set("branch", GitBranch, "")
	set("hash", GitHash, setting("vcs.revision"))
	set("build_time", GoBuildTime, setting("vcs.time"))
	if setting("vcs.modified") == "true" {
		metadata["modified"] = "true"
	}
	return metadata
}

// JSON returns the build metadata as indented JSON.
func JSON(execName string) []byte {
	data, err := json.MarshalIndent(Metadata(execName), "", "  ")
	if err != nil {
		panic(err)
	}
	return data
}

///////////////////////////////////////////////////////////////////////////////
// PRIVATE METHODS

func setting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, s := range info.Settings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}
