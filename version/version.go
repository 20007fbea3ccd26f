package version

import (
	"runtime/debug"
	"strings"

	"golang.org/x/mod/semver"
)

// ModulePath is the import path of this SDK.
const ModulePath = "github.com/petjeaf/petjeaf-go"

// Product is the User-Agent product token.
const Product = "petjeaf-go"

// AuthMarker is appended to the User-Agent to advertise the auth scheme.
const AuthMarker = "OAuth/2.0"

var (
	// Version is set at build time using -ldflags.
	Version = ""

	readBuildInfo = debug.ReadBuildInfo
)

// Get returns the SDK version: the ldflags value, the module version the
// host binary depends on, or "dev".
func Get() string {
	if Version != "" {
		return Version
	}
	if info, ok := readBuildInfo(); ok {
		if info.Main.Path == ModulePath && isTagged(info.Main.Version) {
			return info.Main.Version
		}
		for _, dep := range info.Deps {
			if dep.Path == ModulePath && isTagged(dep.Version) {
				return dep.Version
			}
		}
	}
	return "dev"
}

// isTagged rejects "(devel)" and other non-semver build versions.
func isTagged(v string) bool {
	return semver.IsValid(v)
}

// UserAgent returns "petjeaf-go/<version> OAuth/2.0" followed by any
// non-empty extra tokens.
func UserAgent(extra ...string) string {
	parts := []string{Product + "/" + Get(), AuthMarker}
	for _, e := range extra {
		if e = strings.TrimSpace(e); e != "" {
			parts = append(parts, e)
		}
	}
	return strings.Join(parts, " ")
}
