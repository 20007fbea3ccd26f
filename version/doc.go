// Package version reports the SDK version and builds the User-Agent sent
// with every API call.
//
// Version can be pinned at build time via -ldflags:
//
//	go build -ldflags "-X github.com/petjeaf/petjeaf-go/version.Version=1.0.0"
//
// Otherwise it is read from the module build info of the host binary.
package version
