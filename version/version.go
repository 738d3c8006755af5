// Package version carries build information, set at link time:
//
//	go build -ldflags "-X github.com/farcloser/clutfilt/version.version=v1.2.0 -X github.com/farcloser/clutfilt/version.commit=$(git rev-parse --short HEAD)"
package version

import (
	"os"
	"path/filepath"
)

//nolint:gochecknoglobals // set by the linker
var (
	name    = ""
	version = "dev"
	commit  = "unknown"
)

// Name returns the program name, defaulting to the invoked binary name.
func Name() string {
	if name != "" {
		return name
	}

	return filepath.Base(os.Args[0])
}

func Version() string {
	return version
}

func Commit() string {
	return commit
}
