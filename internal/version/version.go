// Package version provides version information for urlgrep.
package version

import (
	"fmt"
	"runtime"
)

const (
	// Name of the program.
	Name string = "urlgrep"
	// Version of the program.
	Version string = "1.0.0-develop"
)

// String returns a plain text representation of the version.
func String() string {
	return fmt.Sprintf("%s %s %s/%s %s", Name, Version,
		runtime.GOOS, runtime.GOARCH, runtime.Version())
}

// UserAgent is sent with every HTTP source request.
func UserAgent() string {
	return Name + "/" + Version
}
