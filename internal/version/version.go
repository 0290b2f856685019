// Package version carries build-time identification for the engine binary.
package version

// These are overwritten at build time via -ldflags, e.g.
//  go build -ldflags "-X github.com/silvaine/corvid/internal/version.build=abc1234"
var (
	major = "0"
	minor = "9"
	patch = "0"
	build = "dev"
)

// Version returns a human readable version string of the form
// MAJOR.MINOR.PATCH+build.
func Version() string {
	return major + "." + minor + "." + patch + "+" + build
}
