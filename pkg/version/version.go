// Package version exposes the gateway's build version.
package version

// version is overridable at build time via
// -ldflags "-X github.com/sentientlabs/romagate/pkg/version.version=...".
var version = "0.3.0"

// Get returns the current version.
func Get() string {
	return version
}
