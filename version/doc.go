// Package version exposes pivotkit build information.
//
// Version, git commit, and build time are set at compile time via
// -ldflags:
//
//	go build -ldflags "-X github.com/skillsenselab/pivotkit/version.Version=1.0.0"
package version
