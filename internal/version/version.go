// Package version holds the build version string.
package version

// Version is the dikto release version.
const Version = "0.1.0"
