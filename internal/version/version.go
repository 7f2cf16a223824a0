package version

// These variables are set at build time using -ldflags
// Example: go build -ldflags "-X github.com/alexiusacademia/opsrun/internal/version.Version=0.2.0"
var (
	// Version is the semantic version of the application
	Version = "0.1.0"

	// BuildTime is the time the binary was built (set via ldflags)
	BuildTime = "unknown"

	// GitCommit is the git commit hash (set via ldflags)
	GitCommit = "unknown"

	// Author of the application
	Author = "Alexius Academia"

	// Year of release
	Year = "2025"
)

// String returns the one-line version banner.
func String() string {
	s := "opsrun v" + Version
	if GitCommit != "unknown" {
		s += " (" + GitCommit + ")"
	}
	if BuildTime != "unknown" {
		s += " built " + BuildTime
	}
	return s
}
