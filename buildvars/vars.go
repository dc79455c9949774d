// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

// Package buildvars contains variables injected at build time.
package buildvars

// Set at link time, e.g.
// -ldflags "-X github.com/toeirei/railbook/buildvars.Version=1.2.3".
// They are empty for local or development builds.
var (
	Version   string
	GitCommit string
	BuildDate string
)

// VersionOrDefault returns `Version` if set, otherwise returns the provided default.
func VersionOrDefault(def string) string {
	if len(Version) > 0 {
		return Version
	}
	return def
}

// CommitOrDefault returns `GitCommit` if set, otherwise def.
func CommitOrDefault(def string) string {
	if len(GitCommit) > 0 {
		return GitCommit
	}
	return def
}
