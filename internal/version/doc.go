// Package version exposes build metadata injected via -ldflags
// (Version, Commit, BuildTime) and a cobra `version` subcommand.
package version
