// Package main hosts the echo CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the long-running screenshot watcher,
// one-shot bungie id resolution, activity-mode lookups, and configuration
// scaffolding. It centralizes configuration loading, credential checks, and
// structured logging setup so subcommands can focus on user experience
// instead of wiring.
package main
