// Package main hosts the curator CLI entrypoint and command graph.
//
// The Cobra-based command tree translates terminal invocations into curation
// workflow runs, stage folder queries, repository account and review listings,
// identifier reservation, audit history lookups, and configuration
// scaffolding. It centralizes configuration resolution, API client
// construction, and structured logging setup so subcommands can focus on user
// experience instead of wiring.
//
// Keep this package lean: new behavior belongs in the internal packages
// first, surfaced here through dedicated commands or flags. The CLI stays
// declarative while the heavy lifting lives in reusable workflow components.
package main
