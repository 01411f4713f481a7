// Package preflight validates the curation environment before a workflow
// run: workspace and stage folder access, token presence, and repository
// service reachability.
package preflight
