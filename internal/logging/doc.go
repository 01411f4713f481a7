// Package logging builds the slog loggers used across the curation workflow
// and provides typed attribute helpers plus context-derived fields.
package logging
