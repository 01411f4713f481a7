package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	articleIDKey contextKey = "article_id"
	stageKey     contextKey = "stage"
)

// WithRunID attaches a workflow run identifier to the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	if runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

// RunIDFromContext extracts the workflow run identifier, if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	id, ok := ctx.Value(runIDKey).(string)
	return id, ok && id != ""
}

// WithArticleID attaches the deposit's article identifier to the context.
func WithArticleID(ctx context.Context, articleID int64) context.Context {
	if articleID <= 0 {
		return ctx
	}
	return context.WithValue(ctx, articleIDKey, articleID)
}

// ArticleIDFromContext extracts the deposit's article identifier, if present.
func ArticleIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	id, ok := ctx.Value(articleIDKey).(int64)
	return id, ok && id > 0
}

// WithStage attaches the current curation stage name to the context.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext extracts the current curation stage name, if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	stage, ok := ctx.Value(stageKey).(string)
	return stage, ok && stage != ""
}
