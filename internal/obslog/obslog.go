// Package obslog provides the context-aware structured logger used by
// the apply pipeline, following the same
// "logger-from-context" shape the file editor's ctxlogger helper uses,
// minus the OpenTelemetry trace enrichment this library has no use for.
package obslog

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type runIDKey struct{}

// WithRunID attaches a run correlation id to ctx for later retrieval by From.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey{}, runID)
}

// From returns a logger enriched with the run id carried on ctx, if any.
func From(ctx context.Context) *zerolog.Logger {
	l := log.Logger
	if ctx == nil {
		return &l
	}
	if runID, ok := ctx.Value(runIDKey{}).(string); ok && runID != "" {
		l = l.With().Str("run_id", runID).Logger()
	}
	return &l
}
