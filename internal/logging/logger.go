// Package logging defines the structured logger passed to services and the
// staging engine, with an slog-backed implementation.
package logging

import "context"

// Logger takes key/value pairs after the message:
//
//	log.Info(ctx, "recipe committed", "food_id", id, "mode", mode)
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)

	// Warn is for failures that were recovered from, such as a best-effort
	// cleanup that did not complete.
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes args.
	With(args ...any) Logger
}
