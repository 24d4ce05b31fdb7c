// Package logging defines the structured-logging interface used across the
// service. The only production implementation wraps log/slog.
package logging

import "context"

// Logger is a context-aware, structured logger. The variadic args are
// key-value pairs:
//
//	log.Info(ctx, "user signed in", "user_id", id)
//
// Never pass passwords, hashes, tokens or secrets as values.
type Logger interface {
	Debug(ctx context.Context, msg string, args ...any)
	Info(ctx context.Context, msg string, args ...any)
	Warn(ctx context.Context, msg string, args ...any)
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given pairs.
	With(args ...any) Logger
}

// Nop discards everything. Handy in tests.
type Nop struct{}

func (Nop) Debug(context.Context, string, ...any) {}
func (Nop) Info(context.Context, string, ...any)  {}
func (Nop) Warn(context.Context, string, ...any)  {}
func (Nop) Error(context.Context, string, ...any) {}
func (n Nop) With(...any) Logger                  { return n }
