package hier

import (
	"context"
	"log/slog"
	"os"

	slogctx "github.com/veqryn/slog-context"
)

// slogLogger wraps a context-carrying slog.Logger, annotated with the
// module name, that each Environment holds for internal diagnostics. The
// interpreter emits no records through it. It never
// touches the literal stdout/stderr contracts print/println/report use:
// those are part of the language's own I/O surface, not host
// observability, and must stay byte-for-byte what spec section 7 expects.
type slogLogger struct {
	ctx context.Context
}

func newLogger(module string) *slogLogger {
	base := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := slogctx.NewCtx(context.Background(), base.With("module", module))
	return &slogLogger{ctx: ctx}
}

func (l *slogLogger) withScope(scope uint64) *slogLogger {
	if l == nil {
		return nil
	}
	return &slogLogger{ctx: slogctx.With(l.ctx, "scope", scope)}
}

func (l *slogLogger) debug(msg string, args ...any) {
	if l == nil {
		return
	}
	slogctx.FromCtx(l.ctx).Debug(msg, args...)
}

func (l *slogLogger) warn(msg string, args ...any) {
	if l == nil {
		return
	}
	slogctx.FromCtx(l.ctx).Warn(msg, args...)
}
