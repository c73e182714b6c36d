package errors

import (
	"context"
	"log/slog"
)

// LogHandler is an ErrorHandler that writes errors to a slog.Logger.
type LogHandler struct {
	// Logger receives the records. Nil uses slog.Default().
	Logger *slog.Logger
	// Verbose adds stack traces to the records.
	Verbose bool
}

func (h *LogHandler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// Level is the level LogHandler logs errors of kind k at.
func (k ErrorKind) Level() slog.Level {
	switch {
	case k == KindMissingContent:
		return slog.LevelDebug
	case k.Soft():
		return slog.LevelInfo
	default:
		return slog.LevelError
	}
}

// HandleError logs a ControllerError at its kind's Level.
func (h *LogHandler) HandleError(err *ControllerError) {
	if err == nil {
		return
	}
	attrs := []any{
		slog.String("op", err.Op),
		slog.String("kind", err.Kind.String()),
		slog.Any("err", err.Err),
	}
	if err.Transaction != "" {
		attrs = append(attrs, slog.String("txn", err.Transaction))
	}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Log(context.Background(), err.Kind.Level(), "datacontroller error", attrs...)
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	attrs := []any{slog.String("op", err.Op), slog.Any("value", err.Value)}
	if h.Verbose && err.StackTrace != "" {
		attrs = append(attrs, slog.String("stack", err.StackTrace))
	}
	h.logger().Error("datacontroller panic", attrs...)
}
